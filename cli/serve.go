package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lexbrief-backend/app"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve starts the LexBrief HTTP API.

Uploaded originals are archived according to storage.type (none, local, s3)
and recorded in PostgreSQL when database.url (or DATABASE_URL) is set.

Example:
  lexbrief serve --port 8080
  LEXBRIEF_AI_PROVIDER=openai OPENAI_API_KEY=sk-... lexbrief serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "listen port (overrides server.port and PORT)")
	serveCmd.Flags().String("provider", "", "model provider: gemini or openai")
	serveCmd.Flags().String("model", "", "model name")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("ai.provider", serveCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("ai.model", serveCmd.Flags().Lookup("model"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Debug("effective config", "config", fmt.Sprintf("%+v", cfg.Redacted()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}
