package cli

import (
	"fmt"
	"log/slog"
	"os"

	"lexbrief-backend/app"
	"lexbrief-backend/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X lexbrief-backend/cli.Version=..."
var Version = "v0.3.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lexbrief",
	Short: "LexBrief - plain-language summaries and case information for legal documents",
	Long: `LexBrief reads a legal document (PDF, DOCX or TXT) and uses a hosted
language model to summarize it, extract key case information, explain
the legal sections it cites, answer questions about it and translate
its summaries into Indian languages.

Run "lexbrief serve" to start the HTTP API, or use "lexbrief analyze"
to work with a single file from the command line.

Answers are drawn from the document text alone and are not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lexbrief %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(config.LoadDotEnv)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lexbrief/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the layered configuration and builds the logger
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger := app.NewLogger(cfg.Log, os.Stderr)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return cfg, logger, nil
}
