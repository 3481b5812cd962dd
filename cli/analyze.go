package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lexbrief-backend/app"
	"lexbrief-backend/config"
	"lexbrief-backend/models"
	"lexbrief-backend/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	analyzeTimeout time.Duration
	analyzeFormat  string
	analyzeOutput  string
	analyzeNoCase  bool
	translateTo    string
	translateType  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize a document and extract its case information",
	Long: `Analyze reads a PDF, DOCX or TXT file and produces the professional,
simple and detailed summaries together with the key case information
(clauses, legal sections, names, organizations, locations) and a
plain-language explanation of each legal section.

Example:
  lexbrief analyze judgment.pdf
  lexbrief analyze contract.docx --format json --output contract.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Answer a question about a document",
	Long: `Ask answers a question using only the text of the given document.

Example:
  lexbrief ask judgment.pdf "What relief was granted?"`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

var translateCmd = &cobra.Command{
	Use:   "translate <file>",
	Short: "Summarize a document and translate the summary",
	Long: `Translate generates a summary of the given type and renders it in one
of the supported Indian languages. Run "lexbrief languages" for the list.

Example:
  lexbrief translate judgment.pdf --language ta
  lexbrief translate judgment.pdf --language Hindi --type professional`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(analyzeCmd, askCmd, translateCmd)

	for _, cmd := range []*cobra.Command{analyzeCmd, askCmd, translateCmd} {
		cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall timeout")
	}

	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "markdown", "output format: markdown or json")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeNoCase, "summaries-only", false, "skip case information extraction")

	translateCmd.Flags().StringVarP(&translateTo, "language", "l", "", "target language code or name (required)")
	translateCmd.Flags().StringVarP(&translateType, "type", "t", string(models.SummarySimple), "summary type to translate")
	_ = translateCmd.MarkFlagRequired("language")
}

// localRun is a single-document session for command line use
type localRun struct {
	app       *app.App
	sessionID uuid.UUID
	document  models.Document
}

// openDocument wires an instance without archive or ledger and uploads path into a fresh session
func openDocument(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) (*localRun, error) {
	a, err := app.New(ctx, cfg, logger, app.WithoutArchive())
	if err != nil {
		return nil, err
	}

	run, err := uploadFile(ctx, a, path)
	if err != nil {
		a.Close()
		return nil, err
	}
	return run, nil
}

func uploadFile(ctx context.Context, a *app.App, path string) (*localRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	sess, err := a.Service.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	result, err := a.Service.UploadDocument(ctx, service.UploadDocumentRequest{
		SessionID: sess.State.ID,
		FileName:  filepath.Base(path),
		Size:      info.Size(),
		Data:      f,
	})
	if err != nil {
		return nil, err
	}

	return &localRun{app: a, sessionID: sess.State.ID, document: result.Document}, nil
}

func (r *localRun) Close() {
	_ = r.app.Service.EndSession(context.Background(), service.SessionRequest{SessionID: r.sessionID})
	r.app.Close()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "markdown" && analyzeFormat != "json" {
		return fmt.Errorf("invalid --format %q (supported: markdown, json)", analyzeFormat)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	run, err := openDocument(ctx, cfg, logger, args[0])
	if err != nil {
		return err
	}
	defer run.Close()

	report, err := run.analyze(ctx, !analyzeNoCase)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if analyzeOutput != "" {
		f, err := os.Create(analyzeOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if analyzeFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return renderReport(out, report)
}

func (r *localRun) analyze(ctx context.Context, withCase bool) (*analysisReport, error) {
	req := service.SessionRequest{SessionID: r.sessionID}

	summaries, err := r.app.Service.GenerateSummaries(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &analysisReport{
		Document:  r.document,
		Summaries: summaries.Summaries,
	}
	if withCase {
		info, err := r.app.Service.AnalyzeCase(ctx, req)
		if err != nil {
			return nil, err
		}
		report.CaseInfo = &info.CaseInfo
	}
	return report, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	run, err := openDocument(ctx, cfg, logger, args[0])
	if err != nil {
		return err
	}
	defer run.Close()

	result, err := run.app.Service.AskQuestion(ctx, service.AskQuestionRequest{
		SessionID: run.sessionID,
		Question:  args[1],
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Entry.Answer)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	run, err := openDocument(ctx, cfg, logger, args[0])
	if err != nil {
		return err
	}
	defer run.Close()

	summaryType := models.SummaryType(translateType)
	if _, err := run.app.Service.GenerateSummary(ctx, service.GenerateSummaryRequest{
		SessionID:   run.sessionID,
		SummaryType: summaryType,
	}); err != nil {
		return err
	}

	result, err := run.app.Service.TranslateSummary(ctx, service.TranslateSummaryRequest{
		SessionID:   run.sessionID,
		SummaryType: summaryType,
		Language:    translateTo,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "## %s summary (%s)\n\n%s\n",
		result.Translation.SummaryType, result.Translation.Language.Name, result.Translation.Text)
	return nil
}
