package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"LegalAnalyzer/internal/app"
	"LegalAnalyzer/internal/config"
	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/logging"
	"LegalAnalyzer/internal/progress"
)

var (
	maxAIClauses int
	showProgress bool
)

var rootCmd = &cobra.Command{
	Use:           "legalanalyzer",
	Short:         "Extract, simplify and classify the clauses of legal documents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyse a PDF, DOCX or text document and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	analyzeCmd.Flags().IntVar(&maxAIClauses, "max-ai-clauses", -1, "Clauses allowed to use model backed simplification (-1 keeps the configured value)")
	analyzeCmd.Flags().BoolVar(&showProgress, "progress", false, "Log pipeline progress events")
	rootCmd.AddCommand(analyzeCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if maxAIClauses >= 0 {
		cfg.Pipeline.MaxAISimplifyClauses = maxAIClauses
	}
	// stdout carries the JSON result.
	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	reporter := progress.Discard
	if showProgress {
		reporter = progress.Func(func(_ context.Context, e domain.ProgressEvent) {
			if e.IsStageEvent() {
				logger.Info(e.Message, "step", e.Step, "status", e.Status)
				return
			}
			logger.Info(e.Message, "step", e.Step, "index", e.Index, "total", e.Total)
		})
	}

	doc := domain.Document{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}
	result, err := application.Analyzer().Analyze(cmd.Context(), doc, reporter)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Serve(cmd.Context())
}
