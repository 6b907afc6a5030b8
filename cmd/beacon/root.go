package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/workflow"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	verbose    bool
	vocabulary string
	enrichment string
}

var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Extract navigation aid records from OCR text",
	Long: `Beacon classifies OCR output from maritime navigation aid documents and
extracts structured records without a database or server.

Extraction settings are read from BEACON_EXTRACTION_* and BEACON_ENRICHMENT_*
environment variables; flags override them.

Examples:
  beacon classify fiche_ar_men.txt
  beacon extract --enrichment none fiche_ar_men.txt
  beacon batch ./ocr
  beacon export --out aids.xlsx ./ocr/*.txt`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log pipeline progress at debug level to stderr")
	pf.StringVar(&rootFlags.vocabulary, "vocabulary", "", "Vocabulary override file (JSON or YAML)")
	pf.StringVar(&rootFlags.enrichment, "enrichment", "", "Enrichment mode: none, basic or llm")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if rootFlags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRuntime builds a workflow runtime from the environment, with the
// persistent flags taking precedence. Metrics are not collected by the CLI.
func newRuntime(cmd *cobra.Command) (*workflow.Runtime, error) {
	var cfg config.ExtractionConfig
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("extraction config: %w", err)
	}

	if rootFlags.vocabulary != "" {
		cfg.VocabularyFile = rootFlags.vocabulary
	}
	if rootFlags.enrichment != "" {
		cfg.Enrichment.Mode = rootFlags.enrichment
	}

	v, err := cfg.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr())

	enricher, err := enrich.New(cfg.Enrichment.Options(), logger)
	if err != nil {
		return nil, fmt.Errorf("enricher: %w", err)
	}

	return workflow.NewRuntime(v, workflow.Options{
		TableThreshold: cfg.TableThreshold,
		Precedence:     cfg.Precedence(),
		Enricher:       enricher,
	}, logger), nil
}
