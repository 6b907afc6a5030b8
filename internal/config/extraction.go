package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/extractions"
	"github.com/JaimeStill/beacon/internal/scoring"
	"github.com/JaimeStill/beacon/internal/vocabulary"
)

const (
	EnvExtractionVocabularyFile    = "BEACON_EXTRACTION_VOCABULARY_FILE"
	EnvExtractionTableThreshold    = "BEACON_EXTRACTION_TABLE_THRESHOLD"
	EnvExtractionMergePrecedence   = "BEACON_EXTRACTION_MERGE_PRECEDENCE"
	EnvExtractionBatchLimit        = "BEACON_EXTRACTION_BATCH_LIMIT"
	EnvExtractionImportConcurrency = "BEACON_EXTRACTION_IMPORT_CONCURRENCY"
	EnvEnrichmentMode              = "BEACON_ENRICHMENT_MODE"
	EnvEnrichmentBaseURL           = "BEACON_ENRICHMENT_BASE_URL"
	EnvEnrichmentModel             = "BEACON_ENRICHMENT_MODEL"
	EnvEnrichmentToken             = "BEACON_ENRICHMENT_TOKEN"
)

// ExtractionConfig holds the extraction pipeline settings.
type ExtractionConfig struct {
	VocabularyFile    string           `toml:"vocabulary_file"`
	TableThreshold    int              `toml:"table_threshold"`
	MergePrecedence   string           `toml:"merge_precedence"`
	BatchLimit        int              `toml:"batch_limit"`
	ImportConcurrency int              `toml:"import_concurrency"`
	Enrichment        EnrichmentConfig `toml:"enrichment"`
}

// EnrichmentConfig selects and configures the enricher.
type EnrichmentConfig struct {
	Mode    string `toml:"mode"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Token   string `toml:"token"`
}

// Options converts the config into enricher options.
func (c *EnrichmentConfig) Options() enrich.Options {
	return enrich.Options{
		Mode:    c.Mode,
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Token:   c.Token,
	}
}

// Precedence returns the parsed merge precedence. Finalize has already
// rejected unknown values.
func (c *ExtractionConfig) Precedence() scoring.Precedence {
	p, _ := scoring.ParsePrecedence(c.MergePrecedence)
	return p
}

// Vocabulary loads the override file when one is configured and falls back
// to the embedded tables otherwise.
func (c *ExtractionConfig) Vocabulary() (*vocabulary.Vocabulary, error) {
	if c.VocabularyFile == "" {
		return vocabulary.Default(), nil
	}
	return vocabulary.LoadFile(c.VocabularyFile)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExtractionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.VocabularyFile != "" {
		c.VocabularyFile = overlay.VocabularyFile
	}
	if overlay.TableThreshold != 0 {
		c.TableThreshold = overlay.TableThreshold
	}
	if overlay.MergePrecedence != "" {
		c.MergePrecedence = overlay.MergePrecedence
	}
	if overlay.BatchLimit != 0 {
		c.BatchLimit = overlay.BatchLimit
	}
	if overlay.ImportConcurrency != 0 {
		c.ImportConcurrency = overlay.ImportConcurrency
	}
	if overlay.Enrichment.Mode != "" {
		c.Enrichment.Mode = overlay.Enrichment.Mode
	}
	if overlay.Enrichment.BaseURL != "" {
		c.Enrichment.BaseURL = overlay.Enrichment.BaseURL
	}
	if overlay.Enrichment.Model != "" {
		c.Enrichment.Model = overlay.Enrichment.Model
	}
	if overlay.Enrichment.Token != "" {
		c.Enrichment.Token = overlay.Enrichment.Token
	}
}

func (c *ExtractionConfig) loadDefaults() {
	if c.TableThreshold == 0 {
		c.TableThreshold = classifier.DefaultTableThreshold
	}
	if c.MergePrecedence == "" {
		c.MergePrecedence = string(scoring.PreferRules)
	}
	if c.BatchLimit == 0 {
		c.BatchLimit = 100
	}
	if c.ImportConcurrency == 0 {
		c.ImportConcurrency = 4
	}
	if c.Enrichment.Mode == "" {
		c.Enrichment.Mode = enrich.ModeBasic
	}
}

func (c *ExtractionConfig) loadEnv() {
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString(EnvExtractionVocabularyFile, &c.VocabularyFile)
	setInt(EnvExtractionTableThreshold, &c.TableThreshold)
	setString(EnvExtractionMergePrecedence, &c.MergePrecedence)
	setInt(EnvExtractionBatchLimit, &c.BatchLimit)
	setInt(EnvExtractionImportConcurrency, &c.ImportConcurrency)
	setString(EnvEnrichmentMode, &c.Enrichment.Mode)
	setString(EnvEnrichmentBaseURL, &c.Enrichment.BaseURL)
	setString(EnvEnrichmentModel, &c.Enrichment.Model)
	setString(EnvEnrichmentToken, &c.Enrichment.Token)
}

func (c *ExtractionConfig) validate() error {
	if c.TableThreshold < 1 {
		return fmt.Errorf("table_threshold must be positive: %d", c.TableThreshold)
	}
	if _, err := scoring.ParsePrecedence(c.MergePrecedence); err != nil {
		return err
	}
	if c.BatchLimit < 1 || c.BatchLimit > extractions.MaxLimit {
		return fmt.Errorf("batch_limit must be between 1 and %d: %d", extractions.MaxLimit, c.BatchLimit)
	}
	if c.ImportConcurrency < 1 {
		return fmt.Errorf("import_concurrency must be positive: %d", c.ImportConcurrency)
	}
	switch c.Enrichment.Mode {
	case enrich.ModeNone, enrich.ModeBasic, enrich.ModeLLM:
	default:
		return fmt.Errorf("%w: %q", enrich.ErrUnknownMode, c.Enrichment.Mode)
	}
	if c.Enrichment.Mode == enrich.ModeLLM && c.Enrichment.Model == "" {
		return fmt.Errorf("enrichment model required for mode %q", enrich.ModeLLM)
	}
	return nil
}
