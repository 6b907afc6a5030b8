package workflow

import (
	"log/slog"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/extractor"
	"github.com/JaimeStill/beacon/internal/scoring"
	"github.com/JaimeStill/beacon/internal/textproc"
	"github.com/JaimeStill/beacon/internal/vocabulary"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
// Every field except Enricher and Metrics is required. A Runtime holds no
// per-document state and may be shared by concurrent callers.
type Runtime struct {
	Classifier *classifier.Classifier
	Extractor  *extractor.Extractor
	Cleaner    *textproc.Cleaner
	Reader     textproc.Reader
	Enricher   enrich.Enricher
	Precedence scoring.Precedence
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Options selects the optional parts of a Runtime built by NewRuntime.
type Options struct {
	TableThreshold int
	Precedence     scoring.Precedence
	Enricher       enrich.Enricher
	Metrics        *Metrics
}

// NewRuntime wires the classifier, extractor, cleaner and file reader over a
// single vocabulary.
func NewRuntime(v *vocabulary.Vocabulary, opts Options, logger *slog.Logger) *Runtime {
	precedence := opts.Precedence
	if precedence == "" {
		precedence = scoring.PreferRules
	}

	return &Runtime{
		Classifier: classifier.New(v, opts.TableThreshold),
		Extractor:  extractor.New(v),
		Cleaner:    textproc.NewCleaner(v),
		Reader:     textproc.NewFileReader(logger),
		Enricher:   opts.Enricher,
		Precedence: precedence,
		Metrics:    opts.Metrics,
		Logger:     logger.With("system", "workflow"),
	}
}
