// Package enrich supplies supplementary fields that complement rule-based
// extraction. Enrichment is best effort: callers treat any error as
// "unavailable" and continue with rule-derived fields only.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/beacon/internal/fields"
)

// Enrichment modes accepted by New.
const (
	ModeNone  = "none"
	ModeBasic = "basic"
	ModeLLM   = "llm"
)

// Sentinel errors for enrichment.
var (
	ErrUnavailable = errors.New("enrichment unavailable")
	ErrUnknownMode = errors.New("unknown enrichment mode")
)

// Enricher extracts supplementary fields from cleaned text.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, text string) (fields.Fields, error)
}

// Options configures the enricher built by New.
type Options struct {
	Mode    string
	BaseURL string
	Model   string
	Token   string
}

// New builds the enricher selected by opts.Mode. ModeNone returns a nil
// Enricher and no error.
func New(opts Options, logger *slog.Logger) (Enricher, error) {
	switch opts.Mode {
	case ModeNone:
		return nil, nil
	case "", ModeBasic:
		return NewBasic(), nil
	case ModeLLM:
		l, err := NewOpenAI(opts, logger)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
	}
}
