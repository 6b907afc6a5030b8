package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/pkg/formatting"
)

// maxPromptRunes bounds the document text sent to the model.
const maxPromptRunes = 8000

const instructions = `You extract structured data about maritime navigation aids (lighthouses, buoys, beacons) from French OCR text.

Respond with a single JSON object and nothing else. Use only these keys and omit any key you cannot fill from the text:
- "n_sysi": 7 or 8 digit identifier
- "nom_patrimoine", "nom_bapteme": heritage and baptism names
- "position": coordinates as written
- "nature_support": support type (Phare, Tourelle, Bouée, Balise, ...)
- "marque", "fonction": mark and function
- "zone": geographic zone
- "feu": {"couleur", "rythme", "portee_nominale" (integer)}
- "entites_nlp": {"LOC": [...], "ORG": [...], "PER": [...]} named entities found in the text

Text:
%s`

// LLM asks a language model for supplementary fields. The model is expected
// to answer with a JSON object keyed by record field names.
type LLM struct {
	model  llms.Model
	logger *slog.Logger
}

// NewLLM wraps an existing model.
func NewLLM(model llms.Model, logger *slog.Logger) *LLM {
	return &LLM{
		model:  model,
		logger: logger.With("system", "enrich"),
	}
}

// NewOpenAI creates an LLM backed by an OpenAI-compatible endpoint.
func NewOpenAI(opts Options, logger *slog.Logger) (*LLM, error) {
	token := opts.Token
	if token == "" {
		// local OpenAI-compatible servers ignore the token but the client requires one
		token = "placeholder"
	}

	clientOpts := []openai.Option{openai.WithToken(token)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}
	if opts.Model != "" {
		clientOpts = append(clientOpts, openai.WithModel(opts.Model))
	}

	model, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create openai client: %w", ErrUnavailable, err)
	}

	return NewLLM(model, logger), nil
}

func (*LLM) Name() string { return ModeLLM }

// Enrich sends the text to the model and parses its JSON answer. Identity
// fields the model invents are not trusted: only fields that also appear
// verbatim in the text are kept.
func (l *LLM) Enrich(ctx context.Context, text string) (fields.Fields, error) {
	prompt := fmt.Sprintf(instructions, truncate(text, maxPromptRunes))

	resp, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, llms.WithTemperature(0))
	if err != nil {
		return fields.Fields{}, fmt.Errorf("%w: generate: %w", ErrUnavailable, err)
	}

	parsed, err := formatting.Parse[fields.Fields](resp)
	if err != nil {
		return fields.Fields{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	l.logger.DebugContext(ctx, "enrichment parsed", "entities", len(parsed.Entities))
	return ground(parsed, text), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ground drops identity fields that do not occur in text and any string
// field the model left empty.
func ground(f fields.Fields, text string) fields.Fields {
	for _, p := range []**string{&f.Identifier, &f.HeritageName, &f.BaptismName} {
		if *p != nil && !strings.Contains(text, **p) {
			*p = nil
		}
	}

	for _, p := range []**string{
		&f.Identifier, &f.HeritageName, &f.BaptismName,
		&f.Position, &f.Zone, &f.SupportNature, &f.Mark, &f.Function,
	} {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}

	if f.Fire != nil && f.Fire.IsZero() {
		f.Fire = nil
	}
	return f
}
