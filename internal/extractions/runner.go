package extractions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/workflow"
)

type runner struct {
	docs         documents.System
	records      aids.System
	rt           *workflow.Runtime
	logger       *slog.Logger
	defaultLimit int
}

// New creates the extraction System. defaultLimit applies to batch runs
// that name neither documents nor a limit.
func New(
	docs documents.System,
	records aids.System,
	rt *workflow.Runtime,
	logger *slog.Logger,
	defaultLimit int,
) System {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = MaxLimit
	}
	return &runner{
		docs:         docs,
		records:      records,
		rt:           rt,
		logger:       logger.With("system", "extractions"),
		defaultLimit: defaultLimit,
	}
}

func (r *runner) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *runner) Extract(ctx context.Context, documentID uuid.UUID) (*Summary, error) {
	doc, err := r.docs.Find(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("extract document %s: %w", documentID, err)
	}

	return r.run(ctx, []documents.Document{*doc})
}

func (r *runner) ExtractBatch(ctx context.Context, cmd BatchCommand) (*Summary, error) {
	if len(cmd.DocumentIDs) == 0 {
		return r.ExtractAll(ctx, cmd.Limit)
	}
	if len(cmd.DocumentIDs) > MaxLimit {
		return nil, fmt.Errorf("%w: %d documents exceeds %d", ErrInvalidLimit, len(cmd.DocumentIDs), MaxLimit)
	}

	docs := make([]documents.Document, 0, len(cmd.DocumentIDs))
	for _, id := range cmd.DocumentIDs {
		doc, err := r.docs.Find(ctx, id)
		if errors.Is(err, documents.ErrNotFound) {
			r.logger.Warn("document not found, skipping", "document_id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find document %s: %w", id, err)
		}
		docs = append(docs, *doc)
	}

	return r.run(ctx, docs)
}

func (r *runner) ExtractAll(ctx context.Context, limit int) (*Summary, error) {
	if limit == 0 {
		limit = r.defaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidLimit, limit, MaxLimit)
	}

	docs, err := r.docs.Take(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("take documents: %w", err)
	}

	return r.run(ctx, docs)
}

func (r *runner) run(ctx context.Context, docs []documents.Document) (*Summary, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	inputs := make([]workflow.Document, len(docs))
	for i, d := range docs {
		inputs[i] = toWorkflow(d)
	}

	result := workflow.ExecuteBatch(ctx, r.rt, inputs)

	summary := newSummary(result, r.records.SaveBatch(ctx, result.Records))
	r.logger.Info(
		"extraction run complete",
		"processed", summary.TotalProcessed,
		"saved", summary.TotalSaved,
		"save_failures", len(summary.SaveFailures),
	)
	return summary, nil
}
