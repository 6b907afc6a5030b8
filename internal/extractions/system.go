package extractions

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for extraction runs.
type System interface {
	Handler() *Handler

	Extract(ctx context.Context, documentID uuid.UUID) (*Summary, error)
	ExtractBatch(ctx context.Context, cmd BatchCommand) (*Summary, error)
	ExtractAll(ctx context.Context, limit int) (*Summary, error)
}
