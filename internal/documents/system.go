package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	// Take returns up to limit documents in registration order.
	Take(ctx context.Context, limit int) ([]Document, error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Import(ctx context.Context, cmd ImportCommand) ([]BatchResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
