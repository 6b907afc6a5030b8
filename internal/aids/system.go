package aids

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/pkg/pagination"
)

// SaveResult is the outcome of saving one record of a batch. Exactly one
// of ID and Err is set.
type SaveResult struct {
	ID  uuid.UUID
	Err error
}

// System defines the public contract for navigation aid record operations.
type System interface {
	Handler() *Handler

	Save(ctx context.Context, r *Record) (*Record, error)
	SaveBatch(ctx context.Context, records []Record) []SaveResult

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByIdentifier(ctx context.Context, identifier string) (*Record, error)
	Search(ctx context.Context, req SearchRequest) ([]Record, error)
	Count(ctx context.Context, filters Filters) (int, error)
	AggregateByField(ctx context.Context, field string) ([]Bucket, error)
	Statistics(ctx context.Context) (*Statistics, error)
	Export(ctx context.Context, w io.Writer, filters Filters) error
}
