package aids

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/pkg/pagination"
	"github.com/JaimeStill/beacon/pkg/query"
	"github.com/JaimeStill/beacon/pkg/repository"
)

// ExportLimit bounds the number of records written to one spreadsheet.
const ExportLimit = 10000

const insertRecord = `
	INSERT INTO aids(
		id, document_id, n_sysi, nom_patrimoine, nom_bapteme, nature_support,
		marque, type_document, extraction_status, extraction_confidence, nom_fichier, data
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, document_id, data, saved_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "aids"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

var saveErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidRecord,
}

func (r *repo) Save(ctx context.Context, rec *Record) (*Record, error) {
	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return insert(ctx, tx, rec)
	})
	if err != nil {
		return nil, saveErrors.Map(err)
	}

	r.logger.Info("navigation aid saved", "id", saved.ID, "status", saved.Status)
	return &saved, nil
}

// SaveBatch saves each record in its own transaction. A failed record is
// logged and reported in its result; the remaining records are still saved.
func (r *repo) SaveBatch(ctx context.Context, records []Record) []SaveResult {
	results := make([]SaveResult, len(records))
	saved := 0

	for i := range records {
		rec, err := r.Save(ctx, &records[i])
		if err != nil {
			r.logger.Warn(
				"navigation aid not saved",
				"filename", records[i].Filename,
				"status", records[i].Status,
				"error", err,
			)
			results[i].Err = fmt.Errorf("record %d (%s): %w", i, records[i].Filename, err)
			continue
		}
		results[i].ID = rec.ID
		saved++
	}

	r.logger.Info("navigation aids saved", "count", saved, "failed", len(records)-saved)
	return results
}

func insert(ctx context.Context, tx *sql.Tx, rec *Record) (Record, error) {
	if err := Validate(rec); err != nil {
		return Record{}, err
	}

	stored := *rec
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.SavedAt = nil

	data, err := json.Marshal(stored)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}

	args := []any{
		stored.ID,
		stored.DocumentID,
		stored.Identifier,
		stored.HeritageName,
		stored.BaptismName,
		stored.SupportNature,
		stored.Mark,
		nullable(string(stored.DocType)),
		string(stored.Status),
		stored.Confidence,
		stored.Filename,
		data,
	}

	return repository.QueryOne(ctx, tx, insertRecord, args, scanRecord)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, DefaultSearchFields...)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count navigation aids: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query navigation aids: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

// FindByIdentifier returns the most recently saved record for identifier.
func (r *repo) FindByIdentifier(ctx context.Context, identifier string) (*Record, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("n_sysi", &identifier).
		BuildSingleOrNull()

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Search(ctx context.Context, req SearchRequest) ([]Record, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	for _, f := range fields {
		if !Searchable(f) {
			return nil, fmt.Errorf("%w: search on %q", ErrInvalidField, f)
		}
	}

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(&req.Term, fields...).
		BuildPage(1, SearchLimit)

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("search navigation aids: %w", err)
	}
	return records, nil
}

func (r *repo) Count(ctx context.Context, filters Filters) (int, error) {
	qb := query.NewBuilder(projection)
	filters.Apply(qb)
	return count(ctx, r.db, qb)
}

func count(ctx context.Context, q repository.Querier, qb *query.Builder) (int, error) {
	stmt, args := qb.BuildCount()

	var total int
	if err := q.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count navigation aids: %w", err)
	}
	return total, nil
}

func (r *repo) AggregateByField(ctx context.Context, field string) ([]Bucket, error) {
	return aggregate(ctx, r.db, field)
}

func aggregate(ctx context.Context, q repository.Querier, field string) ([]Bucket, error) {
	if !Aggregatable(field) {
		return nil, fmt.Errorf("%w: aggregate on %q", ErrInvalidField, field)
	}

	stmt, args := query.NewBuilder(projection).BuildGroupCount(field, AggregateLimit)

	buckets, err := repository.QueryMany(ctx, q, stmt, args, scanBucket)
	if err != nil {
		return nil, fmt.Errorf("aggregate navigation aids by %s: %w", field, err)
	}
	return buckets, nil
}

// Statistics reads every figure from a single snapshot.
func (r *repo) Statistics(ctx context.Context) (*Statistics, error) {
	return repository.WithReadTx(ctx, r.db, func(tx *sql.Tx) (*Statistics, error) {
		return statistics(ctx, tx)
	})
}

func statistics(ctx context.Context, tx *sql.Tx) (*Statistics, error) {
	var stats Statistics
	var err error

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	if stats.TotalAids, err = count(ctx, tx, query.NewBuilder(projection)); err != nil {
		return nil, err
	}

	groups := []struct {
		field string
		dest  *[]Bucket
	}{
		{"extraction_status", &stats.ByStatus},
		{"type_document", &stats.ByType},
		{"nature_support", &stats.ByNature},
		{"marque", &stats.ByMark},
	}

	for _, g := range groups {
		if *g.dest, err = aggregate(ctx, tx, g.field); err != nil {
			return nil, err
		}
	}

	flags := []struct {
		dest *int
		qb   *query.Builder
	}{
		{&stats.WithFire, query.NewBuilder(projection).WhereNotNull("feu")},
		{&stats.WithAIS, query.NewBuilder(projection).WhereTrue("ais_aton")},
		{&stats.WithRacon, query.NewBuilder(projection).WhereTrue("racon_present")},
	}

	for _, f := range flags {
		if *f.dest, err = count(ctx, tx, f.qb); err != nil {
			return nil, err
		}
	}

	return &stats, nil
}

func (r *repo) Export(ctx context.Context, w io.Writer, filters Filters) error {
	start := time.Now()

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)
	q, args := qb.BuildPage(1, ExportLimit)

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return fmt.Errorf("query navigation aids: %w", err)
	}

	if err := WriteXLSX(w, records); err != nil {
		return err
	}

	r.logger.Info(
		"navigation aids exported",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
