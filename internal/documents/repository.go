package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/beacon/pkg/formatting"
	"github.com/JaimeStill/beacon/pkg/pagination"
	"github.com/JaimeStill/beacon/pkg/query"
	"github.com/JaimeStill/beacon/pkg/repository"
	"github.com/JaimeStill/beacon/pkg/storage"
)

// DefaultImportPattern selects the files registered by Import.
const DefaultImportPattern = "*.txt"

const insertDocument = `
	INSERT INTO documents(id, filename, local_path, content_type, size_bytes, page_count, storage_key, ocr_text, created_at, modified_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, filename, local_path, content_type, size_bytes, page_count, storage_key, ocr_text, created_at, modified_at, added_at`

type repo struct {
	db                *sql.DB
	storage           storage.System
	logger            *slog.Logger
	pagination        pagination.Config
	importConcurrency int
}

// New creates a document repository implementing the System interface.
// importConcurrency bounds the files Import stores in parallel.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	importConcurrency int,
) System {
	return &repo{
		db:                db,
		storage:           store,
		logger:            logger.With("system", "documents"),
		pagination:        pagination,
		importConcurrency: max(importConcurrency, 1),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "LocalPath")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Take(ctx context.Context, limit int) ([]Document, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "AddedAt"}).
		BuildPage(1, limit)

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return docs, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if cmd.Filename == "" || len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: filename and content are required", ErrInvalidFile)
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	contentType := detectContentType(cmd.ContentType, cmd.Data)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), contentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	now := time.Now().UTC()
	created, modified := cmd.CreatedAt, cmd.ModifiedAt
	if created.IsZero() {
		created = now
	}
	if modified.IsZero() {
		modified = created
	}

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.LocalPath,
		contentType,
		int64(len(cmd.Data)),
		extractPDFPageCount(r.logger, cmd.Data, contentType),
		key,
		decodeText(cmd.Data, contentType),
		created,
		modified,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, insertDocument, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename, "size", formatting.FormatBytes(d.SizeBytes, 1))
	return &d, nil
}

func (r *repo) Import(ctx context.Context, cmd ImportCommand) ([]BatchResult, error) {
	paths, err := MatchFiles(cmd.Dir, cmd.Pattern)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.importConcurrency)

	for i, path := range paths {
		results[i].Filename = filepath.Base(path)

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			doc, err := r.importFile(gctx, path)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			results[i].Document = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("import %s: %w", cmd.Dir, err)
	}

	r.logger.Info("directory imported", "dir", cmd.Dir, "files", len(paths))
	return results, nil
}

func (r *repo) importFile(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return r.Create(ctx, CreateCommand{
		Data:       data,
		Filename:   info.Name(),
		LocalPath:  path,
		CreatedAt:  info.ModTime().UTC(),
		ModifiedAt: info.ModTime().UTC(),
	})
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	detached, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		n, err := repository.ExecAffected(
			ctx, tx,
			"UPDATE aids SET document_id = NULL WHERE document_id = $1",
			id,
		)
		if err != nil {
			return 0, err
		}
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return 0, err
		}
		return n, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if doc.StorageKey != "" {
		if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", doc.StorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("document deleted", "id", id, "records_detached", detached)
	return nil
}

// MatchFiles walks dir and returns the absolute paths of regular files whose
// base name matches pattern, in lexical order.
func MatchFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultImportPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidDir, pattern)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDir, err)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDir, dir)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return paths, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
