package documents

import (
	"net/url"

	"github.com/JaimeStill/beacon/pkg/query"
	"github.com/JaimeStill/beacon/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("local_path", "LocalPath").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("ocr_text", "OCRText").
	Project("created_at", "CreatedAt").
	Project("modified_at", "ModifiedAt").
	Project("added_at", "AddedAt")

var defaultSort = query.SortField{
	Field:      "AddedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. ContentType uses exact matching. Filename,
// LocalPath and StorageKey use case-insensitive contains matching.
type Filters struct {
	Filename    *string `json:"filename,omitempty"`
	LocalPath   *string `json:"local_path,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	StorageKey  *string `json:"storage_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Filename", f.Filename).
		WhereContains("LocalPath", f.LocalPath).
		WhereEquals("ContentType", f.ContentType).
		WhereContains("StorageKey", f.StorageKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if lp := values.Get("local_path"); lp != "" {
		f.LocalPath = &lp
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if sk := values.Get("storage_key"); sk != "" {
		f.StorageKey = &sk
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.LocalPath,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.OCRText,
		&d.CreatedAt,
		&d.ModifiedAt,
		&d.AddedAt,
	)
	return d, err
}
