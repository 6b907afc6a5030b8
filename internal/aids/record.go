// Package aids implements the navigation aid record domain: the structured
// output of an extraction run, its validation, persistence, querying and
// spreadsheet export.
package aids

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
)

// MetadataVersion is stamped on every record's extraction metadata.
const MetadataVersion = "1.0.0"

// Status is the outcome of an extraction run.
type Status string

// Extraction statuses.
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Statuses lists every status in reporting order.
var Statuses = []Status{
	StatusPending,
	StatusSuccess,
	StatusPartial,
	StatusFailed,
	StatusSkipped,
}

// Source carries the identity of the document a record was extracted from.
// Values are copied verbatim from the source document.
type Source struct {
	Filename    string    `json:"nom_fichier"`
	LocalPath   string    `json:"chemin_local"`
	CreatedAt   time.Time `json:"cree_le"`
	ContentType string    `json:"mime_type"`
	SizeBytes   int64     `json:"taille"`
}

// Metadata describes how a record was produced. Failed records only carry
// Error and Version.
type Metadata struct {
	ExtractionDate        *time.Time `json:"extraction_date,omitempty"`
	ExtractionTimeSeconds *float64   `json:"extraction_time_seconds,omitempty"`
	ConfidenceScore       *float64   `json:"confidence_score,omitempty"`
	MethodsUsed           []string   `json:"methods_used,omitempty"`
	Warnings              []string   `json:"warnings,omitempty"`
	Error                 string     `json:"error,omitempty"`
	Version               string     `json:"version"`
}

// Record is the structured result of extracting one source document.
// Maritime attributes are flattened into the record through the embedded
// fields.Fields.
//
// A skipped record has no maritime attributes and zero confidence. Partial
// and skipped records always point the reader to the original document.
type Record struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	Source

	Status      Status     `json:"extraction_status"`
	Confidence  float64    `json:"extraction_confidence"`
	Method      string     `json:"extraction_method,omitempty"`
	Warnings    []string   `json:"extraction_warnings,omitempty"`
	ExtractedAt *time.Time `json:"extraction_date,omitempty"`

	DocType     classifier.DocType `json:"type_document,omitempty"`
	AidCount    int                `json:"nombre_aides"`
	SeeOriginal bool               `json:"voir_document_original"`
	Reason      *string            `json:"raison_reference_originale,omitempty"`

	Metadata *Metadata `json:"extraction_metadata,omitempty"`

	fields.Fields

	SavedAt *time.Time `json:"saved_at,omitempty"`
}

// Bucket is one group of an aggregation.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Statistics summarizes the stored records.
type Statistics struct {
	TotalDocuments int      `json:"total_documents"`
	TotalAids      int      `json:"total_aides"`
	ByStatus       []Bucket `json:"aides_by_status"`
	ByType         []Bucket `json:"aides_by_type"`
	ByNature       []Bucket `json:"aides_by_nature"`
	ByMark         []Bucket `json:"aides_by_marque"`
	WithFire       int      `json:"aides_with_feu"`
	WithAIS        int      `json:"aides_with_ais"`
	WithRacon      int      `json:"aides_with_racon"`
}

// SearchRequest selects records whose searchable fields contain Term,
// compared case-insensitively. Empty Fields selects the default set.
type SearchRequest struct {
	Term   string   `json:"term"`
	Fields []string `json:"fields,omitempty"`
}
