// Package documents implements the source document domain for Beacon.
// It provides types, data access, and business logic for registering OCR
// output files, storing their blobs, and handing them to extraction.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
)

// Document represents a registered source document with its metadata and
// blob storage reference. OCRText holds the decoded text of text documents;
// it is nil for scanned or binary uploads.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	LocalPath   string    `json:"local_path"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	OCRText     *string   `json:"ocr_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	AddedAt     time.Time `json:"added_at"`
}

// Source returns the identity an extracted record copies from d.
func (d *Document) Source() aids.Source {
	return aids.Source{
		Filename:    d.Filename,
		LocalPath:   d.LocalPath,
		CreatedAt:   d.CreatedAt,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
	}
}

// Text returns the stored OCR text, or "" when none was stored.
func (d *Document) Text() string {
	if d.OCRText == nil {
		return ""
	}
	return *d.OCRText
}

// CreateCommand carries the data needed to store and register a new document.
// Data holds the raw file bytes. LocalPath and the timestamps describe the
// original file; zero timestamps default to the registration time.
type CreateCommand struct {
	Data        []byte
	Filename    string
	LocalPath   string
	ContentType string
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// ImportCommand registers every file under Dir whose base name matches
// Pattern. An empty Pattern matches "*.txt".
type ImportCommand struct {
	Dir     string `json:"dir"`
	Pattern string `json:"pattern,omitempty"`
}

// BatchResult reports the outcome of a single file within a batch upload or import.
// On success, Document is populated and Error is empty.
// On failure, Error describes the problem and Document is nil.
type BatchResult struct {
	Document *Document `json:"document,omitempty"`
	Filename string    `json:"filename"`
	Error    string    `json:"error,omitempty"`
}
