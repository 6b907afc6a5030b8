// Package workflow drives documents through extraction: cleaning,
// classification, strategy-dependent field extraction, record assembly and
// scoring. Every outcome, including failure, is returned as a record.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/classifier"
)

// Failure reasons recorded on failed records.
const (
	ReasonAcquisition = "Text extraction failed"
	reasonErrorPrefix = "Error: "
)

// BatchResult holds the records of a batch in input order together with a
// tally of their statuses.
type BatchResult struct {
	Records      []aids.Record       `json:"records"`
	StatusCounts map[aids.Status]int `json:"status_counts"`
}

// Execute runs the extraction machine for a single document. It never
// fails: unreadable text, node errors and panics all yield a failed record.
func Execute(ctx context.Context, rt *Runtime, doc Document) (rec aids.Record) {
	x := newExtraction(doc)

	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ErrorContext(
				ctx, "extraction panicked",
				"filename", doc.Source.Filename,
				"stage", x.stage,
				"panic", r,
			)
			rec = failedRecord(doc, fmt.Sprintf("%s%v", reasonErrorPrefix, r))
		}
		rt.Metrics.Observe(rec, time.Since(x.started))
	}()

	if err := run(ctx, rt, x); err != nil {
		x.stage = StageFailed

		if isAcquisition(err) {
			rt.Logger.ErrorContext(ctx, "text acquisition failed", "filename", doc.Source.Filename, "error", err)
			return failedRecord(doc, ReasonAcquisition)
		}

		rt.Logger.ErrorContext(ctx, "extraction failed", "filename", doc.Source.Filename, "error", err)
		return failedRecord(doc, reasonErrorPrefix+err.Error())
	}

	x.stage = StageDone

	rt.Logger.InfoContext(
		ctx, "extraction complete",
		"filename", doc.Source.Filename,
		"status", x.record.Status,
		"elapsed_seconds", *x.record.Metadata.ExtractionTimeSeconds,
		"confidence", x.record.Confidence,
	)

	return x.record
}

// Classify acquires and cleans the text of doc and returns its
// classification without extracting fields.
func Classify(rt *Runtime, doc Document) (classifier.Result, error) {
	raw, err := doc.acquire(rt)
	if err != nil {
		return classifier.Result{}, err
	}
	text := rt.Cleaner.NormalizeTerms(rt.Cleaner.Clean(raw))
	return rt.Classifier.Classify(text), nil
}

// ExecuteBatch runs Execute over docs sequentially. The result holds exactly
// one record per document, in input order.
func ExecuteBatch(ctx context.Context, rt *Runtime, docs []Document) BatchResult {
	result := BatchResult{
		Records:      make([]aids.Record, 0, len(docs)),
		StatusCounts: make(map[aids.Status]int),
	}

	rt.Logger.InfoContext(ctx, "batch extraction started", "documents", len(docs))

	for i, doc := range docs {
		rt.Logger.DebugContext(ctx, "processing document", "index", i+1, "total", len(docs), "filename", doc.Source.Filename)

		rec := Execute(ctx, rt, doc)
		result.Records = append(result.Records, rec)
		result.StatusCounts[rec.Status]++
	}

	rt.Logger.InfoContext(ctx, "batch extraction complete", "documents", len(result.Records), "status_counts", result.StatusCounts)

	return result
}

func run(ctx context.Context, rt *Runtime, x *extraction) error {
	for _, n := range graph {
		x.stage = n.stage
		if err := n.run(ctx, rt, x); err != nil {
			return fmt.Errorf("%s: %w", n.stage, err)
		}
	}
	return nil
}

func failedRecord(doc Document, reason string) aids.Record {
	now := time.Now().UTC()

	return aids.Record{
		ID:          uuid.New(),
		DocumentID:  doc.ID,
		Source:      doc.Source,
		Status:      aids.StatusFailed,
		ExtractedAt: &now,
		SeeOriginal: true,
		Reason:      &reason,
		Metadata: &aids.Metadata{
			Error:   reason,
			Version: aids.MetadataVersion,
		},
	}
}
