package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/scoring"
)

// node advances an extraction by one stage.
type node func(ctx context.Context, rt *Runtime, x *extraction) error

// graph lists the nodes in execution order, keyed by the stage they run in.
var graph = []struct {
	stage Stage
	run   node
}{
	{StageCleaning, cleanNode},
	{StageClassifying, classifyNode},
	{StageExtracting, extractNode},
	{StageAssembling, assembleNode},
	{StageScored, scoreNode},
}

func cleanNode(ctx context.Context, rt *Runtime, x *extraction) error {
	raw, err := x.doc.acquire(rt)
	if err != nil {
		return err
	}

	text := rt.Cleaner.Clean(raw)
	text = rt.Cleaner.NormalizeTerms(text)
	x.use(MethodCleaning)

	if rt.Cleaner.HasEncodingIssues(text) {
		x.warnings = append(x.warnings, WarningEncoding)
	}

	x.text = text

	rt.Logger.DebugContext(
		ctx, "clean node complete",
		"filename", x.doc.Source.Filename,
		"raw_chars", len(raw),
		"clean_chars", len(text),
	)
	return nil
}

func classifyNode(ctx context.Context, rt *Runtime, x *extraction) error {
	x.classification = rt.Classifier.Classify(x.text)

	rt.Logger.InfoContext(
		ctx, "classify node complete",
		"filename", x.doc.Source.Filename,
		"type", x.classification.Type,
		"strategy", x.classification.Strategy,
	)
	return nil
}

func extractNode(ctx context.Context, rt *Runtime, x *extraction) error {
	switch x.classification.Strategy {
	case classifier.ExtractAll:
		x.fields = rt.Extractor.ExtractAll(x.text)
		x.use(MethodFullRules)
		enrichFields(ctx, rt, x)

	case classifier.ExtractPartial:
		x.fields = rt.Extractor.ExtractGeneric(x.text)
		x.use(MethodGeneric)

		if x.classification.Type.IsTable() {
			x.fields = scoring.Merge(x.fields, rt.Extractor.ExtractTableSamples(x.text))
			x.use(MethodTable)
		}

		terms := len(rt.Extractor.TermFrequency(x.text))
		x.fields.MaritimeTermsCount = &terms

	case classifier.MetadataOnly:
		x.fields = fields.Fields{}
		x.use(MethodMetadata)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, x.classification.Strategy)
	}

	return nil
}

// enrichFields merges supplementary fields into the rule-derived ones. Any
// enrichment failure leaves the rule-derived fields untouched.
func enrichFields(ctx context.Context, rt *Runtime, x *extraction) {
	if rt.Enricher == nil {
		return
	}

	extra, err := rt.Enricher.Enrich(ctx, x.text)
	if err != nil {
		rt.Logger.InfoContext(
			ctx, "enrichment unavailable, continuing with rules only",
			"enricher", rt.Enricher.Name(),
			"error", err,
		)
		return
	}

	x.fields = scoring.MergeWith(rt.Precedence, x.fields, extra)
	x.use(MethodEnrichment)
}

func assembleNode(ctx context.Context, rt *Runtime, x *extraction) error {
	c := x.classification

	x.record = aids.Record{
		ID:         uuid.New(),
		DocumentID: x.doc.ID,
		Source:     x.doc.Source,
		Method:     string(c.Strategy),
		DocType:    c.Type,
		AidCount:   c.EstimatedAidCount,
		Fields:     x.fields,
	}

	switch c.Strategy {
	case classifier.ExtractAll:
		x.record.Status = aids.StatusSuccess
	case classifier.ExtractPartial:
		x.record.Status = aids.StatusPartial
		x.record.SeeOriginal = true
		x.record.Reason = fields.String(partialReason(c))
	default:
		x.record.Status = aids.StatusSkipped
		x.record.AidCount = 0
		x.record.SeeOriginal = true
		x.record.Reason = fields.String(fmt.Sprintf("Document of type '%s' - not relevant for extraction", c.Type))
	}

	return nil
}

func scoreNode(ctx context.Context, rt *Runtime, x *extraction) error {
	if x.record.Status != aids.StatusSkipped {
		x.record.Confidence = scoring.Score(x.fields, x.classification.Type)
	}

	now := time.Now().UTC()
	elapsed := math.Round(time.Since(x.started).Seconds()*100) / 100
	confidence := x.record.Confidence

	x.record.ExtractedAt = &now
	x.record.Warnings = x.warnings
	x.record.Metadata = &aids.Metadata{
		ExtractionDate:        &now,
		ExtractionTimeSeconds: &elapsed,
		ConfidenceScore:       &confidence,
		MethodsUsed:           x.methods,
		Warnings:              x.warnings,
		Version:               aids.MetadataVersion,
	}

	return nil
}

func partialReason(c classifier.Result) string {
	switch c.Type {
	case classifier.ComplexTable:
		return fmt.Sprintf("Complex table with %d entries - see original for full details", c.EstimatedAidCount)
	case classifier.PrefectoralOrder:
		return "Prefectoral order - see original for the full text"
	case classifier.AdministrativeLetter:
		return "Administrative letter - see original for full context"
	case classifier.Other:
		return "Document with complex structure - see original for more details"
	default:
		return "Partial extraction - see original"
	}
}

func isAcquisition(err error) bool {
	return errors.Is(err, ErrAcquisitionFailed)
}
