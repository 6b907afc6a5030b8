package workflow

import (
	"time"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
)

// Stage is a state of the per-document extraction machine.
type Stage string

const (
	StageCleaning    Stage = "cleaning"
	StageClassifying Stage = "classifying"
	StageExtracting  Stage = "extracting"
	StageAssembling  Stage = "assembling"
	StageScored      Stage = "scored"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Methods recorded in extraction metadata.
const (
	MethodCleaning   = "text_cleaning"
	MethodFullRules  = "full_rules_extraction"
	MethodEnrichment = "nlp_extraction"
	MethodGeneric    = "generic_patterns"
	MethodTable      = "table_sampling"
	MethodMetadata   = "metadata_only"
)

// WarningEncoding is recorded when mis-encoding markers survive cleaning.
const WarningEncoding = "Encoding issues detected"

// extraction is the state carried through the nodes for one document.
type extraction struct {
	doc     Document
	stage   Stage
	started time.Time

	text           string
	classification classifier.Result
	fields         fields.Fields
	methods        []string
	warnings       []string

	record aids.Record
}

func newExtraction(doc Document) *extraction {
	return &extraction{
		doc:     doc,
		stage:   StageCleaning,
		started: time.Now(),
	}
}

func (x *extraction) use(method string) {
	x.methods = append(x.methods, method)
}
