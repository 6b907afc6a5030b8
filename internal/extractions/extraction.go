// Package extractions runs the extraction workflow over registered source
// documents and persists the resulting navigation aid records.
package extractions

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/workflow"
)

// MaxLimit caps the number of documents a single run takes.
const MaxLimit = 1000

// BatchCommand selects the documents of a batch run. DocumentIDs wins when
// present; otherwise the oldest Limit registered documents are taken.
type BatchCommand struct {
	DocumentIDs []uuid.UUID `json:"document_ids,omitempty"`
	Limit       int         `json:"limit,omitempty"`
}

// Summary reports the outcome of an extraction run. Records that could not
// be saved are counted as processed and listed in SaveFailures.
type Summary struct {
	TotalProcessed  int                 `json:"total_processed"`
	TotalSaved      int                 `json:"total_saved"`
	StatusBreakdown map[aids.Status]int `json:"status_breakdown"`
	AidIDs          []uuid.UUID         `json:"aid_ids"`
	SaveFailures    []SaveFailure       `json:"save_failures,omitempty"`
}

// SaveFailure names a processed document whose record was not saved.
type SaveFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func newSummary(result workflow.BatchResult, saves []aids.SaveResult) *Summary {
	s := &Summary{
		TotalProcessed:  len(result.Records),
		StatusBreakdown: result.StatusCounts,
		AidIDs:          []uuid.UUID{},
	}

	for i, save := range saves {
		if save.Err != nil {
			s.SaveFailures = append(s.SaveFailures, SaveFailure{
				Filename: result.Records[i].Filename,
				Error:    save.Err.Error(),
			})
			continue
		}
		s.AidIDs = append(s.AidIDs, save.ID)
	}

	s.TotalSaved = len(s.AidIDs)
	return s
}

func toWorkflow(d documents.Document) workflow.Document {
	id := d.ID
	return workflow.Document{
		ID:     &id,
		Source: d.Source(),
		Text:   d.Text(),
	}
}
