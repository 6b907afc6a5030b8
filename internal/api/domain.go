package api

import (
	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/extractions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Aids        aids.System
	Documents   documents.System
	Extractions extractions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.ExtractionConfig) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		cfg.ImportConcurrency,
	)

	aidsSystem := aids.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	extractionsSystem := extractions.New(
		docsSystem,
		aidsSystem,
		runtime.Workflow,
		runtime.Logger,
		cfg.BatchLimit,
	)

	return &Domain{
		Aids:        aidsSystem,
		Documents:   docsSystem,
		Extractions: extractionsSystem,
	}
}
