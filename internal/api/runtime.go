package api

import (
	"fmt"

	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/infrastructure"
	"github.com/JaimeStill/beacon/internal/workflow"
	"github.com/JaimeStill/beacon/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// extraction workflow runtime shared by every request.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Workflow   *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger. It loads
// the vocabulary and builds the configured enricher.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	vocab, err := cfg.Extraction.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	enricher, err := enrich.New(cfg.Extraction.Enrichment.Options(), logger)
	if err != nil {
		return nil, fmt.Errorf("build enricher: %w", err)
	}

	wf := workflow.NewRuntime(vocab, workflow.Options{
		TableThreshold: cfg.Extraction.TableThreshold,
		Precedence:     cfg.Extraction.Precedence(),
		Enricher:       enricher,
		Metrics:        workflow.NewMetrics(infra.Metrics),
	}, logger)

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Workflow:   wf,
	}, nil
}
