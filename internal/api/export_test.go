package api

import (
	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/infrastructure"
	"github.com/JaimeStill/beacon/pkg/openapi"
	"github.com/JaimeStill/beacon/pkg/routes"
)

// Endpoints lists the routes the module registers.
func Endpoints(cfg *config.Config, infra *infrastructure.Infrastructure) ([]routes.Endpoint, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, err
	}
	domain := NewDomain(runtime, &cfg.Extraction)
	return routes.Endpoints(routeGroups(domain, cfg, runtime)...), nil
}

// BuildSpec exposes the generated OpenAPI document.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	return buildSpec(cfg)
}
