package api

import (
	"net/http"

	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/pkg/openapi"
	"github.com/JaimeStill/beacon/pkg/routes"
)

func routeGroups(domain *Domain, cfg *config.Config, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Aids.Handler().Routes(),
		domain.Extractions.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	}
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	routes.Register(mux, routeGroups(domain, cfg, runtime)...)

	spec, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}
