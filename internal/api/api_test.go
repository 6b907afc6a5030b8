package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/beacon/internal/api"
	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/infrastructure"
	"github.com/JaimeStill/beacon/pkg/database"
	"github.com/JaimeStill/beacon/pkg/middleware"
	"github.com/JaimeStill/beacon/pkg/openapi"
	"github.com/JaimeStill/beacon/pkg/pagination"
	"github.com/JaimeStill/beacon/pkg/storage"
)

func validConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "beacon",
			User:            "beacon",
			Password:        "beacon",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			Provider: storage.ProviderLocal,
			LocalDir: t.TempDir(),
		},
		API: config.APIConfig{
			BasePath: "/api",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{
				Title: "Beacon API",
			},
		},
		Extraction: config.ExtractionConfig{
			TableThreshold:    10,
			MergePrecedence:   "rules",
			BatchLimit:        100,
			ImportConcurrency: 2,
			Enrichment:        config.EnrichmentConfig{Mode: "basic"},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)

	m, err := api.NewModule(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)

	runtime, err := api.NewRuntime(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Workflow == nil {
		t.Fatal("runtime workflow is nil")
	}
	if runtime.Workflow.Enricher == nil {
		t.Error("basic enrichment mode produced no enricher")
	}
	if runtime.Workflow.Metrics == nil {
		t.Error("workflow metrics not registered")
	}
}

func TestNewRuntimeEnrichmentDisabled(t *testing.T) {
	cfg := validConfig(t)
	cfg.Extraction.Enrichment.Mode = "none"

	runtime, err := api.NewRuntime(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	if runtime.Workflow.Enricher != nil {
		t.Errorf("enricher = %v, want nil", runtime.Workflow.Enricher)
	}
}

func TestNewRuntimeMissingVocabulary(t *testing.T) {
	cfg := validConfig(t)
	cfg.Extraction.VocabularyFile = "/nonexistent/vocabulary.yaml"

	if _, err := api.NewRuntime(cfg, setupInfra(t, cfg)); err == nil {
		t.Fatal("expected error for missing vocabulary file")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)

	runtime, err := api.NewRuntime(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	domain := api.NewDomain(runtime, &cfg.Extraction)
	if domain.Documents == nil {
		t.Error("documents system is nil")
	}
	if domain.Aids == nil {
		t.Error("aids system is nil")
	}
	if domain.Extractions == nil {
		t.Error("extractions system is nil")
	}
}

func TestOpenAPISpec(t *testing.T) {
	cfg := validConfig(t)

	m, err := api.NewModule(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var spec openapi.Spec
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if spec.Info.Title != "Beacon API" || spec.Info.Version != "0.1.0" {
		t.Errorf("info = %+v", spec.Info)
	}
	for _, path := range []string{
		"/documents",
		"/documents/import",
		"/aids/identifier/{identifier}",
		"/aids/export",
		"/extractions/{documentId}",
		"/extractions/batch",
		"/extractions/all",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
	if _, ok := spec.Components.Schemas["Record"]; !ok {
		t.Error("spec missing Record schema")
	}
}

func TestEveryEndpointDocumented(t *testing.T) {
	cfg := validConfig(t)

	endpoints, err := api.Endpoints(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("Endpoints() error = %v", err)
	}
	spec := api.BuildSpec(cfg)

	for _, e := range endpoints {
		item, ok := spec.Paths[e.OpenAPIPath()]
		if !ok {
			t.Errorf("%s: path not in spec", e)
			continue
		}
		if item.Operation(e.Method) == nil {
			t.Errorf("%s: no %s operation in spec", e, e.Method)
		}
	}
}

func TestSpecReferencesResolve(t *testing.T) {
	if err := api.BuildSpec(validConfig(t)).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
