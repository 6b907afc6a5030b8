package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/scoring"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "beacon"
user = "beacon"
password = "beacon"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
provider = "azure"
container_name = "documents"
connection_string = "DefaultEndpointsProtocol=http;AccountName=beaconstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/beaconstore;"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[extraction]
table_threshold = 12
merge_precedence = "rules"
batch_limit = 200

[extraction.enrichment]
mode = "basic"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[extraction]
merge_precedence = "enrichment"
`

const minimalConfig = `
[database]
name = "beacon"
user = "beacon"

[storage]
provider = "local"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func loadFrom(t *testing.T, files map[string]string) (*config.Config, error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeConfig(t, dir, name, content)
	}
	chdir(t, dir)
	return config.Load()
}

func TestLoad(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{config.BaseConfigFile: baseConfig})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "documents" {
		t.Errorf("storage container: got %s, want documents", cfg.Storage.ContainerName)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
	if cfg.Extraction.TableThreshold != 12 {
		t.Errorf("table_threshold: got %d, want 12", cfg.Extraction.TableThreshold)
	}
	if cfg.Extraction.BatchLimit != 200 {
		t.Errorf("batch_limit: got %d, want 200", cfg.Extraction.BatchLimit)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	t.Setenv("BEACON_ENV", "staging")

	cfg, err := loadFrom(t, map[string]string{
		config.BaseConfigFile: baseConfig,
		"config.staging.toml": overlayConfig,
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if got := cfg.Extraction.Precedence(); got != scoring.PreferEnrichment {
		t.Errorf("precedence: got %s, want %s (from overlay)", got, scoring.PreferEnrichment)
	}
	if cfg.Extraction.TableThreshold != 12 {
		t.Errorf("table_threshold: got %d, want 12 (from base)", cfg.Extraction.TableThreshold)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	t.Setenv("BEACON_VERSION", "2.0.0")
	t.Setenv("BEACON_SERVER_PORT", "3000")
	t.Setenv("BEACON_EXTRACTION_TABLE_THRESHOLD", "20")
	t.Setenv("BEACON_ENRICHMENT_MODE", "none")

	cfg, err := loadFrom(t, map[string]string{config.BaseConfigFile: baseConfig})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Extraction.TableThreshold != 20 {
		t.Errorf("table_threshold: got %d, want 20", cfg.Extraction.TableThreshold)
	}
	if cfg.Extraction.Enrichment.Mode != enrich.ModeNone {
		t.Errorf("enrichment mode: got %s, want none", cfg.Extraction.Enrichment.Mode)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Setenv("BEACON_DB_NAME", "testdb")
	t.Setenv("BEACON_DB_USER", "testuser")
	t.Setenv("BEACON_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := loadFrom(t, nil)
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{config.BaseConfigFile: minimalConfig})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
	if d := cfg.Server.ReadHeaderTimeoutDuration(); d != 10*time.Second {
		t.Errorf("read header timeout: got %v, want 10s", d)
	}
	if d := cfg.Server.IdleTimeoutDuration(); d != 2*time.Minute {
		t.Errorf("idle timeout: got %v, want 2m", d)
	}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	ext := cfg.Extraction
	if ext.TableThreshold != 10 {
		t.Errorf("table_threshold: got %d, want 10", ext.TableThreshold)
	}
	if ext.Precedence() != scoring.PreferRules {
		t.Errorf("precedence: got %s, want rules", ext.Precedence())
	}
	if ext.BatchLimit != 100 {
		t.Errorf("batch_limit: got %d, want 100", ext.BatchLimit)
	}
	if ext.ImportConcurrency != 4 {
		t.Errorf("import_concurrency: got %d, want 4", ext.ImportConcurrency)
	}
	if ext.Enrichment.Mode != enrich.ModeBasic {
		t.Errorf("enrichment mode: got %s, want basic", ext.Enrichment.Mode)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	if _, err := loadFrom(t, map[string]string{config.BaseConfigFile: `[server`}); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999\n", "invalid port"},
		{"invalid read_timeout", "[server]\nread_timeout = \"bad\"\n", "invalid read_timeout"},
		{"invalid shutdown_timeout", "shutdown_timeout = \"bad\"\n", "invalid shutdown_timeout"},
		{"invalid idle_timeout", "[server]\nidle_timeout = \"soon\"\n", "invalid idle_timeout"},
		{"negative write_timeout", "[server]\nwrite_timeout = \"-1s\"\n", "negative duration"},
		{"unknown precedence", "[extraction]\nmerge_precedence = \"nlp\"\n", "unknown merge precedence"},
		{"batch limit too large", "[extraction]\nbatch_limit = 5000\n", "batch_limit"},
		{"unknown enrichment mode", "[extraction.enrichment]\nmode = \"spacy\"\n", "unknown enrichment mode"},
		{"llm without model", "[extraction.enrichment]\nmode = \"llm\"\n", "enrichment model required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t, map[string]string{config.BaseConfigFile: tt.extra + minimalConfig})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnrichmentModeError(t *testing.T) {
	_, err := loadFrom(t, map[string]string{
		config.BaseConfigFile: "[extraction.enrichment]\nmode = \"spacy\"\n" + minimalConfig,
	})
	if !errors.Is(err, enrich.ErrUnknownMode) {
		t.Errorf("error = %v, want ErrUnknownMode", err)
	}
}

func TestExtractionVocabulary(t *testing.T) {
	cfg := &config.ExtractionConfig{}
	v, err := cfg.Vocabulary()
	if err != nil {
		t.Fatalf("Vocabulary() error = %v", err)
	}
	if len(v.SupportNatures) == 0 {
		t.Error("default vocabulary has no support natures")
	}

	cfg.VocabularyFile = filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := cfg.Vocabulary(); err == nil {
		t.Error("Vocabulary() with missing file returned nil error")
	}
}

func TestEnrichmentOptions(t *testing.T) {
	c := config.EnrichmentConfig{Mode: "llm", BaseURL: "http://localhost:11434/v1", Model: "mistral", Token: "t"}
	got := c.Options()
	want := enrich.Options{Mode: "llm", BaseURL: "http://localhost:11434/v1", Model: "mistral", Token: "t"}
	if got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}
