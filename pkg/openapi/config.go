package openapi

import (
	"os"
	"strings"
)

// Config holds the metadata published in the generated document.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return nil
}

// Merge overwrites fields that are set in overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
}

// Apply writes the configured metadata into spec. Servers are added after
// any already present.
func (c *Config) Apply(spec *Spec) {
	spec.Info.Title = c.Title
	spec.SetDescription(c.Description)
	for _, url := range c.Servers {
		spec.AddServer(url)
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Beacon API"
	}
	if c.Description == "" {
		c.Description = "Extraction of structured navigation aid records from maritime OCR documents."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := getenv(env.Title); v != "" {
		c.Title = v
	}
	if v := getenv(env.Description); v != "" {
		c.Description = v
	}
	if v := getenv(env.Servers); v != "" {
		c.Servers = c.Servers[:0]
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
