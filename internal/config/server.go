package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "BEACON_SERVER_HOST"
	EnvServerPort              = "BEACON_SERVER_PORT"
	EnvServerReadTimeout       = "BEACON_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "BEACON_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "BEACON_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "BEACON_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "BEACON_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Timeouts are Go duration
// strings. The write timeout is long because batch extraction responds only
// once every document has been processed.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration       { return duration(c.ReadTimeout) }
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration { return duration(c.ReadHeaderTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration      { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration       { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration   { return duration(c.ShutdownTimeout) }

// duration parses a value already checked by validate.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range []struct{ dst, src *string }{
		{&c.ReadTimeout, &overlay.ReadTimeout},
		{&c.ReadHeaderTimeout, &overlay.ReadHeaderTimeout},
		{&c.WriteTimeout, &overlay.WriteTimeout},
		{&c.IdleTimeout, &overlay.IdleTimeout},
		{&c.ShutdownTimeout, &overlay.ShutdownTimeout},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	setDefault(&c.ReadTimeout, "1m")
	setDefault(&c.ReadHeaderTimeout, "10s")
	setDefault(&c.WriteTimeout, "15m")
	setDefault(&c.IdleTimeout, "2m")
	setDefault(&c.ShutdownTimeout, "30s")
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	setFromEnv(&c.ReadTimeout, EnvServerReadTimeout)
	setFromEnv(&c.ReadHeaderTimeout, EnvServerReadHeaderTimeout)
	setFromEnv(&c.WriteTimeout, EnvServerWriteTimeout)
	setFromEnv(&c.IdleTimeout, EnvServerIdleTimeout)
	setFromEnv(&c.ShutdownTimeout, EnvServerShutdownTimeout)
}

// validate reports every invalid setting at once.
func (c *ServerConfig) validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	for _, d := range []struct{ name, value string }{
		{"read_timeout", c.ReadTimeout},
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	} {
		if v, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", d.name, err))
		} else if v < 0 {
			errs = append(errs, fmt.Errorf("invalid %s: negative duration %s", d.name, d.value))
		}
	}
	return errors.Join(errs...)
}

func setDefault(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
