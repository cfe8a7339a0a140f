package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Duration is a time.Duration that unmarshals from YAML strings like "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Docs  DocsConfig        `yaml:"docs"`
	Cache CacheConfig       `yaml:"cache"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	Transport string     `yaml:"transport"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	// Normalise empty transport to stdio, the common MCP case.
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
	); err != nil {
		return err
	}
	if c.Transport == TransportHTTP {
		return c.HTTP.Validate()
	}
	return nil
}

// HTTPConfig holds HTTP server configuration for the http transport.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocsConfig describes the upstream documentation source.
type DocsConfig struct {
	BaseURL           string   `yaml:"base_url"`
	Product           string   `yaml:"product"`
	DefaultVersion    string   `yaml:"default_version"`
	FetchTimeout      Duration `yaml:"fetch_timeout"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// Validate validates the docs source configuration.
func (c *DocsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Product, validation.Required),
	); err != nil {
		return err
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("docs: fetch_timeout must be positive")
	}
	return nil
}

// CacheConfig holds the cache root and freshness windows.
type CacheConfig struct {
	Root     string   `yaml:"root"`
	IndexTTL Duration `yaml:"index_ttl"`
	DocTTL   Duration `yaml:"doc_ttl"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	); err != nil {
		return err
	}
	if c.IndexTTL <= 0 || c.DocTTL <= 0 {
		return fmt.Errorf("cache: index_ttl and doc_ttl must be positive")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			Transport: TransportStdio,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Docs: DocsConfig{
			BaseURL:           "https://documents.devdocs.io",
			Product:           "python",
			DefaultVersion:    "3.13",
			FetchTimeout:      Duration(30 * time.Second),
			RequestsPerSecond: 4,
		},
		Cache: CacheConfig{
			Root:     "./cache",
			IndexTTL: Duration(24 * time.Hour),
			DocTTL:   Duration(7 * 24 * time.Hour),
		},
	}
}
