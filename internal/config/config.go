// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel        = "INFO"
	DefaultEmbeddingDim    = 512 // CLIP ViT-B/32
	DefaultSearchLimit     = 5
	DefaultHistoryLimit    = 50
	DefaultEndpointTimeout = 60 * time.Second
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures the OpenAI-compatible provider endpoint used for
// query encoding and generation.
type Endpoint struct {
	baseURL        string
	apiKey         string
	embeddingModel string
	chatModel      string
	imageModel     string
	timeout        time.Duration
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout: DefaultEndpointTimeout,
	}
}

// BaseURL returns the endpoint base URL.
func (e Endpoint) BaseURL() string { return e.baseURL }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// EmbeddingModel returns the embedding model identifier.
func (e Endpoint) EmbeddingModel() string { return e.embeddingModel }

// ChatModel returns the chat model identifier.
func (e Endpoint) ChatModel() string { return e.chatModel }

// ImageModel returns the image generation model identifier.
func (e Endpoint) ImageModel() string { return e.imageModel }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// IsConfigured returns true when the endpoint can be used at all.
func (e Endpoint) IsConfigured() bool { return e.apiKey != "" }

// AppConfig is the immutable application configuration assembled from
// defaults, an optional .env file, and environment variables.
type AppConfig struct {
	dataDir      string
	dbURL        string
	indexPath    string
	catalogPath  string
	embeddingDim int
	searchLimit  int
	logLevel     string
	logFormat    LogFormat
	endpoint     Endpoint
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		embeddingDim: DefaultEmbeddingDim,
		searchLimit:  DefaultSearchLimit,
		logLevel:     DefaultLogLevel,
		logFormat:    LogFormatPretty,
		endpoint:     NewEndpoint(),
	}
}

// DataDir returns the data directory, defaulting to ~/.visearch.
func (c AppConfig) DataDir() string {
	if c.dataDir != "" {
		return c.dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".visearch"
	}
	return filepath.Join(home, ".visearch")
}

// DBURL returns the database URL, defaulting to a SQLite file inside the
// data directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return fmt.Sprintf("sqlite:///%s", filepath.Join(c.DataDir(), "visearch.db"))
}

// IndexPath returns the vector index snapshot path.
func (c AppConfig) IndexPath() string {
	if c.indexPath != "" {
		return c.indexPath
	}
	return filepath.Join(c.DataDir(), "index.bin")
}

// CatalogPath returns the metadata catalog path.
func (c AppConfig) CatalogPath() string {
	if c.catalogPath != "" {
		return c.catalogPath
	}
	return filepath.Join(c.DataDir(), "catalog.json")
}

// EmbeddingDim returns the configured embedding dimension.
func (c AppConfig) EmbeddingDim() int { return c.embeddingDim }

// SearchLimit returns the default result count for searches.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Endpoint returns the provider endpoint configuration.
func (c AppConfig) Endpoint() Endpoint { return c.endpoint }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir(), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

func parseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}
