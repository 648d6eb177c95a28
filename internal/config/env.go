package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map to
// environment variables with the VISEARCH_ prefix.
type EnvConfig struct {
	// DataDir is the directory holding the database, snapshots, and
	// owned asset files.
	// Env: VISEARCH_DATA_DIR (default: ~/.visearch)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: VISEARCH_DB_URL
	// Default: sqlite:///{data_dir}/visearch.db
	DBURL string `envconfig:"DB_URL"`

	// IndexPath is the vector index snapshot path.
	// Env: VISEARCH_INDEX_PATH (default: {data_dir}/index.bin)
	IndexPath string `envconfig:"INDEX_PATH"`

	// CatalogPath is the metadata catalog path.
	// Env: VISEARCH_CATALOG_PATH (default: {data_dir}/catalog.json)
	CatalogPath string `envconfig:"CATALOG_PATH"`

	// EmbeddingDim is the embedding dimension the index is built with.
	// Env: VISEARCH_EMBEDDING_DIM (default: 512)
	EmbeddingDim int `envconfig:"EMBEDDING_DIM" default:"512"`

	// SearchLimit is the default number of results per search.
	// Env: VISEARCH_SEARCH_LIMIT (default: 5)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"5"`

	// LogLevel is the log verbosity level.
	// Env: VISEARCH_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: VISEARCH_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Endpoint configures the OpenAI-compatible provider.
	Endpoint EndpointEnv `envconfig:"ENDPOINT"`
}

// EndpointEnv holds environment configuration for the provider endpoint.
type EndpointEnv struct {
	// BaseURL overrides the provider base URL.
	// Env: VISEARCH_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey is the provider API key.
	// Env: VISEARCH_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// EmbeddingModel is the embedding model identifier.
	// Env: VISEARCH_ENDPOINT_EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// ChatModel is the chat model used for caption generation.
	// Env: VISEARCH_ENDPOINT_CHAT_MODEL (default: gpt-4o-mini)
	ChatModel string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	// ImageModel is the image generation model.
	// Env: VISEARCH_ENDPOINT_IMAGE_MODEL (default: dall-e-3)
	ImageModel string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`

	// TimeoutSeconds is the request timeout in seconds.
	// Env: VISEARCH_ENDPOINT_TIMEOUT_SECONDS (default: 60)
	TimeoutSeconds float64 `envconfig:"TIMEOUT_SECONDS" default:"60"`
}

// ToEndpoint converts EndpointEnv to an Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	ep := NewEndpoint()
	ep.baseURL = e.BaseURL
	ep.apiKey = e.APIKey
	ep.embeddingModel = e.EmbeddingModel
	ep.chatModel = e.ChatModel
	ep.imageModel = e.ImageModel
	if e.TimeoutSeconds > 0 {
		ep.timeout = time.Duration(e.TimeoutSeconds * float64(time.Second))
	}
	return ep
}

// LoadFromEnv loads configuration from VISEARCH_-prefixed environment
// variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("VISEARCH", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	cfg.dataDir = e.DataDir
	cfg.dbURL = e.DBURL
	cfg.indexPath = e.IndexPath
	cfg.catalogPath = e.CatalogPath
	if e.EmbeddingDim > 0 {
		cfg.embeddingDim = e.EmbeddingDim
	}
	if e.SearchLimit > 0 {
		cfg.searchLimit = e.SearchLimit
	}
	if e.LogLevel != "" {
		cfg.logLevel = e.LogLevel
	}
	cfg.logFormat = parseLogFormat(e.LogFormat)
	cfg.endpoint = e.Endpoint.ToEndpoint()

	return cfg
}
