package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfigDefaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultEmbeddingDim, cfg.EmbeddingDim())
	assert.Equal(t, DefaultSearchLimit, cfg.SearchLimit())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
}

func TestDerivedPaths(t *testing.T) {
	var env EnvConfig
	env.DataDir = "/var/lib/visearch"
	cfg := env.ToAppConfig()

	assert.Equal(t, "/var/lib/visearch", cfg.DataDir())
	assert.Equal(t, "sqlite:///"+filepath.Join("/var/lib/visearch", "visearch.db"), cfg.DBURL())
	assert.Equal(t, filepath.Join("/var/lib/visearch", "index.bin"), cfg.IndexPath())
	assert.Equal(t, filepath.Join("/var/lib/visearch", "catalog.json"), cfg.CatalogPath())
}

func TestExplicitPathsWinOverDerived(t *testing.T) {
	var env EnvConfig
	env.DataDir = "/data"
	env.DBURL = "postgres://localhost/visearch"
	env.IndexPath = "/srv/index.bin"
	cfg := env.ToAppConfig()

	assert.Equal(t, "postgres://localhost/visearch", cfg.DBURL())
	assert.Equal(t, "/srv/index.bin", cfg.IndexPath())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VISEARCH_DATA_DIR", "/tmp/vs-test")
	t.Setenv("VISEARCH_EMBEDDING_DIM", "768")
	t.Setenv("VISEARCH_LOG_FORMAT", "json")
	t.Setenv("VISEARCH_ENDPOINT_API_KEY", "sk-test")
	t.Setenv("VISEARCH_ENDPOINT_TIMEOUT_SECONDS", "2.5")

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.ToAppConfig()

	assert.Equal(t, "/tmp/vs-test", cfg.DataDir())
	assert.Equal(t, 768, cfg.EmbeddingDim())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.True(t, cfg.Endpoint().IsConfigured())
	assert.Equal(t, "sk-test", cfg.Endpoint().APIKey())
	assert.Equal(t, 2500*time.Millisecond, cfg.Endpoint().Timeout())
}

func TestEndpointNotConfiguredWithoutKey(t *testing.T) {
	cfg := NewAppConfig()
	assert.False(t, cfg.Endpoint().IsConfigured())
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, parseLogFormat("json"))
	assert.Equal(t, LogFormatJSON, parseLogFormat("JSON"))
	assert.Equal(t, LogFormatPretty, parseLogFormat("pretty"))
	assert.Equal(t, LogFormatPretty, parseLogFormat(""))
	assert.Equal(t, LogFormatPretty, parseLogFormat("garbage"))
}
