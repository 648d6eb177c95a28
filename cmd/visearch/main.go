// Package main is the entry point for the visearch CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/visearch/visearch/domain/catalog"
	"github.com/visearch/visearch/infrastructure/persistence"
	"github.com/visearch/visearch/infrastructure/search"
	"github.com/visearch/visearch/internal/config"
	"github.com/visearch/visearch/internal/database"
	"github.com/visearch/visearch/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "visearch",
		Short: "Multimodal similarity search with durable query history",
		Long: `visearch searches a corpus of image embeddings by text, image, or a
weighted fusion of both, and keeps a durable history of every query
with its results, metrics, and generated artifacts.

Configuration is loaded from a .env file (if present) and environment
variables with the VISEARCH_ prefix:
  VISEARCH_DATA_DIR       Data directory (default: ~/.visearch)
  VISEARCH_DB_URL         Database URL (default: sqlite:///{data_dir}/visearch.db)
  VISEARCH_INDEX_PATH     Index snapshot path (default: {data_dir}/index.bin)
  VISEARCH_CATALOG_PATH   Catalog path (default: {data_dir}/catalog.json)
  VISEARCH_EMBEDDING_DIM  Embedding dimension (default: 512)
  VISEARCH_SEARCH_LIMIT   Default top-k (default: 5)
  VISEARCH_LOG_LEVEL      DEBUG, INFO, WARN, ERROR (default: INFO)
  VISEARCH_LOG_FORMAT     pretty, json (default: pretty)
  VISEARCH_ENDPOINT_*     Encoder/generator service (BASE_URL, API_KEY,
                          EMBEDDING_MODEL, CHAT_MODEL, IMAGE_MODEL,
                          TIMEOUT_SECONDS)`,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file")

	cmd.AddCommand(searchCmd(&envFile))
	cmd.AddCommand(historyCmd(&envFile))
	cmd.AddCommand(statsCmd(&envFile))
	cmd.AddCommand(indexCmd(&envFile))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openHistory opens the history database and asset store. The returned
// closer releases the database connection.
func openHistory(ctx context.Context, cfg config.AppConfig, logger *log.Logger) (*persistence.HistoryStore, func(), error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, err
	}

	db, err := database.NewDatabase(ctx, cfg.DBURL(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	assets, err := persistence.NewAssetStore(cfg.DataDir())
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	store := persistence.NewHistoryStore(db, assets, logger)
	return store, func() { _ = db.Close() }, nil
}

// openRetriever loads the index snapshot and catalog built by `index build`.
func openRetriever(cfg config.AppConfig, logger *log.Logger) (*search.Retriever, error) {
	idx, err := search.LoadFlatIndex(cfg.IndexPath(), cfg.EmbeddingDim())
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", cfg.IndexPath(), err)
	}
	cat, err := catalog.Load(cfg.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath(), err)
	}
	return search.NewRetriever(idx, cat, logger)
}
