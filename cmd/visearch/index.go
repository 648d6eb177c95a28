package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/visearch/visearch/domain/catalog"
	"github.com/visearch/visearch/infrastructure/search"
	"github.com/visearch/visearch/internal/log"
)

func indexCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and inspect the vector index snapshot",
	}

	cmd.AddCommand(indexBuildCmd(envFile))
	cmd.AddCommand(indexInfoCmd(envFile))

	return cmd
}

func indexBuildCmd(envFile *string) *cobra.Command {
	var embeddingsPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index snapshot from precomputed embeddings",
		Long: `Build the index snapshot from a JSON file holding an array of
fixed-dimension embedding vectors, positionally aligned with the
catalog. Vectors are normalized to unit length before storage and the
snapshot is written to the configured index path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			logger := log.NewLogger(cfg)

			data, err := os.ReadFile(embeddingsPath)
			if err != nil {
				return fmt.Errorf("read embeddings %s: %w", embeddingsPath, err)
			}
			var vectors [][]float64
			if err := json.Unmarshal(data, &vectors); err != nil {
				return fmt.Errorf("parse embeddings %s: %w", embeddingsPath, err)
			}

			idx, err := search.BuildFlatIndex(cfg.EmbeddingDim(), vectors, true)
			if err != nil {
				return err
			}

			// Catch a stale catalog at build time instead of first search.
			cat, err := catalog.Load(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("load catalog %s: %w", cfg.CatalogPath(), err)
			}
			if err := cat.ValidateAlignment(idx.Size()); err != nil {
				return err
			}

			if err := cfg.EnsureDataDir(); err != nil {
				return err
			}
			if err := idx.Persist(cfg.IndexPath()); err != nil {
				return err
			}

			logger.Info("index built",
				"vectors", idx.Size(),
				"dimension", idx.Dimension(),
				"path", cfg.IndexPath(),
			)
			fmt.Printf("Indexed %d vectors (dim %d) to %s\n", idx.Size(), idx.Dimension(), cfg.IndexPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&embeddingsPath, "embeddings", "", "Path to a JSON array of embedding vectors")
	_ = cmd.MarkFlagRequired("embeddings")

	return cmd
}

func indexInfoCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the index snapshot header",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}

			info, err := search.ReadSnapshotInfo(cfg.IndexPath())
			if err != nil {
				return err
			}

			fmt.Printf("Snapshot:   %s\n", cfg.IndexPath())
			fmt.Printf("Version:    %d\n", info.Version())
			fmt.Printf("Dimension:  %d\n", info.Dimension())
			fmt.Printf("Vectors:    %d\n", info.Count())
			fmt.Printf("Normalized: %t\n", info.Normalized())
			return nil
		},
	}
}
