package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/internal/log"
)

func statsCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over the query history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			logger := log.NewLogger(cfg)

			store, closeStore, err := openHistory(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := store.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total queries:   %d\n", stats.TotalQueries())
			if stats.TotalQueries() == 0 {
				return nil
			}

			fmt.Printf("Mean similarity: %.3f (%s)\n",
				stats.MeanSimilarity(),
				metrics.QualitativeBand("avg_similarity", stats.MeanSimilarity()))
			fmt.Printf("Mean diversity:  %.3f (%s)\n",
				stats.MeanDiversity(),
				metrics.QualitativeBand("diversity", stats.MeanDiversity()))
			fmt.Printf("Mean total time: %s\n", metrics.FormatDuration(stats.MeanTotalTime()))

			fmt.Println("Queries by mode:")
			for mode, count := range stats.ModeCounts() {
				fmt.Printf("  %-12s %d\n", mode, count)
			}
			return nil
		},
	}
}
