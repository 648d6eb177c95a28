package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/visearch/visearch/domain/history"
	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/internal/log"
)

func historyCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the query history",
	}

	cmd.AddCommand(historyListCmd(envFile))
	cmd.AddCommand(historyShowCmd(envFile))
	cmd.AddCommand(historyDeleteCmd(envFile))

	return cmd
}

func historyListCmd(envFile *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent queries, most recent first",
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

			records, err := store.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No queries in history.")
				return nil
			}

			for _, q := range records {
				fmt.Printf("%5d  %s  %-10s  %-30s  sim %.3f  %s\n",
					q.ID(),
					q.Timestamp().Format("2006-01-02 15:04:05"),
					q.Mode(),
					truncate(q.QueryText(), 30),
					q.RetrievalMetrics().MeanSimilarity(),
					metrics.FormatDuration(q.Performance().TotalTime()),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum queries to list (default 50)")
	return cmd
}

func historyShowCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one query with its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid query id %q", args[0])
			}

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

			q, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			printQueryRecord(q)
			return nil
		},
	}
}

func historyDeleteCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a query, its results, and its owned image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid query id %q", args[0])
			}

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

			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted query %d\n", id)
			return nil
		},
	}
}

func printQueryRecord(q history.QueryRecord) {
	fmt.Printf("Query %d  (%s, %s)\n", q.ID(), q.Mode(), q.Timestamp().Format("2006-01-02 15:04:05"))
	if q.QueryText() != "" {
		fmt.Printf("  text:   %s\n", q.QueryText())
	}
	if q.QueryImagePath() != "" {
		fmt.Printf("  image:  %s\n", q.QueryImagePath())
	}
	if w, ok := q.TextWeight(); ok {
		fmt.Printf("  weight: %.2f\n", w)
	}
	fmt.Printf("  top-k:  %d\n", q.TopK())

	m := q.RetrievalMetrics()
	fmt.Printf("  similarity: mean %.3f (%s), min %.3f, max %.3f, std %.3f\n",
		m.MeanSimilarity(), metrics.QualitativeBand("avg_similarity", m.MeanSimilarity()),
		m.MinSimilarity(), m.MaxSimilarity(), m.StdSimilarity())
	fmt.Printf("  diversity:  %.3f (%s)\n",
		m.Diversity(), metrics.QualitativeBand("diversity", m.Diversity()))

	p := q.Performance()
	fmt.Printf("  timing: retrieval %s, text gen %s, image gen %s, total %s\n",
		metrics.FormatDuration(p.RetrievalTime()),
		metrics.FormatDuration(p.TextGenTime()),
		metrics.FormatDuration(p.ImageGenTime()),
		metrics.FormatDuration(p.TotalTime()),
	)

	if q.GeneratedText() != "" {
		fmt.Printf("\n  description: %s\n", q.GeneratedText())
		if t, ok := q.TextMetrics(); ok {
			fmt.Printf("  text metrics: %d words, %d sentences, richness %.3f (%s)\n",
				t.WordCount(), t.SentenceCount(), t.VocabularyRichness(),
				metrics.QualitativeBand("vocabulary_richness", t.VocabularyRichness()))
		}
	}
	if q.GeneratedImagePath() != "" {
		fmt.Printf("  generated image: %s\n", q.GeneratedImagePath())
	}

	results := q.Results()
	if len(results) > 0 {
		fmt.Println("\n  results:")
		for _, r := range results {
			fmt.Printf("  %3d. %-40s %.4f\n", r.Rank(), r.DisplayName(), r.Score())
			if labels := r.Labels(); len(labels) > 0 {
				fmt.Printf("       labels: %s\n", strings.Join(labels, ", "))
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
