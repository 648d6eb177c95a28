package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/visearch/visearch/domain/history"
	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/domain/retrieval"
	"github.com/visearch/visearch/infrastructure/persistence"
	"github.com/visearch/visearch/infrastructure/provider"
	"github.com/visearch/visearch/internal/config"
	"github.com/visearch/visearch/internal/log"
)

func searchCmd(envFile *string) *cobra.Command {
	var (
		text        string
		imageVector string
		weight      float64
		topK        int
		save        bool
		describe    bool
		render      bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the corpus by text, image vector, or both",
		Long: `Search the corpus by text, a precomputed image embedding, or both.

With both inputs the query is the weighted fusion w*text + (1-w)*image,
renormalized before searching. The image embedding is supplied as a JSON
array of numbers (--image-vector), produced by the same encoder that
built the corpus.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), searchParams{
				envFile:     *envFile,
				text:        text,
				imageVector: imageVector,
				weight:      weight,
				topK:        topK,
				save:        save,
				describe:    describe,
				render:      render,
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Textual query")
	cmd.Flags().StringVar(&imageVector, "image-vector", "", "Path to a JSON image embedding")
	cmd.Flags().Float64Var(&weight, "weight", 0.7, "Text weight for multimodal fusion [0,1]")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of results (default: configured search limit)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the query to history")
	cmd.Flags().BoolVar(&describe, "describe", false, "Generate a text description of the results")
	cmd.Flags().BoolVar(&render, "render", false, "Generate an image from the results")

	return cmd
}

type searchParams struct {
	envFile     string
	text        string
	imageVector string
	weight      float64
	topK        int
	save        bool
	describe    bool
	render      bool
}

func runSearch(ctx context.Context, p searchParams) error {
	if p.text == "" && p.imageVector == "" {
		return errors.New("provide --text, --image-vector, or both")
	}

	cfg, err := loadConfig(p.envFile)
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg)

	retriever, err := openRetriever(cfg, logger)
	if err != nil {
		return err
	}

	topK := p.topK
	if topK <= 0 {
		topK = cfg.SearchLimit()
	}

	var openAI *provider.OpenAIProvider
	if cfg.Endpoint().IsConfigured() {
		openAI, err = newProvider(cfg)
		if err != nil {
			return err
		}
	}

	// Encode the text and load the image vector concurrently.
	var textVec, imageVec []float64
	g, gctx := errgroup.WithContext(ctx)
	if p.text != "" {
		if openAI == nil {
			return errors.New("text queries need a configured encoder endpoint (VISEARCH_ENDPOINT_API_KEY)")
		}
		g.Go(func() error {
			var err error
			textVec, err = openAI.EncodeText(gctx, p.text)
			return err
		})
	}
	if p.imageVector != "" {
		g.Go(func() error {
			var err error
			imageVec, err = loadVector(p.imageVector)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	mode := queryMode(textVec, imageVec)

	retrievalStart := time.Now()
	results, err := retriever.SearchMultimodal(textVec, imageVec, p.weight, topK)
	if err != nil {
		return err
	}
	retrievalTime := time.Since(retrievalStart)

	retrievalMetrics := metrics.ComputeRetrieval(results)
	printResults(results, retrievalMetrics, retrievalTime)

	var (
		generatedText  string
		textMetrics    metrics.Text
		generatedImage []byte
		textGenTime    time.Duration
		imageGenTime   time.Duration
	)
	if p.describe {
		if openAI == nil {
			return errors.New("--describe needs a configured endpoint (VISEARCH_ENDPOINT_API_KEY)")
		}
		start := time.Now()
		system, user := provider.BuildDescriptionPrompt(p.text, results)
		generatedText, err = openAI.GenerateText(ctx, system, user)
		if err != nil {
			return err
		}
		textGenTime = time.Since(start)
		textMetrics = metrics.ComputeText(generatedText)
		printGeneratedText(generatedText, textMetrics, textGenTime)
	}
	if p.render {
		if openAI == nil {
			return errors.New("--render needs a configured endpoint (VISEARCH_ENDPOINT_API_KEY)")
		}
		start := time.Now()
		generatedImage, err = openAI.GenerateImage(ctx, provider.BuildImagePrompt(p.text, results))
		if err != nil {
			return err
		}
		imageGenTime = time.Since(start)
		fmt.Printf("\nGenerated image: %d bytes in %s\n", len(generatedImage), metrics.FormatDuration(imageGenTime))
	}

	if !p.save {
		return nil
	}

	store, closeStore, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	totalTime := retrievalTime + textGenTime + imageGenTime
	opts := []history.SaveOption{}
	if p.text != "" {
		opts = append(opts, history.WithQueryText(p.text))
	}
	if mode == retrieval.ModeMultimodal {
		opts = append(opts, history.WithTextWeight(p.weight))
	}
	if generatedText != "" {
		opts = append(opts, history.WithGeneratedText(generatedText, textMetrics))
	}
	if generatedImage != nil {
		opts = append(opts, history.WithGeneratedImage(generatedImage))
	}

	req := history.NewSaveRequest(mode, topK, results, retrievalMetrics,
		history.NewPerformance(retrievalTime, textGenTime, imageGenTime, totalTime),
		opts...,
	)

	id, err := store.Save(ctx, req)
	if err != nil {
		if id != 0 && errors.Is(err, persistence.ErrAssetIO) {
			// Rows committed; only the asset copy failed.
			fmt.Printf("\nSaved as query %d, but asset write failed: %v\n", id, err)
			return nil
		}
		return err
	}
	fmt.Printf("\nSaved as query %d\n", id)
	return nil
}

// newProvider builds the OpenAI-backed provider from the configured endpoint.
func newProvider(cfg config.AppConfig) (*provider.OpenAIProvider, error) {
	ep := cfg.Endpoint()
	return provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:         ep.APIKey(),
		BaseURL:        ep.BaseURL(),
		EmbeddingModel: ep.EmbeddingModel(),
		ChatModel:      ep.ChatModel(),
		ImageModel:     ep.ImageModel(),
		Timeout:        ep.Timeout(),
	})
}

// loadVector reads a JSON array of numbers from path.
func loadVector(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vector %s: %w", path, err)
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("parse vector %s: %w", path, err)
	}
	return vec, nil
}

func queryMode(textVec, imageVec []float64) retrieval.Mode {
	switch {
	case textVec != nil && imageVec != nil:
		return retrieval.ModeMultimodal
	case imageVec != nil:
		return retrieval.ModeImage
	default:
		return retrieval.ModeText
	}
}

func printResults(results []retrieval.Result, m metrics.Retrieval, elapsed time.Duration) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Found %d results in %s\n\n", len(results), metrics.FormatDuration(elapsed))
	for _, r := range results {
		fmt.Printf("%3d. %-40s %.4f\n", r.Rank(), r.DisplayName(), r.Score())
		if labels := r.Labels(); len(labels) > 0 {
			fmt.Printf("     labels: %s\n", strings.Join(labels, ", "))
		}
	}

	similarityBand := metrics.QualitativeBand("avg_similarity", m.MeanSimilarity())
	diversityBand := metrics.QualitativeBand("diversity", m.Diversity())
	fmt.Printf("\nSimilarity: mean %.3f (%s), min %.3f, max %.3f, std %.3f\n",
		m.MeanSimilarity(), similarityBand, m.MinSimilarity(), m.MaxSimilarity(), m.StdSimilarity())
	fmt.Printf("Diversity:  %.3f (%s)\n", m.Diversity(), diversityBand)
}

func printGeneratedText(text string, m metrics.Text, elapsed time.Duration) {
	fmt.Printf("\nDescription (generated in %s):\n%s\n", metrics.FormatDuration(elapsed), text)
	richnessBand := metrics.QualitativeBand("vocabulary_richness", m.VocabularyRichness())
	fmt.Printf("\nText: %d words, %d sentences, richness %.3f (%s)\n",
		m.WordCount(), m.SentenceCount(), m.VocabularyRichness(), richnessBand)
}
