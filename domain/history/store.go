package history

import (
	"context"
	"fmt"
	"time"

	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/domain/retrieval"
)

// SaveRequest carries everything the store persists for one completed
// query execution. Required inputs go through NewSaveRequest; optional
// artifacts are attached with the With* options.
type SaveRequest struct {
	mode             retrieval.Mode
	queryText        string
	textWeight       *float64
	topK             int
	results          []retrieval.Result
	retrievalMetrics metrics.Retrieval
	performance      Performance
	generatedText    string
	textMetrics      *metrics.Text
	queryImage       []byte
	generatedImage   []byte
}

// SaveOption attaches an optional artifact to a SaveRequest.
type SaveOption func(*SaveRequest)

// WithQueryText sets the textual query.
func WithQueryText(text string) SaveOption {
	return func(r *SaveRequest) { r.queryText = text }
}

// WithTextWeight sets the multimodal fusion weight.
func WithTextWeight(w float64) SaveOption {
	return func(r *SaveRequest) { r.textWeight = &w }
}

// WithGeneratedText attaches a generated description and its lexical metrics.
func WithGeneratedText(text string, m metrics.Text) SaveOption {
	return func(r *SaveRequest) {
		r.generatedText = text
		r.textMetrics = &m
	}
}

// WithQueryImage attaches the query-side image bytes. The store copies
// them into owned storage on save.
func WithQueryImage(data []byte) SaveOption {
	return func(r *SaveRequest) { r.queryImage = data }
}

// WithGeneratedImage attaches generated image bytes. The store copies
// them into owned storage on save.
func WithGeneratedImage(data []byte) SaveOption {
	return func(r *SaveRequest) { r.generatedImage = data }
}

// NewSaveRequest creates a SaveRequest for a completed query.
func NewSaveRequest(
	mode retrieval.Mode,
	topK int,
	results []retrieval.Result,
	retrievalMetrics metrics.Retrieval,
	performance Performance,
	opts ...SaveOption,
) SaveRequest {
	cp := make([]retrieval.Result, len(results))
	copy(cp, results)
	req := SaveRequest{
		mode:             mode,
		topK:             topK,
		results:          cp,
		retrievalMetrics: retrievalMetrics,
		performance:      performance,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// Mode returns the query modality.
func (r SaveRequest) Mode() retrieval.Mode { return r.mode }

// QueryText returns the textual query, or empty.
func (r SaveRequest) QueryText() string { return r.queryText }

// TextWeight returns the fusion weight and whether it is set.
func (r SaveRequest) TextWeight() (float64, bool) {
	if r.textWeight == nil {
		return 0, false
	}
	return *r.textWeight, true
}

// TopK returns the requested result count.
func (r SaveRequest) TopK() int { return r.topK }

// Results returns the ranked results to persist (copy).
func (r SaveRequest) Results() []retrieval.Result {
	cp := make([]retrieval.Result, len(r.results))
	copy(cp, r.results)
	return cp
}

// RetrievalMetrics returns the retrieval-quality metrics.
func (r SaveRequest) RetrievalMetrics() metrics.Retrieval { return r.retrievalMetrics }

// Performance returns the measured latencies.
func (r SaveRequest) Performance() Performance { return r.performance }

// GeneratedText returns the generated description, or empty.
func (r SaveRequest) GeneratedText() string { return r.generatedText }

// TextMetrics returns the lexical metrics and whether they are set.
func (r SaveRequest) TextMetrics() (metrics.Text, bool) {
	if r.textMetrics == nil {
		return metrics.Text{}, false
	}
	return *r.textMetrics, true
}

// QueryImage returns the query-side image bytes, or nil.
func (r SaveRequest) QueryImage() []byte { return r.queryImage }

// GeneratedImage returns the generated image bytes, or nil.
func (r SaveRequest) GeneratedImage() []byte { return r.generatedImage }

// Validate checks the record invariants before any row is written.
func (r SaveRequest) Validate() error {
	if !r.mode.Valid() {
		return fmt.Errorf("%w: unknown query mode %q", ErrInvalidInput, r.mode)
	}
	if r.topK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidInput, r.topK)
	}
	if r.textWeight != nil && (*r.textWeight < 0 || *r.textWeight > 1) {
		return fmt.Errorf("%w: text weight %v outside [0,1]", ErrInvalidInput, *r.textWeight)
	}
	if !r.performance.Valid() {
		return fmt.Errorf("%w: total time is smaller than a component latency", ErrInvalidInput)
	}
	return nil
}

// Statistics aggregates the committed history.
type Statistics struct {
	totalQueries   int64
	meanSimilarity float64
	meanDiversity  float64
	meanTotalTime  time.Duration
	modeCounts     map[retrieval.Mode]int64
}

// NewStatistics creates a Statistics.
func NewStatistics(total int64, meanSimilarity, meanDiversity float64, meanTotalTime time.Duration, modeCounts map[retrieval.Mode]int64) Statistics {
	cp := make(map[retrieval.Mode]int64, len(modeCounts))
	for k, v := range modeCounts {
		cp[k] = v
	}
	return Statistics{
		totalQueries:   total,
		meanSimilarity: meanSimilarity,
		meanDiversity:  meanDiversity,
		meanTotalTime:  meanTotalTime,
		modeCounts:     cp,
	}
}

// TotalQueries returns the number of committed queries.
func (s Statistics) TotalQueries() int64 { return s.totalQueries }

// MeanSimilarity returns the mean of per-query mean similarity.
func (s Statistics) MeanSimilarity() float64 { return s.meanSimilarity }

// MeanDiversity returns the mean of per-query diversity.
func (s Statistics) MeanDiversity() float64 { return s.meanDiversity }

// MeanTotalTime returns the mean end-to-end latency.
func (s Statistics) MeanTotalTime() time.Duration { return s.meanTotalTime }

// ModeCounts returns query counts per mode (copy).
func (s Statistics) ModeCounts() map[retrieval.Mode]int64 {
	cp := make(map[retrieval.Mode]int64, len(s.modeCounts))
	for k, v := range s.modeCounts {
		cp[k] = v
	}
	return cp
}

// Store is the durable query history.
//
// Save is all-or-nothing at the row level: either the QueryRecord and all
// its ResultRecords commit together, or nothing is written. Owned asset
// files are copied after the rows commit; a failure there is surfaced to
// the caller together with the new identity rather than hidden.
type Store interface {
	// Save persists one completed query and returns its new identity.
	Save(ctx context.Context, req SaveRequest) (int64, error)

	// GetByID returns a query with its result records ordered by rank.
	// Returns database.ErrNotFound when the id does not exist.
	GetByID(ctx context.Context, id int64) (QueryRecord, error)

	// ListRecent returns up to limit queries, most recent first,
	// without child rows.
	ListRecent(ctx context.Context, limit int) ([]QueryRecord, error)

	// Delete removes a query, its result records, and its owned asset
	// files. Already-absent files count as removed; any other file
	// removal failure is reported even though the rows are gone.
	Delete(ctx context.Context, id int64) error

	// Statistics aggregates the committed history.
	Statistics(ctx context.Context) (Statistics, error)
}
