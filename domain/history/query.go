// Package history defines the durable record of executed queries: inputs,
// ranked results, derived metrics, generated artifacts, and the store
// contract that persists them.
package history

import (
	"errors"
	"time"

	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/domain/retrieval"
)

// ErrInvalidInput indicates a save request that violates the record
// invariants (unknown mode, weight out of range, inconsistent latencies).
var ErrInvalidInput = errors.New("invalid history input")

// Performance holds the latencies measured for one query execution.
// Total must be at least as large as every component.
type Performance struct {
	retrievalTime time.Duration
	textGenTime   time.Duration
	imageGenTime  time.Duration
	totalTime     time.Duration
}

// NewPerformance creates a Performance.
func NewPerformance(retrieval, textGen, imageGen, total time.Duration) Performance {
	return Performance{
		retrievalTime: retrieval,
		textGenTime:   textGen,
		imageGenTime:  imageGen,
		totalTime:     total,
	}
}

// RetrievalTime returns the index search latency.
func (p Performance) RetrievalTime() time.Duration { return p.retrievalTime }

// TextGenTime returns the text generation latency.
func (p Performance) TextGenTime() time.Duration { return p.textGenTime }

// ImageGenTime returns the image generation latency.
func (p Performance) ImageGenTime() time.Duration { return p.imageGenTime }

// TotalTime returns the end-to-end latency.
func (p Performance) TotalTime() time.Duration { return p.totalTime }

// Valid reports whether total is >= each component latency.
func (p Performance) Valid() bool {
	return p.totalTime >= p.retrievalTime &&
		p.totalTime >= p.textGenTime &&
		p.totalTime >= p.imageGenTime
}

// QueryRecord is one committed query execution.
type QueryRecord struct {
	id                 int64
	timestamp          time.Time
	mode               retrieval.Mode
	queryText          string
	queryImagePath     string
	textWeight         *float64
	topK               int
	retrievalMetrics   metrics.Retrieval
	generatedText      string
	textMetrics        *metrics.Text
	generatedImagePath string
	performance        Performance
	results            []ResultRecord
}

// ReconstructQueryRecord rebuilds a QueryRecord from persisted state.
func ReconstructQueryRecord(
	id int64,
	timestamp time.Time,
	mode retrieval.Mode,
	queryText string,
	queryImagePath string,
	textWeight *float64,
	topK int,
	retrievalMetrics metrics.Retrieval,
	generatedText string,
	textMetrics *metrics.Text,
	generatedImagePath string,
	performance Performance,
	results []ResultRecord,
) QueryRecord {
	return QueryRecord{
		id:                 id,
		timestamp:          timestamp,
		mode:               mode,
		queryText:          queryText,
		queryImagePath:     queryImagePath,
		textWeight:         textWeight,
		topK:               topK,
		retrievalMetrics:   retrievalMetrics,
		generatedText:      generatedText,
		textMetrics:        textMetrics,
		generatedImagePath: generatedImagePath,
		performance:        performance,
		results:            results,
	}
}

// ID returns the record identity.
func (q QueryRecord) ID() int64 { return q.id }

// Timestamp returns the commit time.
func (q QueryRecord) Timestamp() time.Time { return q.timestamp }

// Mode returns the query modality.
func (q QueryRecord) Mode() retrieval.Mode { return q.mode }

// QueryText returns the textual query, or empty if absent.
func (q QueryRecord) QueryText() string { return q.queryText }

// QueryImagePath returns the owned copy of the query-side image,
// or empty if no image was supplied.
func (q QueryRecord) QueryImagePath() string { return q.queryImagePath }

// TextWeight returns the fusion weight and whether it is set.
// Set only for multimodal queries.
func (q QueryRecord) TextWeight() (float64, bool) {
	if q.textWeight == nil {
		return 0, false
	}
	return *q.textWeight, true
}

// TopK returns the requested result count.
func (q QueryRecord) TopK() int { return q.topK }

// RetrievalMetrics returns the retrieval-quality metrics.
func (q QueryRecord) RetrievalMetrics() metrics.Retrieval { return q.retrievalMetrics }

// GeneratedText returns the generated description, or empty if absent.
func (q QueryRecord) GeneratedText() string { return q.generatedText }

// TextMetrics returns the lexical metrics of the generated text and
// whether they are set.
func (q QueryRecord) TextMetrics() (metrics.Text, bool) {
	if q.textMetrics == nil {
		return metrics.Text{}, false
	}
	return *q.textMetrics, true
}

// GeneratedImagePath returns the owned copy of the generated image,
// or empty if none was produced.
func (q QueryRecord) GeneratedImagePath() string { return q.generatedImagePath }

// Performance returns the measured latencies.
func (q QueryRecord) Performance() Performance { return q.performance }

// Results returns the child result records in rank order.
// Empty for records loaded through listings.
func (q QueryRecord) Results() []ResultRecord {
	cp := make([]ResultRecord, len(q.results))
	copy(cp, q.results)
	return cp
}

// ResultRecord is one persisted retrieval hit, owned by its parent
// QueryRecord and removed with it.
type ResultRecord struct {
	id          int64
	queryID     int64
	rank        int
	assetPath   string
	displayName string
	score       float64
	labels      []string
}

// ReconstructResultRecord rebuilds a ResultRecord from persisted state.
func ReconstructResultRecord(id, queryID int64, rank int, assetPath, displayName string, score float64, labels []string) ResultRecord {
	cp := make([]string, len(labels))
	copy(cp, labels)
	return ResultRecord{
		id:          id,
		queryID:     queryID,
		rank:        rank,
		assetPath:   assetPath,
		displayName: displayName,
		score:       score,
		labels:      cp,
	}
}

// ID returns the row identity.
func (r ResultRecord) ID() int64 { return r.id }

// QueryID returns the parent record identity.
func (r ResultRecord) QueryID() int64 { return r.queryID }

// Rank returns the 1-based result rank.
func (r ResultRecord) Rank() int { return r.rank }

// AssetPath returns the referenced corpus asset path. The file is not
// owned by the record and is never deleted with it.
func (r ResultRecord) AssetPath() string { return r.assetPath }

// DisplayName returns the item display name.
func (r ResultRecord) DisplayName() string { return r.displayName }

// Score returns the persisted similarity score.
func (r ResultRecord) Score() float64 { return r.score }

// Labels returns the persisted labels (copy).
func (r ResultRecord) Labels() []string {
	cp := make([]string, len(r.labels))
	copy(cp, r.labels)
	return cp
}
