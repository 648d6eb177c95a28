// Package retrieval defines the types produced by a similarity search.
package retrieval

// Mode identifies the query modality.
type Mode string

// Query modes.
const (
	ModeText       Mode = "text"
	ModeImage      Mode = "image"
	ModeMultimodal Mode = "multimodal"
)

// Valid reports whether the mode is one of the known query modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeImage, ModeMultimodal:
		return true
	}
	return false
}

// Result is one ranked hit of a similarity search, already joined against
// the metadata catalog. Results are produced fresh per query and are never
// persisted on their own.
type Result struct {
	rank        int
	corpusIndex int
	itemID      int64
	displayName string
	score       float64
	labels      []string
	assetPath   string
}

// NewResult creates a Result.
func NewResult(rank, corpusIndex int, itemID int64, displayName string, score float64, labels []string, assetPath string) Result {
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Result{
		rank:        rank,
		corpusIndex: corpusIndex,
		itemID:      itemID,
		displayName: displayName,
		score:       score,
		labels:      cp,
		assetPath:   assetPath,
	}
}

// Rank returns the 1-based result rank.
func (r Result) Rank() int { return r.rank }

// CorpusIndex returns the index row this result came from.
func (r Result) CorpusIndex() int { return r.corpusIndex }

// ItemID returns the external item identifier.
func (r Result) ItemID() int64 { return r.itemID }

// DisplayName returns the human-readable item name.
func (r Result) DisplayName() string { return r.displayName }

// Score returns the similarity score.
func (r Result) Score() float64 { return r.score }

// Labels returns the item labels (copy).
func (r Result) Labels() []string {
	cp := make([]string, len(r.labels))
	copy(cp, r.labels)
	return cp
}

// AssetPath returns the path of the corpus asset.
func (r Result) AssetPath() string { return r.assetPath }

// FlattenLabels collects every label across the results in rank order.
// Duplicates are preserved; the diversity metric is defined over this
// flattened multiset.
func FlattenLabels(results []Result) []string {
	var labels []string
	for _, r := range results {
		labels = append(labels, r.labels...)
	}
	return labels
}
