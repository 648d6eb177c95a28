// Package metrics provides pure, stateless metric calculations for
// retrieval result sets and generated text. Nothing in this package has
// side effects or persisted state.
package metrics

import (
	"math"

	"github.com/visearch/visearch/domain/retrieval"
)

// Retrieval summarizes the quality of one retrieval result set.
type Retrieval struct {
	meanSimilarity float64
	minSimilarity  float64
	maxSimilarity  float64
	stdSimilarity  float64
	diversity      float64
	totalResults   int
}

// NewRetrieval creates a Retrieval from already-computed values.
// Used by the history store when reconstructing persisted metrics.
func NewRetrieval(mean, min, max, std, diversity float64, total int) Retrieval {
	return Retrieval{
		meanSimilarity: mean,
		minSimilarity:  min,
		maxSimilarity:  max,
		stdSimilarity:  std,
		diversity:      diversity,
		totalResults:   total,
	}
}

// MeanSimilarity returns the mean similarity score.
func (r Retrieval) MeanSimilarity() float64 { return r.meanSimilarity }

// MinSimilarity returns the lowest similarity score.
func (r Retrieval) MinSimilarity() float64 { return r.minSimilarity }

// MaxSimilarity returns the highest similarity score.
func (r Retrieval) MaxSimilarity() float64 { return r.maxSimilarity }

// StdSimilarity returns the population standard deviation of the scores.
func (r Retrieval) StdSimilarity() float64 { return r.stdSimilarity }

// Diversity returns the ratio of distinct labels to total labels across
// the result set's flattened label multiset.
func (r Retrieval) Diversity() float64 { return r.diversity }

// TotalResults returns the number of results the metrics were computed over.
func (r Retrieval) TotalResults() int { return r.totalResults }

// ComputeRetrieval calculates retrieval-quality metrics for a result set.
// An empty result set yields all-zero metrics; it is a valid outcome,
// not an error.
func ComputeRetrieval(results []retrieval.Result) Retrieval {
	if len(results) == 0 {
		return Retrieval{}
	}

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score()
	}

	var sum float64
	min, max := scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))

	labels := retrieval.FlattenLabels(results)
	diversity := 0.0
	if len(labels) > 0 {
		unique := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			unique[l] = struct{}{}
		}
		diversity = float64(len(unique)) / float64(len(labels))
	}

	return Retrieval{
		meanSimilarity: mean,
		minSimilarity:  min,
		maxSimilarity:  max,
		stdSimilarity:  math.Sqrt(variance),
		diversity:      diversity,
		totalResults:   len(results),
	}
}
