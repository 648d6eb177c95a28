package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visearch/visearch/domain/retrieval"
)

func result(rank int, score float64, labels ...string) retrieval.Result {
	return retrieval.NewResult(rank, rank-1, int64(rank), "item.jpg", score, labels, "item.jpg")
}

func TestComputeRetrievalEmpty(t *testing.T) {
	m := ComputeRetrieval(nil)

	assert.Zero(t, m.MeanSimilarity())
	assert.Zero(t, m.MinSimilarity())
	assert.Zero(t, m.MaxSimilarity())
	assert.Zero(t, m.StdSimilarity())
	assert.Zero(t, m.Diversity())
	assert.Zero(t, m.TotalResults())
}

func TestComputeRetrievalScores(t *testing.T) {
	m := ComputeRetrieval([]retrieval.Result{
		result(1, 0.9, "a dog"),
		result(2, 0.8, "a cat"),
		result(3, 0.7, "a park"),
	})

	assert.InDelta(t, 0.8, m.MeanSimilarity(), 1e-9)
	assert.InDelta(t, 0.7, m.MinSimilarity(), 1e-9)
	assert.InDelta(t, 0.9, m.MaxSimilarity(), 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/300), m.StdSimilarity(), 1e-9)
	assert.Equal(t, 3, m.TotalResults())
}

func TestComputeRetrievalDiversity(t *testing.T) {
	tests := []struct {
		name     string
		results  []retrieval.Result
		expected float64
	}{
		{
			name: "all labels identical",
			results: []retrieval.Result{
				result(1, 0.5, "a dog"),
				result(2, 0.5, "a dog"),
				result(3, 0.5, "a dog"),
			},
			expected: 1.0 / 3.0,
		},
		{
			name: "all labels distinct",
			results: []retrieval.Result{
				result(1, 0.5, "a dog"),
				result(2, 0.5, "a cat"),
			},
			expected: 1.0,
		},
		{
			name: "duplicates across multi-label results",
			results: []retrieval.Result{
				result(1, 0.85, "a dog", "a brown dog"),
				result(2, 0.78, "a dog playing", "a dog"),
				result(3, 0.72, "a park", "green grass"),
			},
			expected: 5.0 / 6.0,
		},
		{
			name: "no labels at all",
			results: []retrieval.Result{
				result(1, 0.5),
				result(2, 0.4),
			},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeRetrieval(tt.results)
			assert.InDelta(t, tt.expected, m.Diversity(), 1e-9)
		})
	}
}

func TestComputeRetrievalSingleResult(t *testing.T) {
	m := ComputeRetrieval([]retrieval.Result{result(1, 0.42, "a boat")})

	assert.InDelta(t, 0.42, m.MeanSimilarity(), 1e-9)
	assert.InDelta(t, 0.42, m.MinSimilarity(), 1e-9)
	assert.InDelta(t, 0.42, m.MaxSimilarity(), 1e-9)
	assert.Zero(t, m.StdSimilarity())
	assert.InDelta(t, 1.0, m.Diversity(), 1e-9)
}
