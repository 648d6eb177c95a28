package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func relevantSet(ids ...int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestPrecisionAtK(t *testing.T) {
	retrieved := []int64{1, 2, 3, 4, 5}
	relevant := relevantSet(1, 3, 9)

	assert.InDelta(t, 1.0, PrecisionAtK(retrieved, relevant, 1), 1e-9)
	assert.InDelta(t, 0.5, PrecisionAtK(retrieved, relevant, 2), 1e-9)
	assert.InDelta(t, 2.0/3.0, PrecisionAtK(retrieved, relevant, 3), 1e-9)
	assert.Zero(t, PrecisionAtK(retrieved, relevant, 0))
}

func TestRecallAtK(t *testing.T) {
	retrieved := []int64{1, 2, 3}
	relevant := relevantSet(1, 3, 9)

	assert.InDelta(t, 1.0/3.0, RecallAtK(retrieved, relevant, 1), 1e-9)
	assert.InDelta(t, 2.0/3.0, RecallAtK(retrieved, relevant, 3), 1e-9)
	assert.Zero(t, RecallAtK(retrieved, relevantSet(), 3))
}

func TestAveragePrecision(t *testing.T) {
	// Relevant items at ranks 1 and 3: AP = (1/1 + 2/3) / 2.
	retrieved := []int64{7, 8, 9}
	relevant := relevantSet(7, 9)

	assert.InDelta(t, (1.0+2.0/3.0)/2.0, AveragePrecision(retrieved, relevant), 1e-9)
	assert.Zero(t, AveragePrecision(retrieved, relevantSet()))
	assert.Zero(t, AveragePrecision([]int64{1, 2}, relevantSet(3)))
}

func TestMeanAveragePrecision(t *testing.T) {
	all := [][]int64{{1, 2}, {3, 4}}
	rel := []map[int64]struct{}{relevantSet(1), relevantSet(4)}

	// Query 1: AP = 1.0; query 2: relevant at rank 2, AP = 0.5.
	assert.InDelta(t, 0.75, MeanAveragePrecision(all, rel), 1e-9)
	assert.Zero(t, MeanAveragePrecision(nil, nil))
}
