package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visearch/visearch/domain/vector"
)

func TestBuildFlatIndexNormalizes(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{3, 4}}, true)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Size())

	v, ok := idx.Vector(0)
	require.True(t, ok)
	assert.InDelta(t, 0.6, v[0], 1e-9)
	assert.InDelta(t, 0.8, v[1], 1e-9)
	assert.True(t, idx.Normalized())
}

func TestBuildFlatIndexDimensionMismatch(t *testing.T) {
	_, err := BuildFlatIndex(3, [][]float64{{1, 0, 0}, {1, 0}}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestBuildFlatIndexKeepsZeroVector(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{0, 0}}, true)
	require.NoError(t, err)

	v, ok := idx.Vector(0)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, v)
}

func TestSearchRanksByDescendingScore(t *testing.T) {
	// Orthogonal basis plus a diagonal: a query along the first axis must
	// return the axis itself first, the diagonal second.
	idx, err := BuildFlatIndex(2, [][]float64{
		{1, 0},
		{0, 1},
		{0.7071, 0.7071},
	}, true)
	require.NoError(t, err)

	matches, err := idx.Search([]float64{1, 0}, 2, true)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, 0, matches[0].CorpusIndex())
	assert.InDelta(t, 1.0, matches[0].Score(), 1e-6)
	assert.Equal(t, 2, matches[1].CorpusIndex())
	assert.InDelta(t, math.Sqrt2/2, matches[1].Score(), 1e-4)
}

func TestSearchTieBreaksAscendingIndex(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{
		{0, 1},
		{1, 0},
		{1, 0},
		{1, 0},
	}, true)
	require.NoError(t, err)

	matches, err := idx.Search([]float64{1, 0}, 4, true)
	require.NoError(t, err)
	require.Len(t, matches, 4)
	assert.Equal(t, 1, matches[0].CorpusIndex())
	assert.Equal(t, 2, matches[1].CorpusIndex())
	assert.Equal(t, 3, matches[2].CorpusIndex())
	assert.Equal(t, 0, matches[3].CorpusIndex())
}

func TestSearchClampsK(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}, {0, 1}}, true)
	require.NoError(t, err)

	matches, err := idx.Search([]float64{1, 0}, 10, true)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := NewFlatIndex(2)
	require.NoError(t, err)

	_, err = idx.Search([]float64{1, 0}, 1, true)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestSearchInvalidK(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}}, true)
	require.NoError(t, err)

	_, err = idx.Search([]float64{1, 0}, 0, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}}, true)
	require.NoError(t, err)

	_, err = idx.Search([]float64{1, 0, 0}, 1, true)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestSearchDoesNotMutateQuery(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}}, true)
	require.NoError(t, err)

	query := []float64{3, 4}
	_, err = idx.Search(query, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, query)
}

func TestNewFlatIndexInvalidDimension(t *testing.T) {
	_, err := NewFlatIndex(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
