// Package search provides the flat vector index, its binary snapshot format,
// and the fusion retriever that joins index hits against the metadata catalog.
package search

import (
	"errors"
	"fmt"
	"sort"

	"github.com/visearch/visearch/domain/vector"
)

// ErrEmptyIndex indicates a search against an index with no stored vectors.
var ErrEmptyIndex = errors.New("index contains no vectors")

// ErrInvalidArgument indicates a caller-supplied argument outside its valid range.
var ErrInvalidArgument = errors.New("invalid argument")

// Match holds a corpus index and its inner-product score against a query.
type Match struct {
	corpusIndex int
	score       float64
}

// NewMatch creates a new Match.
func NewMatch(corpusIndex int, score float64) Match {
	return Match{corpusIndex: corpusIndex, score: score}
}

// CorpusIndex returns the position of the matched vector in the corpus.
func (m Match) CorpusIndex() int { return m.corpusIndex }

// Score returns the inner-product score.
func (m Match) Score() float64 { return m.score }

// FlatIndex is an exact inner-product index over fixed-dimension embedding
// vectors. It is read-only after construction and safe for concurrent
// searches without locking.
type FlatIndex struct {
	dim        int
	vectors    [][]float64
	normalized bool
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidArgument, dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// BuildFlatIndex creates an index holding copies of the given vectors.
// When normalize is set each stored copy is scaled to unit L2 norm; zero
// vectors are stored as-is. Every vector must have the configured dimension.
func BuildFlatIndex(dim int, vectors [][]float64, normalize bool) (*FlatIndex, error) {
	idx, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	idx.normalized = normalize
	idx.vectors = make([][]float64, 0, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d: %w",
				i, len(v), dim, vector.ErrDimensionMismatch)
		}
		cp := make([]float64, dim)
		copy(cp, v)
		if normalize {
			vector.Normalize(cp)
		}
		idx.vectors = append(idx.vectors, cp)
	}
	return idx, nil
}

// Dimension returns the configured vector dimension.
func (x *FlatIndex) Dimension() int { return x.dim }

// Size returns the number of stored vectors.
func (x *FlatIndex) Size() int { return len(x.vectors) }

// Normalized reports whether the stored vectors were normalized at build time.
func (x *FlatIndex) Normalized() bool { return x.normalized }

// Vector returns a copy of the stored vector at the given corpus index.
func (x *FlatIndex) Vector(corpusIndex int) ([]float64, bool) {
	if corpusIndex < 0 || corpusIndex >= len(x.vectors) {
		return nil, false
	}
	cp := make([]float64, x.dim)
	copy(cp, x.vectors[corpusIndex])
	return cp, true
}

// Search computes the inner product of the query against every stored vector
// and returns the top k matches by descending score, ties broken by ascending
// corpus index. k is clamped to the index size when larger. When normalize is
// set the query is scaled to unit norm first (the original is not modified).
func (x *FlatIndex) Search(query []float64, k int, normalize bool) ([]Match, error) {
	if len(x.vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query has %d dimensions, want %d: %w",
			len(query), x.dim, vector.ErrDimensionMismatch)
	}

	q := query
	if normalize {
		q = vector.Normalized(query)
	}

	matches := make([]Match, len(x.vectors))
	for i, v := range x.vectors {
		matches[i] = NewMatch(i, vector.Dot(q, v))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].corpusIndex < matches[j].corpusIndex
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}
