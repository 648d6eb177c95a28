// Package vector provides embedding vector operations shared by the
// index, the retriever, and the offline build tooling.
package vector

import (
	"errors"
	"math"
)

// ErrDimensionMismatch indicates two vectors (or a vector and a configured
// dimension) do not agree on length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Dot returns the inner product of a and b.
// Returns 0 if the lengths differ or the vectors are empty.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize scales v in place to unit L2 norm.
// A zero vector is left untouched.
func Normalize(v []float64) {
	norm := Norm(v)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// Normalized returns a unit-norm copy of v.
func Normalized(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	Normalize(out)
	return out
}

// Fuse combines a text vector and an image vector into a single query
// vector using a convex combination followed by L2 renormalization:
//
//	fused = textWeight*text + (1-textWeight)*image
//
// Both inputs must share the same length. The result has unit norm unless
// the weighted sum is the zero vector.
func Fuse(text, image []float64, textWeight float64) ([]float64, error) {
	if len(text) != len(image) || len(text) == 0 {
		return nil, ErrDimensionMismatch
	}
	fused := make([]float64, len(text))
	imageWeight := 1 - textWeight
	for i := range text {
		fused[i] = textWeight*text[i] + imageWeight*image[i]
	}
	Normalize(fused)
	return fused, nil
}
