package search

import (
	"fmt"

	"github.com/visearch/visearch/domain/catalog"
	"github.com/visearch/visearch/domain/retrieval"
	"github.com/visearch/visearch/domain/vector"
	"github.com/visearch/visearch/internal/log"
)

// Retriever answers ranked similarity queries by searching the flat index
// and joining each hit against the metadata catalog. It is read-only after
// construction and safe for concurrent use.
type Retriever struct {
	index   *FlatIndex
	catalog catalog.Catalog
	logger  *log.Logger
}

// NewRetriever creates a Retriever over a built index and its catalog.
// The catalog must have exactly one record per index vector; a count
// mismatch means the two artifacts were not built together and is fatal.
func NewRetriever(index *FlatIndex, cat catalog.Catalog, logger *log.Logger) (*Retriever, error) {
	if err := cat.ValidateAlignment(index.Size()); err != nil {
		return nil, err
	}
	return &Retriever{index: index, catalog: cat, logger: logger}, nil
}

// SearchByVector returns the top k catalog entries most similar to the query
// vector, ranked from 1. Hits whose corpus index falls outside the catalog
// are logged and skipped rather than failing the search; they indicate an
// index/catalog version mismatch.
func (r *Retriever) SearchByVector(query []float64, k int) ([]retrieval.Result, error) {
	matches, err := r.index.Search(query, k, true)
	if err != nil {
		return nil, err
	}

	results := make([]retrieval.Result, 0, len(matches))
	for _, m := range matches {
		rec, ok := r.catalog.Record(m.CorpusIndex())
		if !ok {
			r.logger.Warn("search hit outside catalog bounds, skipping",
				"corpus_index", m.CorpusIndex(),
				"catalog_size", r.catalog.Len(),
			)
			continue
		}
		results = append(results, retrieval.NewResult(
			len(results)+1,
			m.CorpusIndex(),
			rec.ItemID(),
			rec.DisplayName(),
			m.Score(),
			rec.Labels(),
			rec.AssetPath(),
		))
	}
	return results, nil
}

// SearchMultimodal searches with a text vector, an image vector, or both.
// With both present the query is the convex combination
// textWeight*text + (1-textWeight)*image renormalized to unit length; weights
// of exactly 0 or 1 still take the fusion path so an unnormalized input
// cannot skew scores. With exactly one vector present textWeight is ignored.
func (r *Retriever) SearchMultimodal(textVec, imageVec []float64, textWeight float64, k int) ([]retrieval.Result, error) {
	if textVec == nil && imageVec == nil {
		return nil, fmt.Errorf("%w: multimodal search requires a text vector, an image vector, or both", ErrInvalidArgument)
	}
	if textWeight < 0 || textWeight > 1 {
		return nil, fmt.Errorf("%w: text weight %v outside [0,1]", ErrInvalidArgument, textWeight)
	}

	switch {
	case imageVec == nil:
		return r.SearchByVector(textVec, k)
	case textVec == nil:
		return r.SearchByVector(imageVec, k)
	}

	fused, err := vector.Fuse(textVec, imageVec, textWeight)
	if err != nil {
		return nil, err
	}
	return r.SearchByVector(fused, k)
}

// Catalog returns the metadata catalog the retriever joins against.
func (r *Retriever) Catalog() catalog.Catalog { return r.catalog }

// IndexSize returns the number of vectors in the underlying index.
func (r *Retriever) IndexSize() int { return r.index.Size() }
