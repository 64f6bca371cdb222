package graph

import (
	"context"
	"fmt"
	"sort"
)

// DefaultTopK is how many neighbours the retriever asks the index for.
const DefaultTopK = 6

// ScoredText is one nearest-neighbour hit from the vector index.
type ScoredText struct {
	Content string
	Score   float64
}

// IndexSearcher is the boundary to the vector index. An empty namespace selects
// the default partition.
type IndexSearcher interface {
	Search(ctx context.Context, query, namespace string, k int) ([]ScoredText, error)
}

// Retriever fetches the top-K evidence for a query and reranks it.
type Retriever struct {
	index IndexSearcher
	k     int
}

func NewRetriever(index IndexSearcher, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{index: index, k: k}
}

// Search returns an empty slice, not an error, when the namespace holds nothing.
func (r *Retriever) Search(ctx context.Context, query, namespace string) ([]Evidence, error) {
	hits, err := r.index.Search(ctx, query, namespace, r.k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	out := make([]Evidence, 0, len(hits))
	for _, h := range hits {
		out = append(out, Evidence{Content: h.Content, Score: h.Score, Origin: OriginVector})
	}
	return Rerank(out), nil
}

// Rerank orders evidence by score, highest first. Ties keep their input order.
func Rerank(items []Evidence) []Evidence {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}
