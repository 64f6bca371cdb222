package graph

import (
	"context"
	"fmt"
)

// WebSearcher is the boundary to the live search tool. It returns snippet
// texts in result order.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// WebSearch is the fallback used when vector evidence was graded insufficient.
type WebSearch struct {
	searcher WebSearcher
}

func NewWebSearch(searcher WebSearcher) *WebSearch {
	return &WebSearch{searcher: searcher}
}

// Search returns an empty slice when nothing was found.
func (w *WebSearch) Search(ctx context.Context, query string) ([]Evidence, error) {
	snippets, err := w.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebSearchUnavailable, err)
	}
	out := make([]Evidence, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, Evidence{Content: s, Origin: OriginWeb})
	}
	return out, nil
}
