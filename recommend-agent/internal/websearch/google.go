package websearch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
)

// Google searches product reviews through the Programmable Search Engine API.
type Google struct {
	svc        *customsearch.Service
	engineID   string
	maxResults int64
}

func NewGoogle(ctx context.Context, apiKey, engineID string, maxResults int, opts ...option.ClientOption) (*Google, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	if maxResults <= 0 || maxResults > 10 {
		// the API serves at most 10 results per page
		maxResults = 10
	}
	return &Google{svc: svc, engineID: engineID, maxResults: int64(maxResults)}, nil
}

func (g *Google) Name() string { return "google" }

// Search looks up "<query> reviews" and returns the result snippets.
func (g *Google) Search(ctx context.Context, query string) ([]string, error) {
	res, err := g.svc.Cse.List().
		Q(query + " reviews").
		Cx(g.engineID).
		Num(g.maxResults).
		Context(ctx).
		Do()
	metrics.ExternalAPICallsTotal.WithLabelValues("google", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	out := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		text := strings.TrimSpace(item.Snippet)
		if text == "" {
			continue
		}
		if item.Title != "" {
			text = item.Title + ": " + text
		}
		out = append(out, text)
	}
	return out, nil
}
