package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
)

const tavilyURL = "https://api.tavily.com/search"

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Tavily searches the web through the Tavily search API.
type Tavily struct {
	apiKey     string
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewTavily(apiKey string, maxResults int) *Tavily {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Tavily{
		apiKey:     apiKey,
		endpoint:   tavilyURL,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 20 * time.Second},
	}
}

func (t *Tavily) Name() string { return "tavily" }

// Search returns the content of each result in ranking order.
func (t *Tavily) Search(ctx context.Context, query string) (results []string, err error) {
	defer func() {
		metrics.ExternalAPICallsTotal.WithLabelValues("tavily", metrics.Status(err)).Inc()
	}()

	body, err := json.Marshal(tavilyRequest{
		APIKey:        t.apiKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    t.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decoding tavily response: %w", err)
	}

	results = make([]string, 0, len(tr.Results))
	for _, r := range tr.Results {
		if c := strings.TrimSpace(r.Content); c != "" {
			results = append(results, c)
		}
	}
	return results, nil
}
