package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestTavily_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tvly-key", req.APIKey)
		assert.Equal(t, "best trail shoes", req.Query)
		assert.Equal(t, "advanced", req.SearchDepth)
		assert.Equal(t, 5, req.MaxResults)

		w.Write([]byte(`{"answer":"x","results":[
			{"title":"a","url":"https://a","content":"Hoka Speedgoat grips well"},
			{"title":"b","url":"https://b","content":"   "},
			{"title":"c","url":"https://c","content":"Salomon Sense Ride is durable"}
		]}`))
	}))
	defer srv.Close()

	tv := NewTavily("tvly-key", 0)
	tv.endpoint = srv.URL

	got, err := tv.Search(context.Background(), "best trail shoes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hoka Speedgoat grips well", "Salomon Sense Ride is durable"}, got)
}

func TestTavily_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tv := NewTavily("bad", 5)
	tv.endpoint = srv.URL

	_, err := tv.Search(context.Background(), "q")
	assert.ErrorContains(t, err, "invalid api key")
}

func TestGoogle_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "standing desk reviews", q.Get("q"))
		assert.Equal(t, "cse-id", q.Get("cx"))
		assert.Equal(t, "3", q.Get("num"))
		assert.Equal(t, "g-key", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"title":"Uplift V2","snippet":"Rock solid at standing height."},
			{"title":"Empty","snippet":""},
			{"snippet":"Flexispot E7 is quiet."}
		]}`))
	}))
	defer srv.Close()

	g, err := NewGoogle(context.Background(), "g-key", "cse-id", 3, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	got, err := g.Search(context.Background(), "standing desk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Uplift V2: Rock solid at standing height.", "Flexispot E7 is quiet."}, got)
}

type countingProvider struct {
	results []string
	err     error
	calls   int
}

func (p *countingProvider) Name() string { return "fake" }

func (p *countingProvider) Search(ctx context.Context, query string) ([]string, error) {
	p.calls++
	return p.results, p.err
}

func TestCached_WithoutRedisPassesThrough(t *testing.T) {
	p := &countingProvider{results: []string{"a"}}
	c := NewCached(p, nil, 0)

	for i := 0; i < 2; i++ {
		got, err := c.Search(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)
	}
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, "fake", c.Name())
}

func TestCached_UnreachableRedisDegrades(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	p := &countingProvider{results: []string{"a", "b"}}
	got, err := NewCached(p, client, time.Minute).Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCached_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("quota")
	_, err := NewCached(&countingProvider{err: boom}, nil, 0).Search(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
}

func TestCacheKey_Normalises(t *testing.T) {
	assert.Equal(t, cacheKey("google", "Best  Headphones "), cacheKey("google", "best headphones"))
	assert.NotEqual(t, cacheKey("google", "q"), cacheKey("tavily", "q"))
}
