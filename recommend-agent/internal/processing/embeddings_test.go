package processing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_QueryEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "quiet keyboards", req.Prompt)
		json.NewEncoder(w).Encode(ollamaResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text", 3)
	got, err := e.QueryEmbedding(context.Background(), "quiet keyboards")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
}

func TestEmbedder_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Embedding: []float32{0.1}})
	}))
	defer srv.Close()

	_, err := NewEmbedder(srv.URL, "m", 3).EmbedChunks(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "expected embedding dim 3")
}

func TestEmbedder_EmptyInput(t *testing.T) {
	e := NewEmbedder("http://unused", "m", 3)

	_, err := e.QueryEmbedding(context.Background(), "")
	assert.Error(t, err)
	_, err = e.EmbedChunks(context.Background(), nil)
	assert.Error(t, err)
}

func TestEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewEmbedder(srv.URL, "m", 3).QueryEmbedding(context.Background(), "q")
	assert.ErrorContains(t, err, "model not loaded")
}
