package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/processing"
)

// These tests need a Postgres with the pgvector extension available.
func testURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

type constEmbedder []float32

func (c constEmbedder) QueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return c, nil
}

func setup(t *testing.T) (*VectorIndex, *MessageStore) {
	t.Helper()
	ctx := context.Background()
	url := testURL(t)

	pool, err := OpenPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	db, err := OpenDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CreateTables(ctx, pool, db, 3))
	_, err = pool.Exec(ctx, "TRUNCATE evidence_chunks, messages, chat_session")
	require.NoError(t, err)

	return NewVectorIndex(pool, constEmbedder{1, 0, 0}), NewMessageStore(db)
}

func TestVectorIndex_SearchScopedByNamespace(t *testing.T) {
	idx, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, idx.InsertChunks(ctx,
		processing.Metadata{Namespace: "headphones", Source: "local", Path: "a.txt"},
		[]string{"close", "far"},
		[][]float32{{1, 0, 0}, {0, 1, 0}}))
	require.NoError(t, idx.InsertChunks(ctx,
		processing.Metadata{Namespace: "", Source: "local", Path: "b.txt"},
		[]string{"default"},
		[][]float32{{1, 0, 0}}))

	hits, err := idx.Search(ctx, "q", "headphones", 6)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "close", hits[0].Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Greater(t, hits[0].Score, hits[1].Score)

	hits, err = idx.Search(ctx, "q", "", 6)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "default", hits[0].Content)

	hits, err = idx.Search(ctx, "q", "laptops", 6)
	require.NoError(t, err)
	assert.Empty(t, hits)

	ns, err := idx.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"headphones"}, ns)
}

func TestMessageStore_RoundTrip(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()

	cs, err := store.CreateSession(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", cs.Title)

	require.NoError(t, store.RecordMessage(ctx, graph.Message{
		Content: "quiet keyboard", SessionID: cs.ID, Sender: graph.SenderUser,
		ToolsUsed: []string{graph.ToolVectorSearch},
	}))
	require.NoError(t, store.RecordMessage(ctx, graph.Message{
		Content: "{}", SessionID: cs.ID, Sender: graph.SenderSystem,
		References: []string{"r1", "r2"}, ToolsUsed: []string{graph.ToolVectorSearch, graph.ToolWebSearch},
	}))
	require.NoError(t, store.UpdateSessionTitle(ctx, cs.ID, "quiet keyboard"))

	msgs, err := store.MessagesBySession(ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Sender)
	assert.Empty(t, msgs[0].References)
	assert.Equal(t, []string{"r1", "r2"}, msgs[1].References)
	assert.Equal(t, []string{"vector_search", "web_search"}, msgs[1].ToolsUsed)

	sessions, err := store.SessionsByUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "quiet keyboard", sessions[0].Title)

	assert.ErrorIs(t, store.UpdateSessionTitle(ctx, cs.ID+1000, "x"), ErrSessionNotFound)
}
