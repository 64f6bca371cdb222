package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/processing"
)

// QueryEmbedder turns a query into a vector.
type QueryEmbedder interface {
	QueryEmbedding(ctx context.Context, query string) ([]float32, error)
}

// VectorIndex is the pgvector-backed evidence index. Rows are partitioned by
// namespace; the empty namespace is the default partition.
type VectorIndex struct {
	pool     *pgxpool.Pool
	embedder QueryEmbedder
}

func NewVectorIndex(pool *pgxpool.Pool, embedder QueryEmbedder) *VectorIndex {
	return &VectorIndex{pool: pool, embedder: embedder}
}

// InsertChunks adds chunks and their embeddings in one batch.
func (v *VectorIndex) InsertChunks(ctx context.Context, meta processing.Metadata, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	batch := &pgx.Batch{}
	for i := range chunks {
		batch.Queue(
			"INSERT INTO evidence_chunks (namespace, source, path, title, content, embedding, imported_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			meta.Namespace, meta.Source, meta.Path, meta.Title, chunks[i], pgvector.NewVector(embeddings[i]), meta.ImportedAt)
	}

	br := v.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range chunks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", i, meta.Path, err)
		}
	}
	return nil
}

// Search returns the k chunks closest to query by cosine similarity. Score is
// 1 - cosine distance, so higher is better.
func (v *VectorIndex) Search(ctx context.Context, query, namespace string, k int) ([]graph.ScoredText, error) {
	emb, err := v.embedder.QueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := v.pool.Query(ctx,
		`SELECT content, 1 - (embedding <=> $1) AS score
		FROM evidence_chunks
		WHERE namespace = $2
		ORDER BY embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(emb), namespace, k)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	results := []graph.ScoredText{}
	for rows.Next() {
		var hit graph.ScoredText
		if err := rows.Scan(&hit.Content, &hit.Score); err != nil {
			return nil, err
		}
		results = append(results, hit)
	}
	return results, rows.Err()
}

// Namespaces lists partitions that hold at least one chunk.
func (v *VectorIndex) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := v.pool.Query(ctx, "SELECT DISTINCT namespace FROM evidence_chunks WHERE namespace <> '' ORDER BY namespace")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
