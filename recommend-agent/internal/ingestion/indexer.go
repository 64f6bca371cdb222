package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/processing"
)

// ChunkEmbedder embeds a batch of chunks.
type ChunkEmbedder interface {
	EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error)
}

// ChunkWriter stores embedded chunks.
type ChunkWriter interface {
	InsertChunks(ctx context.Context, meta processing.Metadata, chunks []string, embeddings [][]float32) error
}

// Stats summarises one indexing run.
type Stats struct {
	Files   int
	Skipped int
	Chunks  int
}

// Indexer loads local files into a namespace of the vector index.
type Indexer struct {
	embedder ChunkEmbedder
	writer   ChunkWriter
	extract  func(ctx context.Context, path string) (string, error)
	now      func() time.Time
}

func NewIndexer(embedder ChunkEmbedder, writer ChunkWriter) *Indexer {
	return &Indexer{embedder: embedder, writer: writer, extract: ExtractText, now: time.Now}
}

// IndexDir indexes every supported file under root. Files that fail to extract
// or embed are skipped and logged; a failed insert aborts the run.
func (ix *Indexer) IndexDir(ctx context.Context, root, namespace string) (Stats, error) {
	var st Stats
	files, err := FindFiles(root)
	if err != nil {
		return st, fmt.Errorf("load files: %w", err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		log := slog.With(slog.String("file", f), slog.String("namespace", namespace))

		text, err := ix.extract(ctx, f)
		if err != nil {
			log.Warn("skip file", slog.Any("err", err))
			st.Skipped++
			continue
		}
		chunks := processing.ChunkText(text, processing.DefaultChunkSize, processing.DefaultChunkOverlap)
		if len(chunks) == 0 {
			log.Info("skip empty file")
			st.Skipped++
			continue
		}
		embs, err := ix.embedder.EmbedChunks(ctx, chunks)
		if err != nil {
			log.Warn("embed error", slog.Any("err", err))
			st.Skipped++
			continue
		}

		meta := processing.Metadata{
			Path:       f,
			Source:     "local",
			Namespace:  namespace,
			ImportedAt: ix.now(),
			Title:      strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)),
		}
		if err := ix.writer.InsertChunks(ctx, meta, chunks, embs); err != nil {
			return st, err
		}
		st.Files++
		st.Chunks += len(chunks)
		log.Info("indexed", slog.Int("chunks", len(chunks)))
	}
	return st, nil
}
