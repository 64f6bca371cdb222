package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// OpenPool connects the pgx pool used for vector search and chunk inserts.
func OpenPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	return pool, nil
}

// OpenDB connects the database/sql handle used for chat sessions and messages.
func OpenDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("connected to PostgreSQL database")
	return db, nil
}

func chunksSchema(dim int) string {
	return fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS evidence_chunks (
		id BIGSERIAL PRIMARY KEY,
		namespace TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS evidence_chunks_namespace_idx ON evidence_chunks (namespace);
	`, dim)
}

const messagesSchema = `
	CREATE TABLE IF NOT EXISTS chat_session (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_message_time TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		chat_session_id BIGINT NOT NULL,
		sender VARCHAR(50) NOT NULL,
		content TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		ref TEXT[] NOT NULL DEFAULT '{}',
		tools_used TEXT[] NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS messages_session_idx ON messages (chat_session_id);
	`

// CreateTables creates the vector and message tables if they do not exist.
func CreateTables(ctx context.Context, pool *pgxpool.Pool, db *sql.DB, dim int) error {
	if _, err := pool.Exec(ctx, chunksSchema(dim)); err != nil {
		return fmt.Errorf("create evidence_chunks: %w", err)
	}
	if _, err := db.ExecContext(ctx, messagesSchema); err != nil {
		return fmt.Errorf("create messages: %w", err)
	}
	slog.Info("database tables created successfully")
	return nil
}
