package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/config"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/llm"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/processing"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/storage"
	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/websearch"
)

// deps holds every long-lived connection a command needs.
type deps struct {
	pool     *pgxpool.Pool
	db       *sql.DB
	redis    *redis.Client
	embedder *processing.Embedder
	index    *storage.VectorIndex
	messages *storage.MessageStore
}

func openDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	pool, err := storage.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("DB init: %w", err)
	}
	db, err := storage.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("DB init: %w", err)
	}
	if err := storage.CreateTables(ctx, pool, db, cfg.EmbeddingDim); err != nil {
		pool.Close()
		db.Close()
		return nil, err
	}

	embedder := processing.NewEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, cfg.EmbeddingDim)
	return &deps{
		pool:     pool,
		db:       db,
		embedder: embedder,
		index:    storage.NewVectorIndex(pool, embedder),
		messages: storage.NewMessageStore(db),
	}, nil
}

func (d *deps) Close() {
	if d.redis != nil {
		d.redis.Close()
	}
	d.db.Close()
	d.pool.Close()
}

func initRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("failed to connect to redis, web search will work without caching", slog.Any("err", err))
	} else {
		slog.Info("connected to redis cache", slog.String("addr", cfg.RedisURL))
	}
	return client
}

func newSearchProvider(ctx context.Context, cfg *config.Config) (websearch.Provider, error) {
	switch cfg.SearchProvider {
	case "google":
		return websearch.NewGoogle(ctx, cfg.GoogleAPIKey, cfg.GoogleCSEID, cfg.SearchMaxResults)
	default:
		return websearch.NewTavily(cfg.TavilyAPIKey, cfg.SearchMaxResults), nil
	}
}

// newEngine wires the workflow. A nil recorder disables message recording.
func newEngine(ctx context.Context, cfg *config.Config, d *deps, recorder graph.Recorder) (*graph.Engine, error) {
	provider, err := newSearchProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("web search provider: %w", err)
	}
	d.redis = initRedis(ctx, cfg)

	client := llm.NewClient(ctx, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ChatModel, cfg.LLMTemperature)
	t := cfg.StepTimeout

	return graph.New(graph.Ports{
		Index:     d.index,
		Grader:    llm.NewGrader(client),
		WebSearch: websearch.NewCached(provider, d.redis, cfg.CacheTTL),
		Generator: llm.NewRecommender(client),
		Recorder:  recorder,
	}, graph.Options{
		TopK:             cfg.TopK,
		GradeConcurrency: cfg.GradeConcurrency,
		Timeouts:         graph.Timeouts{Retrieve: t, Grade: t, WebSearch: t, Generate: t},
		Logger:           logger,
	}), nil
}
