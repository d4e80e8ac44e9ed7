package main

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/newsstream/pkg/config"
	"github.com/umputun/newsstream/pkg/embed"
	"github.com/umputun/newsstream/pkg/enrich"
	"github.com/umputun/newsstream/pkg/feed"
	"github.com/umputun/newsstream/pkg/llm"
	"github.com/umputun/newsstream/pkg/pipeline"
	"github.com/umputun/newsstream/pkg/rag"
	"github.com/umputun/newsstream/pkg/repository"
)

// app holds wired components shared by all commands
type app struct {
	repos     *repository.Repositories
	provider  *embed.Provider
	retriever *rag.Retriever
	composer  *rag.Composer
	pipeline  *pipeline.Pipeline
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider := embed.NewProvider(
		embed.OpenAILoader(cfg.Embedding.Endpoint, cfg.Embedding.APIKey, cfg.Embedding.Model),
		embed.Opts{Dimension: cfg.Embedding.Dimension, Timeout: cfg.Embedding.Timeout, CacheSize: cfg.Embedding.CacheSize},
	)
	llmClient := llm.NewClient(cfg.LLM, cfg.Categories)

	limiter := feed.NewHostLimiter(cfg.Ingest.HostRateLimit)
	collector := feed.NewCollector(
		feed.NewParser(cfg.Ingest.FetchTimeout, cfg.Ingest.UserAgent, limiter),
		feed.NewHTTPExtractor(cfg.Ingest.FetchTimeout, cfg.Ingest.UserAgent, limiter, cfg.Ingest.MinTextLength),
		feed.CollectorOpts{ItemsPerFeed: cfg.Ingest.ItemsPerFeed, FullText: cfg.Ingest.FullText, FeedWorkers: cfg.Ingest.FeedWorkers},
	)

	p, err := pipeline.New(pipeline.Config{
		Collector:     collector,
		Enricher:      enrich.NewEnricher(llmClient, provider, cfg.LLM.MaxTextLength),
		Store:         repos.Article,
		Embedder:      provider,
		Groups:        cfg.FeedGroups(),
		Workers:       cfg.Ingest.Workers,
		MaxTextLength: cfg.LLM.MaxTextLength,
	})
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("make pipeline: %w", err)
	}

	retriever := rag.NewRetriever(repos.Article, provider, cfg.RAG.TopK)
	return &app{
		repos:     repos,
		provider:  provider,
		retriever: retriever,
		composer:  rag.NewComposer(retriever, llmClient, cfg.RAG.TopK, cfg.LLM.MaxContextLength),
		pipeline:  p,
	}, nil
}

// Close releases the worker pool and the database
func (a *app) Close() {
	a.pipeline.Close()
	_ = a.repos.Close()
}
