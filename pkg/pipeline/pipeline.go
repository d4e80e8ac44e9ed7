// Package pipeline sequences ingestion, enrichment and storage of articles and runs the embedding repair pass.
//
// Enrichment of a batch runs on a bounded worker pool, each article is an independent unit of work and its
// failure stays local to it. Store writes happen after the whole batch is enriched, in input order.
// Only one run (ingest, process or repair) is active at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/panjf2000/ants/v2"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/enrich"
)

//go:generate moq -out mocks/collector.go -pkg mocks -skip-ensure -fmt goimports . Collector
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/embedder.go -pkg mocks -skip-ensure -fmt goimports . Embedder

// repairBatch is the number of texts embedded in one call by the repair pass
const repairBatch = 5

// ErrBusy is returned when another run is in progress
var ErrBusy = errors.New("pipeline run in progress")

// Collector produces raw articles from feed groups
type Collector interface {
	Collect(ctx context.Context, groups []domain.FeedGroup) ([]domain.Article, error)
}

// Enricher annotates and embeds one article
type Enricher interface {
	Enrich(ctx context.Context, article domain.Article) enrich.Result
}

// Store is the write side of the corpus store
type Store interface {
	Upsert(ctx context.Context, article domain.Article) error
	FindMissingEmbeddings(ctx context.Context) ([]domain.Article, error)
	UpdateEmbedding(ctx context.Context, link string, embedding []float32) error
}

// Embedder maps text to a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds pipeline dependencies and parameters
type Config struct {
	Collector     Collector
	Enricher      Enricher
	Store         Store
	Embedder      Embedder
	Groups        []domain.FeedGroup
	Workers       int // enrichment pool size, 1 for sequential processing
	MaxTextLength int // repair text is truncated the same way enrichment text is
}

// Pipeline is the orchestrator
type Pipeline struct {
	collector     Collector
	enricher      Enricher
	store         Store
	embedder      Embedder
	groups        []domain.FeedGroup
	maxTextLength int

	pool  *ants.Pool
	runMu sync.Mutex
}

// New makes a pipeline with its worker pool, call Close to release it
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("make worker pool: %w", err)
	}
	return &Pipeline{
		collector:     cfg.Collector,
		enricher:      cfg.Enricher,
		store:         cfg.Store,
		embedder:      cfg.Embedder,
		groups:        cfg.Groups,
		maxTextLength: cfg.MaxTextLength,
		pool:          pool,
	}, nil
}

// Close releases the worker pool
func (p *Pipeline) Close() {
	p.pool.Release()
}

// Ingest collects raw articles from all configured feeds and processes them
func (p *Pipeline) Ingest(ctx context.Context) (BatchStats, error) {
	if !p.runMu.TryLock() {
		return BatchStats{}, ErrBusy
	}
	defer p.runMu.Unlock()

	st := time.Now()
	articles, err := p.collector.Collect(ctx, p.groups)
	if err != nil {
		return BatchStats{}, fmt.Errorf("collect: %w", err)
	}
	fetchDuration := time.Since(st)

	stats, err := p.process(ctx, articles)
	stats.FetchDuration = fetchDuration
	stats.TotalDuration = time.Since(st)
	return stats, err
}

// Process enriches raw articles and upserts every enriched record.
// Enrichment failures never abort the batch, store failures are counted and the first one is returned.
func (p *Pipeline) Process(ctx context.Context, articles []domain.Article) (BatchStats, error) {
	if !p.runMu.TryLock() {
		return BatchStats{}, ErrBusy
	}
	defer p.runMu.Unlock()

	st := time.Now()
	stats, err := p.process(ctx, articles)
	stats.TotalDuration = time.Since(st)
	return stats, err
}

func (p *Pipeline) process(ctx context.Context, articles []domain.Article) (BatchStats, error) {
	stats := BatchStats{Fetched: len(articles)}
	if len(articles) == 0 {
		return stats, nil
	}

	st := time.Now()
	results, err := p.enrichAll(ctx, articles)
	stats.EnrichDuration = time.Since(st)
	if err != nil {
		return stats, err
	}

	for _, r := range results {
		switch {
		case r.Failed():
			stats.Failed++
		default:
			stats.Enriched++
		}
		if r.Article.Embedded() {
			stats.Embedded++
		}
		if errors.Is(r.EmbedErr, domain.ErrModelUnavailable) {
			stats.ModelUnavailable = true
		}
	}

	st = time.Now()
	var firstErr error
	for _, r := range results {
		if err := p.store.Upsert(ctx, r.Article); err != nil {
			stats.StoreErrors++
			lgr.Printf("[WARN] failed to store %s: %v", r.Article.Link, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stats.Stored++
	}
	stats.StoreDuration = time.Since(st)

	lgr.Printf("[INFO] batch done, %s", stats)
	if firstErr != nil {
		return stats, fmt.Errorf("%d of %d writes failed: %w", stats.StoreErrors, len(results), firstErr)
	}
	return stats, nil
}

// enrichAll runs enrichment on the pool and returns results in input order
func (p *Pipeline) enrichAll(ctx context.Context, articles []domain.Article) ([]enrich.Result, error) {
	results := make([]enrich.Result, len(articles))
	var wg sync.WaitGroup
	for i := range articles {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("enrich canceled: %w", err)
		}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.enricher.Enrich(ctx, articles[i])
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit enrichment of %s: %w", articles[i].Link, err)
		}
	}
	wg.Wait()
	return results, nil
}

// Repair computes embeddings for stored articles missing one. Only the embedding field is written.
// Model load and store failures abort the pass, other embedding failures are counted and skipped.
func (p *Pipeline) Repair(ctx context.Context) (stats RepairStats, err error) {
	if !p.runMu.TryLock() {
		return RepairStats{}, ErrBusy
	}
	defer p.runMu.Unlock()

	st := time.Now()
	defer func() { stats.Duration = time.Since(st) }()

	missing, err := p.store.FindMissingEmbeddings(ctx)
	if err != nil {
		return stats, fmt.Errorf("find missing embeddings: %w", err)
	}
	stats.Missing = len(missing)
	if len(missing) == 0 {
		lgr.Printf("[INFO] no articles missing embeddings")
		return stats, nil
	}
	lgr.Printf("[INFO] repairing embeddings for %d articles", len(missing))

	links, texts := make([]string, 0, len(missing)), make([]string, 0, len(missing))
	for _, a := range missing {
		text := enrich.Truncate(a.Text(), p.maxTextLength)
		if text == "" {
			stats.Skipped++
			continue
		}
		links, texts = append(links, a.Link), append(texts, text)
	}

	for i := 0; i < len(texts); i += repairBatch {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("repair canceled: %w", err)
		}
		j := min(i+repairBatch, len(texts))
		if i > 0 {
			lgr.Printf("[INFO] repair progress %d/%d", i, len(texts))
		}

		vecs, err := p.embedChunk(ctx, links[i:j], texts[i:j])
		if err != nil {
			return stats, err
		}
		for k, vec := range vecs {
			if len(vec) == 0 {
				stats.Failed++
				continue
			}
			if err := p.store.UpdateEmbedding(ctx, links[i+k], vec); err != nil {
				if errors.Is(err, domain.ErrNotFound) { // removed since listed
					stats.Failed++
					continue
				}
				return stats, fmt.Errorf("update embedding: %w", err)
			}
			stats.Repaired++
		}
	}

	lgr.Printf("[INFO] repair done, %s", stats)
	return stats, nil
}

// embedChunk embeds texts in one batch call. If the batch fails for a reason other than the model,
// each text is embedded on its own and a failed one gets an empty vector.
func (p *Pipeline) embedChunk(ctx context.Context, links, texts []string) ([][]float32, error) {
	vecs, err := p.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vecs) == len(texts) {
		return vecs, nil
	}
	if errors.Is(err, domain.ErrModelUnavailable) {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	lgr.Printf("[DEBUG] batch embedding of %d texts failed, fallback to one by one: %v", len(texts), err)

	vecs = make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.embedder.Embed(ctx, text)
		if err != nil {
			if errors.Is(err, domain.ErrModelUnavailable) {
				return nil, fmt.Errorf("embed %s: %w", links[i], err)
			}
			lgr.Printf("[WARN] failed to embed %s: %v", links[i], err)
			continue
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Run ingests on start and then every interval until ctx is done. Zero interval runs once.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) {
	p.runOnce(ctx)
	if interval <= 0 {
		return
	}

	lgr.Printf("[INFO] periodic ingestion every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] periodic ingestion stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Pipeline) runOnce(ctx context.Context) {
	stats, err := p.Ingest(ctx)
	switch {
	case errors.Is(err, ErrBusy):
		lgr.Printf("[INFO] skip scheduled ingestion, another run in progress")
	case err != nil && ctx.Err() == nil:
		lgr.Printf("[ERROR] ingestion failed: %v", err)
	case err == nil:
		lgr.Printf("[DEBUG] scheduled ingestion stored %d of %d", stats.Stored, stats.Fetched)
	}
}
