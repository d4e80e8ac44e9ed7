// Package embed wraps a sentence-embedding model behind a lazily loaded, process-wide provider.
//
// The model is loaded on first use. Concurrent first calls share a single load attempt; a failed
// load is not cached, so the next call tries again. Once loaded, the backend and its dimension are
// immutable and the provider is safe for concurrent use.
package embed

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/umputun/newsstream/pkg/domain"
)

// Backend computes vectors with a loaded model
type Backend interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Loader loads the model and returns a ready backend
type Loader func(ctx context.Context) (Backend, error)

// Opts defines provider parameters
type Opts struct {
	Dimension int           // expected vector size, 0 to learn it from the model on load
	Timeout   time.Duration // bound for model load and for each embedding call
	CacheSize int           // query vectors kept in LRU cache, 0 disables caching
}

// Provider maps text to dense vectors of a fixed dimension
type Provider struct {
	loader  Loader
	timeout time.Duration
	group   singleflight.Group
	cache   *lru.Cache[string, []float32]

	mu      sync.RWMutex
	backend Backend
	dim     int
}

// probeText is embedded once on load to verify the model and learn its dimension
const probeText = "model warm up"

// NewProvider makes a provider with lazy model loading. The loader is not called until the first embedding request.
func NewProvider(loader Loader, opts Opts) *Provider {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	res := &Provider{loader: loader, timeout: opts.Timeout, dim: opts.Dimension}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []float32](opts.CacheSize)
		if err != nil {
			lgr.Printf("[WARN] can't make embedding cache of size %d, %v", opts.CacheSize, err)
		} else {
			res.cache = cache
		}
	}
	return res
}

// Embed returns the vector for text. Errors wrap domain.ErrModelUnavailable if the model can't be loaded.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	backend, err := p.model(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vec, err := backend.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if err := p.check(vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedQuery is Embed with an LRU cache in front, used for user queries which tend to repeat
func (p *Provider) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	key := strings.TrimSpace(query)
	if p.cache != nil {
		if vec, ok := p.cache.Get(key); ok {
			return slices.Clone(vec), nil
		}
	}

	vec, err := p.Embed(ctx, key)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Add(key, slices.Clone(vec))
	}
	return vec, nil
}

// EmbedBatch returns vectors for texts in the same order
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	backend, err := p.model(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vecs, err := backend.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed %d texts: got %d vectors", len(texts), len(vecs))
	}
	for i, v := range vecs {
		if err := p.check(v); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return vecs, nil
}

// Dimension returns the vector size, zero if unknown because the model is not loaded yet
func (p *Provider) Dimension() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dim
}

// Ready reports whether the model is loaded
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.backend != nil
}

// Load forces model loading, allows to fail fast on startup
func (p *Provider) Load(ctx context.Context) error {
	_, err := p.model(ctx)
	return err
}

// model returns the loaded backend, loading it once for all concurrent callers
func (p *Provider) model(ctx context.Context) (Backend, error) {
	p.mu.RLock()
	backend := p.backend
	p.mu.RUnlock()
	if backend != nil {
		return backend, nil
	}

	ch := p.group.DoChan("model", func() (interface{}, error) {
		p.mu.RLock()
		loaded := p.backend
		p.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}
		return p.load()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Backend), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for embedding model: %w", ctx.Err())
	}
}

// load calls the loader and verifies the model with a probe embedding.
// It is detached from the caller's context, one canceled caller must not fail the shared load.
func (p *Provider) load() (Backend, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("%w: no loader", domain.ErrModelUnavailable)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	st := time.Now()
	lgr.Printf("[INFO] loading embedding model")
	backend, err := p.loader(ctx)
	if err != nil {
		lgr.Printf("[ERROR] failed to load embedding model: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: loader returned no backend", domain.ErrModelUnavailable)
	}

	probe, err := backend.EmbedQuery(ctx, probeText)
	if err != nil {
		lgr.Printf("[ERROR] embedding model probe failed: %v", err)
		return nil, fmt.Errorf("%w: probe: %w", domain.ErrModelUnavailable, err)
	}
	if len(probe) == 0 {
		return nil, fmt.Errorf("%w: probe returned empty vector", domain.ErrModelUnavailable)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dim != 0 && p.dim != len(probe) {
		return nil, fmt.Errorf("%w: model dimension %d, expected %d", domain.ErrModelUnavailable, len(probe), p.dim)
	}
	p.dim = len(probe)
	p.backend = backend
	lgr.Printf("[INFO] embedding model loaded in %v, dimension %d", time.Since(st).Round(time.Millisecond), p.dim)
	return backend, nil
}

// check verifies vector against the provider's dimension
func (p *Provider) check(vec []float32) error {
	if len(vec) == 0 {
		return errors.New("model returned empty vector")
	}
	if dim := p.Dimension(); len(vec) != dim {
		return fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(vec), dim)
	}
	return nil
}
