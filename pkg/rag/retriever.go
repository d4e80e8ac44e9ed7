// Package rag implements retrieval over the stored corpus and answer composition on top of it.
package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsstream/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/query_embedder.go -pkg mocks -skip-ensure -fmt goimports . QueryEmbedder

// DefaultTopK is used when top-k is not set or not positive
const DefaultTopK = 5

// Store reads candidate articles
type Store interface {
	FindByFilter(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)
}

// QueryEmbedder maps a query to a vector
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Retriever ranks stored articles by cosine similarity to a query.
// It scans every embedded candidate, safe for concurrent use.
type Retriever struct {
	store    Store
	embedder QueryEmbedder
	topK     int
}

// NewRetriever makes a retriever with default top-k
func NewRetriever(store Store, embedder QueryEmbedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

// Retrieve returns up to topK articles most similar to the query, best first, ties kept in store order.
// Non-empty dateFilter restricts candidates to articles with the literal, case-insensitive substring in published.
// A failed or empty query embedding gives no results. Only model load and store failures are returned as errors.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, dateFilter string) ([]domain.ScoredArticle, error) {
	if topK <= 0 {
		topK = r.topK
	}

	qvec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		lgr.Printf("[WARN] can't embed query %q: %v", query, err)
		return []domain.ScoredArticle{}, nil
	}
	if len(qvec) == 0 {
		return []domain.ScoredArticle{}, nil
	}

	candidates, err := r.store.FindByFilter(ctx, domain.ArticleFilter{HasEmbedding: true, Published: strings.TrimSpace(dateFilter)})
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	scored := make([]domain.ScoredArticle, 0, len(candidates))
	var skipped int
	for i := range candidates {
		score, err := CosineSimilarity(qvec, candidates[i].Embedding)
		if err != nil {
			skipped++
			lgr.Printf("[DEBUG] skip %s: %v", candidates[i].Link, err)
			continue
		}
		scored = append(scored, domain.ScoredArticle{Article: &candidates[i], Score: score})
	}
	if skipped > 0 {
		lgr.Printf("[WARN] skipped %d of %d candidates on scoring", skipped, len(candidates))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	lgr.Printf("[DEBUG] retrieved %d of %d candidates for %q, date filter %q", len(scored), len(candidates), query, dateFilter)
	return scored, nil
}

// CosineSimilarity returns dot(a, b) / (|a| * |b|), accumulated in float64.
// Vectors of different length or with zero norm can't be compared.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.New("empty vector")
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, errors.New("zero norm vector")
	}
	res := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(res) {
		return 0, errors.New("similarity is not a number")
	}
	return res, nil
}
