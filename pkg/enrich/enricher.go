// Package enrich turns a raw article into an enriched one: a generated summary, category and sentiment
// plus an embedding vector. Model and embedding failures are isolated from each other and never drop the article.
package enrich

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsstream/pkg/domain"
)

//go:generate moq -out mocks/annotator.go -pkg mocks -skip-ensure -fmt goimports . Annotator
//go:generate moq -out mocks/embedder.go -pkg mocks -skip-ensure -fmt goimports . Embedder

// Annotator produces summary, category and sentiment for a text
type Annotator interface {
	Annotate(ctx context.Context, text string) (domain.Annotation, error)
}

// Embedder maps text to a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Enricher runs the enrichment stage for one article at a time, safe for concurrent use
type Enricher struct {
	annotator     Annotator
	embedder      Embedder
	maxTextLength int
	now           func() time.Time
}

// Result tells what happened to one article
type Result struct {
	Article      domain.Article
	AnnotateErr  error // model call or parse failure, annotation has sentinel values
	EmbedErr     error // embedding failure, vector left empty
	EmbedSkipped bool  // embedding not attempted because annotation failed
}

// Failed reports whether the annotation degraded to sentinel values
func (r Result) Failed() bool { return r.AnnotateErr != nil }

// NewEnricher makes an enricher. Text sent to the model and the embedder is truncated to maxTextLength runes.
func NewEnricher(annotator Annotator, embedder Embedder, maxTextLength int) *Enricher {
	return &Enricher{annotator: annotator, embedder: embedder, maxTextLength: maxTextLength, now: time.Now}
}

// Enrich annotates and embeds a copy of the article. It never fails: on model failure the annotation gets
// sentinel values and no embedding is computed, on embedding failure the vector stays empty.
// Previous enrichment fields of the article are overwritten.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) Result {
	ts := e.now()
	res := Result{Article: article}
	res.Article.Embedding = nil
	res.Article.ProcessedAt = &ts

	text := Truncate(article.Text(), e.maxTextLength)
	if text == "" {
		res.AnnotateErr = errors.New("no text to enrich")
		res.EmbedSkipped = true
		res.Article.Apply(domain.FailedAnnotation())
		lgr.Printf("[WARN] no text for %s, marked as failed", article.Link)
		return res
	}

	ann, err := e.annotator.Annotate(ctx, text)
	if err != nil {
		res.AnnotateErr = err
		res.EmbedSkipped = true
		res.Article.Apply(domain.FailedAnnotation())
		lgr.Printf("[WARN] enrichment failed for %q: %v", shortTitle(article.Title), err)
		return res
	}
	res.Article.Apply(ann)

	vec, err := e.embedder.Embed(ctx, text)
	switch {
	case err != nil:
		res.EmbedErr = err
		lgr.Printf("[WARN] embedding failed for %q: %v", shortTitle(article.Title), err)
	case len(vec) == 0:
		res.EmbedErr = errors.New("empty embedding")
		lgr.Printf("[WARN] empty embedding for %q", shortTitle(article.Title))
	default:
		res.Article.Embedding = vec
	}
	return res
}

// Truncate trims text and cuts it to at most n runes, n <= 0 means no limit
func Truncate(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 || len(text) <= n { // byte length bounds rune count
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

func shortTitle(title string) string {
	if r := []rune(title); len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return title
}
