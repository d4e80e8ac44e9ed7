package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/enrich"
	enrichmocks "github.com/umputun/newsstream/pkg/enrich/mocks"
	"github.com/umputun/newsstream/pkg/repository"
)

func TestPipeline_ReprocessKeepsEmbedding(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	stored := domain.Article{Title: "cricket final", Link: "https://example.com/a", RawSummary: "match report",
		LLMSummary: "good summary", Category: "Sports", Sentiment: domain.SentimentPositive, Embedding: []float32{0.5, 0.5}}
	require.NoError(t, repos.Article.Upsert(ctx, stored))

	annotator := &enrichmocks.AnnotatorMock{AnnotateFunc: func(context.Context, string) (domain.Annotation, error) {
		return domain.Annotation{}, errors.New("model timeout")
	}}
	embedder := &enrichmocks.EmbedderMock{}
	p := newPipeline(t, Config{Enricher: enrich.NewEnricher(annotator, embedder, 100), Store: repos.Article})

	stats, err := p.Process(ctx, []domain.Article{{Title: "cricket final", Link: stored.Link, RawSummary: "match report"}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Stored)
	assert.Empty(t, embedder.EmbedCalls())

	got, err := repos.Article.GetByLink(ctx, stored.Link)
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryFailed, got.LLMSummary, "failed pass overwrites annotation")
	assert.Equal(t, []float32{0.5, 0.5}, got.Embedding, "failed pass keeps the stored vector")

	res, err := repos.Article.FindByFilter(ctx, domain.ArticleFilter{HasEmbedding: true})
	require.NoError(t, err)
	assert.Len(t, res, 1, "article stays retrievable")
}
