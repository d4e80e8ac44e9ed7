package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/enrich/mocks"
)

func rawArticle() domain.Article {
	return domain.Article{
		SourceURL:     "https://www.espn.com/espn/rss/news",
		CategoryGroup: "Sports",
		Title:         "India wins cricket series",
		Link:          "https://example.com/cricket",
		Published:     "Wed, 01 May 2024 10:00:00 GMT",
		RawSummary:    "India beat Australia.",
		FullText:      "India beat Australia 3-1 to win the five-match series.",
		IngestedAt:    time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestEnricher_Enrich(t *testing.T) {
	annotator := &mocks.AnnotatorMock{AnnotateFunc: func(_ context.Context, text string) (domain.Annotation, error) {
		return domain.Annotation{Summary: "India won.", Category: "Entertainment", Sentiment: domain.SentimentPositive}, nil
	}}
	embedder := &mocks.EmbedderMock{EmbedFunc: func(context.Context, string) ([]float32, error) {
		return []float32{0.1, 0.2, 0.3}, nil
	}}
	e := NewEnricher(annotator, embedder, 6000)
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	in := rawArticle()
	res := e.Enrich(context.Background(), in)
	require.NoError(t, res.AnnotateErr)
	require.NoError(t, res.EmbedErr)
	assert.False(t, res.Failed())

	out := res.Article
	assert.Equal(t, "India won.", out.LLMSummary)
	assert.Equal(t, "Entertainment", out.Category)
	assert.Equal(t, domain.SentimentPositive, out.Sentiment)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, out.Embedding)
	require.NotNil(t, out.ProcessedAt)
	assert.Equal(t, now, *out.ProcessedAt)

	// raw fields untouched
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Link, out.Link)
	assert.Equal(t, in.FullText, out.FullText)
	assert.Nil(t, in.ProcessedAt, "input is not modified")

	// same text to both calls
	require.Len(t, annotator.AnnotateCalls(), 1)
	require.Len(t, embedder.EmbedCalls(), 1)
	assert.Equal(t, in.FullText, annotator.AnnotateCalls()[0].Text)
	assert.Equal(t, in.FullText, embedder.EmbedCalls()[0].Text)
}

func TestEnricher_AnnotateFailure(t *testing.T) {
	annotator := &mocks.AnnotatorMock{AnnotateFunc: func(context.Context, string) (domain.Annotation, error) {
		return domain.Annotation{}, errors.Join(domain.ErrGenerativeCall, errors.New("connection refused"))
	}}
	embedder := &mocks.EmbedderMock{EmbedFunc: func(context.Context, string) ([]float32, error) {
		return []float32{1}, nil
	}}
	e := NewEnricher(annotator, embedder, 6000)

	in := rawArticle()
	in.Embedding = []float32{9, 9} // stale vector from earlier pass
	res := e.Enrich(context.Background(), in)
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.AnnotateErr, domain.ErrGenerativeCall)
	assert.True(t, res.EmbedSkipped)

	out := res.Article
	assert.Equal(t, domain.SummaryFailed, out.LLMSummary)
	assert.Equal(t, domain.CategoryUnclassified, out.Category)
	assert.Equal(t, domain.SentimentNeutral, out.Sentiment)
	assert.Empty(t, out.Embedding)
	assert.NotNil(t, out.ProcessedAt)
	assert.Empty(t, embedder.EmbedCalls(), "no embedding after model failure")
}

func TestEnricher_EmbedFailure(t *testing.T) {
	annotator := &mocks.AnnotatorMock{AnnotateFunc: func(context.Context, string) (domain.Annotation, error) {
		return domain.Annotation{Summary: "s", Category: "Political", Sentiment: domain.SentimentNeutral}, nil
	}}

	tests := []struct {
		name string
		vec  []float32
		err  error
	}{
		{name: "model unavailable", err: domain.ErrModelUnavailable},
		{name: "call error", err: errors.New("timeout")},
		{name: "empty vector", vec: []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &mocks.EmbedderMock{EmbedFunc: func(context.Context, string) ([]float32, error) {
				return tt.vec, tt.err
			}}
			res := NewEnricher(annotator, embedder, 6000).Enrich(context.Background(), rawArticle())
			assert.False(t, res.Failed(), "annotation kept")
			assert.Error(t, res.EmbedErr)
			assert.Equal(t, "s", res.Article.LLMSummary)
			assert.Equal(t, "Political", res.Article.Category)
			assert.Empty(t, res.Article.Embedding)
			assert.NotNil(t, res.Article.ProcessedAt)
		})
	}
}

func TestEnricher_TextSelectionAndTruncation(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	annotator := &mocks.AnnotatorMock{AnnotateFunc: func(_ context.Context, text string) (domain.Annotation, error) {
		mu.Lock()
		seen = append(seen, text)
		mu.Unlock()
		return domain.Annotation{Summary: "s", Category: "Political", Sentiment: domain.SentimentNeutral}, nil
	}}
	embedder := &mocks.EmbedderMock{EmbedFunc: func(context.Context, string) ([]float32, error) { return []float32{1}, nil }}
	e := NewEnricher(annotator, embedder, 10)

	a := rawArticle()
	a.FullText = strings.Repeat("ж", 25)
	e.Enrich(context.Background(), a)

	a.FullText = ""
	a.RawSummary = "short summary text"
	e.Enrich(context.Background(), a)

	a.RawSummary = ""
	a.Title = "Title only"
	e.Enrich(context.Background(), a)

	assert.Equal(t, []string{strings.Repeat("ж", 10), "short summ", "Title only"}, seen)
	assert.Equal(t, strings.Repeat("ж", 10), embedder.EmbedCalls()[0].Text, "embedder gets the same truncated text")
}

func TestEnricher_NoText(t *testing.T) {
	annotator := &mocks.AnnotatorMock{AnnotateFunc: func(context.Context, string) (domain.Annotation, error) {
		t.Fatal("should not be called")
		return domain.Annotation{}, nil
	}}
	embedder := &mocks.EmbedderMock{}
	res := NewEnricher(annotator, embedder, 6000).Enrich(context.Background(), domain.Article{Link: "https://example.com/empty"})
	assert.True(t, res.Failed())
	assert.Equal(t, domain.SummaryFailed, res.Article.LLMSummary)
	assert.Equal(t, domain.CategoryUnclassified, res.Article.Category)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "hello world", n: 5, want: "hello"},
		{in: "  padded  ", n: 100, want: "padded"},
		{in: "no limit", n: 0, want: "no limit"},
		{in: "привет мир", n: 6, want: "привет"},
		{in: "日本語テキスト", n: 3, want: "日本語"},
		{in: "", n: 5, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n), tt.in)
	}
}
