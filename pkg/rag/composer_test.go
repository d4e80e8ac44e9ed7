package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/rag/mocks"
)

func scored(title, published, summary string, score float64) domain.ScoredArticle {
	return domain.ScoredArticle{
		Article: &domain.Article{Title: title, Published: published, LLMSummary: summary},
		Score:   score,
	}
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "2024-05-01", ExtractDate("what happened on 2024-05-01 in sports?"))
	assert.Equal(t, "2024-05-01", ExtractDate("2024-05-01 or 2024-05-02"))
	assert.Equal(t, "", ExtractDate("latest sports news"))
	assert.Equal(t, "", ExtractDate("on 01-05-2024"))
}

func TestComposer_Answer(t *testing.T) {
	searcher := &mocks.SearcherMock{RetrieveFunc: func(context.Context, string, int, string) ([]domain.ScoredArticle, error) {
		return []domain.ScoredArticle{
			scored("India wins cricket series", "2024-05-01", "India beat Australia 3-1.", 0.91),
			scored("Football final tonight", "2024-05-01", "The final kicks off at 8pm.", 0.72),
		}, nil
	}}
	gen := &mocks.GeneratorMock{AnswerFunc: func(context.Context, string, string) (string, error) {
		return "India won the series (India wins cricket series).", nil
	}}

	c := NewComposer(searcher, gen, 5, 12000)
	res := c.Answer(context.Background(), "latest sports news")
	assert.Equal(t, "India won the series (India wins cricket series).", res.Text)
	assert.Empty(t, res.Date)
	assert.Len(t, res.Sources, 2)

	require.Len(t, searcher.RetrieveCalls(), 1)
	assert.Equal(t, "latest sports news", searcher.RetrieveCalls()[0].Query)
	assert.Equal(t, 5, searcher.RetrieveCalls()[0].TopK)
	assert.Empty(t, searcher.RetrieveCalls()[0].DateFilter)

	require.Len(t, gen.AnswerCalls(), 1)
	assert.Equal(t, "latest sports news", gen.AnswerCalls()[0].Question)
	assert.Equal(t, "Source: India wins cricket series\nDate: 2024-05-01\nSummary: India beat Australia 3-1.\n\n"+
		"Source: Football final tonight\nDate: 2024-05-01\nSummary: The final kicks off at 8pm.", gen.AnswerCalls()[0].NewsContext)
}

func TestComposer_DateFilter(t *testing.T) {
	searcher := &mocks.SearcherMock{RetrieveFunc: func(context.Context, string, int, string) ([]domain.ScoredArticle, error) {
		return []domain.ScoredArticle{scored("t", "2024-05-01", "s", 0.5)}, nil
	}}
	gen := &mocks.GeneratorMock{AnswerFunc: func(context.Context, string, string) (string, error) { return "ok", nil }}

	res := NewComposer(searcher, gen, 3, 0).Answer(context.Background(), "news from 2024-05-01 please")
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, "2024-05-01", res.Date)
	assert.Equal(t, "2024-05-01", searcher.RetrieveCalls()[0].DateFilter)
	assert.Equal(t, 3, searcher.RetrieveCalls()[0].TopK)
}

func TestComposer_NoResults(t *testing.T) {
	searcher := &mocks.SearcherMock{RetrieveFunc: func(context.Context, string, int, string) ([]domain.ScoredArticle, error) {
		return []domain.ScoredArticle{}, nil
	}}
	gen := &mocks.GeneratorMock{}
	c := NewComposer(searcher, gen, 5, 0)

	res := c.Answer(context.Background(), "what happened on 2024-05-01?")
	assert.Equal(t, "No news found specifically for the date 2024-05-01 matching your query.", res.Text)
	assert.NotNil(t, res.Sources)

	res = c.Answer(context.Background(), "anything about mars?")
	assert.Equal(t, "No relevant news found to answer your query.", res.Text)
	assert.Empty(t, gen.AnswerCalls(), "no model call without context")
}

func TestComposer_Errors(t *testing.T) {
	t.Run("retrieval failure", func(t *testing.T) {
		searcher := &mocks.SearcherMock{RetrieveFunc: func(context.Context, string, int, string) ([]domain.ScoredArticle, error) {
			return nil, fmt.Errorf("load candidates: %w", domain.ErrStoreUnavailable)
		}}
		res := NewComposer(searcher, &mocks.GeneratorMock{}, 5, 0).Answer(context.Background(), "q")
		assert.True(t, strings.HasPrefix(res.Text, "Error: "), res.Text)
		assert.Contains(t, res.Text, "store unavailable")
	})

	t.Run("generator failure", func(t *testing.T) {
		searcher := &mocks.SearcherMock{RetrieveFunc: func(context.Context, string, int, string) ([]domain.ScoredArticle, error) {
			return []domain.ScoredArticle{scored("t", "d", "s", 0.5)}, nil
		}}
		gen := &mocks.GeneratorMock{AnswerFunc: func(context.Context, string, string) (string, error) {
			return "", errors.New("rate limited")
		}}
		res := NewComposer(searcher, gen, 5, 0).Answer(context.Background(), "q")
		assert.Equal(t, "Error: rate limited", res.Text)
		assert.Len(t, res.Sources, 1)
	})
}

func TestComposer_ContextBound(t *testing.T) {
	docs := []domain.ScoredArticle{
		scored("first", "d1", strings.Repeat("a", 50), 0.9),
		scored("second", "d2", strings.Repeat("b", 50), 0.8),
	}

	c := NewComposer(nil, nil, 5, 100)
	block := c.contextBlock(docs)
	assert.LessOrEqual(t, len([]rune(block)), 100)
	assert.Contains(t, block, "Source: first")
	assert.NotContains(t, block, "Source: second")

	c = NewComposer(nil, nil, 5, 20)
	block = c.contextBlock(docs)
	assert.Equal(t, "Source: first\nDate: ", block, "single oversized entry is cut")

	c = NewComposer(nil, nil, 5, 0)
	block = c.contextBlock(docs)
	assert.Contains(t, block, "Source: second")

	// counts runes, not bytes, across many entries
	many := make([]domain.ScoredArticle, 200)
	for i := range many {
		many[i] = scored(fmt.Sprintf("заголовок %d", i), "2024-05-01", strings.Repeat("ж", 30), 0.5)
	}
	c = NewComposer(nil, nil, 200, 1000)
	block = c.contextBlock(many)
	assert.LessOrEqual(t, utf8.RuneCountInString(block), 1000)
	assert.Greater(t, utf8.RuneCountInString(block), 900, "fills the budget")
	assert.Greater(t, len(block), 1000, "multibyte text exceeds the bound in bytes")
	assert.True(t, strings.HasSuffix(block, strings.Repeat("ж", 30)), "only whole entries")
}
