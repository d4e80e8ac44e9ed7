package feed

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	generator := NewGenerator("https://example.com/")

	articles := []domain.Article{
		{Title: "India wins cricket series", Link: "https://example.com/a1", Published: "2024-05-01",
			RawSummary: "raw", LLMSummary: "India beat Australia.", Category: "Entertainment",
			CategoryGroup: "Sports", Sentiment: domain.SentimentPositive},
		{Title: "Failed one", Link: "https://example.com/a2", RawSummary: "feed summary & more",
			LLMSummary: domain.SummaryFailed, Category: domain.CategoryUnclassified, Sentiment: domain.SentimentNeutral},
	}

	t.Run("all categories", func(t *testing.T) {
		rss, err := generator.GenerateRSS(articles, "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rss, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, rss, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
		assert.Contains(t, rss, `<title>Newsstream - All Categories</title>`)
		assert.Contains(t, rss, `href="https://example.com/rss"`)

		var parsed RSS
		require.NoError(t, xml.Unmarshal([]byte(rss), &parsed))
		require.Len(t, parsed.Channel.Items, 2)
		first := parsed.Channel.Items[0]
		assert.Equal(t, "India wins cricket series", first.Title)
		assert.Equal(t, "https://example.com/a1", first.GUID)
		assert.Equal(t, "[Positive] India beat Australia.", first.Description)
		assert.Equal(t, []string{"Entertainment", "Sports"}, first.Categories)
		assert.Equal(t, "2024-05-01", first.PubDate)

		assert.Equal(t, "[Neutral] feed summary & more", parsed.Channel.Items[1].Description, "failed summary replaced by feed summary")
	})

	t.Run("single category", func(t *testing.T) {
		rss, err := generator.GenerateRSS(articles[:1], "Entertainment")
		require.NoError(t, err)
		assert.Contains(t, rss, `<title>Newsstream - Entertainment</title>`)
		assert.Contains(t, rss, `href="https://example.com/rss/Entertainment"`)
	})

	t.Run("empty", func(t *testing.T) {
		rss, err := generator.GenerateRSS(nil, "")
		require.NoError(t, err)
		assert.NotContains(t, rss, "<item>")
	})
}

func TestGenerator_GenerateOPML(t *testing.T) {
	generator := NewGenerator("https://example.com")
	opml, err := generator.GenerateOPML([]domain.FeedGroup{
		{Name: "Sports", URLs: []string{"https://www.espn.com/espn/rss/news"}},
		{Name: "Tech", URLs: []string{"https://techcrunch.com/feed/", "https://www.wired.com/feed/rss"}},
	})
	require.NoError(t, err)
	assert.Contains(t, opml, `<opml version="2.0">`)
	assert.Contains(t, opml, `<title>Newsstream Feed Sources</title>`)
	assert.Contains(t, opml, `<outline text="Sports" title="Sports">`)
	assert.Contains(t, opml, `xmlUrl="https://www.wired.com/feed/rss"`)
	assert.Equal(t, 3, strings.Count(opml, `type="rss"`))
}
