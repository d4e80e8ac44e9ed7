package feed

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/feed/mocks"
)

func TestCollector_Collect(t *testing.T) {
	feeds := map[string]*domain.ParsedFeed{
		"http://sports/rss": {Items: []domain.ParsedItem{
			{Title: "India wins cricket series", Link: "http://sports/1", Published: "Wed, 01 May 2024 10:00:00 GMT",
				Description: "<p>India beat <b>Australia</b> &amp; won</p>"},
			{Title: "", Link: "http://sports/2", Description: "untitled"},
			{Title: "no link", Link: ""},
		}},
		"http://tech/rss": {Items: []domain.ParsedItem{
			{Title: "Gadget", Link: "http://tech/1", Published: "2024-05-02"},
			{Title: "dup of sports", Link: "http://sports/1"},
		}},
	}
	parser := &mocks.FeedParserMock{ParseFunc: func(_ context.Context, url string) (*domain.ParsedFeed, error) {
		if f, ok := feeds[url]; ok {
			return f, nil
		}
		return nil, errors.New("connection refused")
	}}
	extractor := &mocks.ExtractorMock{ExtractFunc: func(_ context.Context, url string) (string, error) {
		if url == "http://sports/2" {
			return "", errors.New("paywall")
		}
		return "full text of " + url, nil
	}}

	c := NewCollector(parser, extractor, CollectorOpts{ItemsPerFeed: 5, FullText: true, FeedWorkers: 2})
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	groups := []domain.FeedGroup{
		{Name: "Sports", URLs: []string{"http://sports/rss", "http://broken/rss"}},
		{Name: "Tech", URLs: []string{"http://tech/rss"}},
	}
	articles, err := c.Collect(context.Background(), groups)
	require.NoError(t, err)
	require.Len(t, articles, 3, "no-link entry skipped, duplicate link collected once, broken feed skipped")

	a := articles[0]
	assert.Equal(t, "http://sports/rss", a.SourceURL)
	assert.Equal(t, "Sports", a.CategoryGroup)
	assert.Equal(t, "India wins cricket series", a.Title)
	assert.Equal(t, "Wed, 01 May 2024 10:00:00 GMT", a.Published)
	assert.Equal(t, "India beat Australia & won", a.RawSummary)
	assert.Equal(t, "full text of http://sports/1", a.FullText)
	assert.Equal(t, now, a.IngestedAt)
	assert.False(t, a.Enriched())

	b := articles[1]
	assert.Equal(t, "No Title", b.Title)
	assert.Equal(t, "2024-05-03T12:00:00Z", b.Published, "missing published defaults to now")
	assert.Equal(t, "untitled", b.FullText, "full text falls back to summary")

	assert.Equal(t, "Tech", articles[2].CategoryGroup)
	assert.Len(t, parser.ParseCalls(), 3)
}

func TestCollector_ItemsPerFeed(t *testing.T) {
	var items []domain.ParsedItem
	for i := 0; i < 20; i++ {
		items = append(items, domain.ParsedItem{Title: fmt.Sprintf("t%d", i), Link: fmt.Sprintf("http://x/%d", i)})
	}
	parser := &mocks.FeedParserMock{ParseFunc: func(context.Context, string) (*domain.ParsedFeed, error) {
		return &domain.ParsedFeed{Items: items}, nil
	}}

	c := NewCollector(parser, nil, CollectorOpts{})
	articles, err := c.Collect(context.Background(), []domain.FeedGroup{{Name: "g", URLs: []string{"http://x/rss"}}})
	require.NoError(t, err)
	require.Len(t, articles, 5, "default is latest 5 entries")
	assert.Equal(t, "t0", articles[0].Title)
}

func TestCollector_NoFullText(t *testing.T) {
	parser := &mocks.FeedParserMock{ParseFunc: func(context.Context, string) (*domain.ParsedFeed, error) {
		return &domain.ParsedFeed{Items: []domain.ParsedItem{
			{Title: "t", Link: "http://x/1", Description: "desc", Content: "<div>feed <i>content</i></div>"},
		}}, nil
	}}
	extractor := &mocks.ExtractorMock{}

	c := NewCollector(parser, extractor, CollectorOpts{FullText: false})
	articles, err := c.Collect(context.Background(), []domain.FeedGroup{{Name: "g", URLs: []string{"http://x/rss"}}})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "feed content", articles[0].FullText)
	assert.Empty(t, extractor.ExtractCalls())
}

func TestCollector_FeedWorkersLimit(t *testing.T) {
	var active, peak atomic.Int32
	parser := &mocks.FeedParserMock{ParseFunc: func(context.Context, string) (*domain.ParsedFeed, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return &domain.ParsedFeed{}, nil
	}}

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://feed/%d", i)
	}
	c := NewCollector(parser, nil, CollectorOpts{FeedWorkers: 3})
	_, err := c.Collect(context.Background(), []domain.FeedGroup{{Name: "g", URLs: urls}})
	require.NoError(t, err)
	assert.Len(t, parser.ParseCalls(), 8)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestCollector_Canceled(t *testing.T) {
	parser := &mocks.FeedParserMock{ParseFunc: func(ctx context.Context, _ string) (*domain.ParsedFeed, error) {
		return nil, ctx.Err()
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCollector(parser, nil, CollectorOpts{}).Collect(ctx, []domain.FeedGroup{{Name: "g", URLs: []string{"http://x"}}})
	assert.ErrorIs(t, err, context.Canceled)
}
