package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsstream/pkg/domain"
)

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	getter *httpGetter
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string, limiter *HostLimiter) *Parser {
	return &Parser{getter: newHTTPGetter(timeout, userAgent, limiter)}
}

// Parse fetches and parses a feed from the given URL. Published dates are kept as supplied by the feed.
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, _, err := p.getter.get(ctx, url, "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.ParsedFeed{
		Title: feed.Title,
		Link:  feed.Link,
		Items: make([]domain.ParsedItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		parsed := domain.ParsedItem{
			GUID:        item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			Published:   item.Published,
		}
		if parsed.GUID == "" {
			parsed.GUID = item.Link
		}
		if parsed.Published == "" {
			parsed.Published = item.Updated
		}
		result.Items = append(result.Items, parsed)
	}

	return result, nil
}
