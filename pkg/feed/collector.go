package feed

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsstream/pkg/domain"
)

//go:generate moq -out mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// FeedParser retrieves and parses RSS/Atom feeds
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// Extractor extracts full text from article URLs
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// CollectorOpts defines collector parameters
type CollectorOpts struct {
	ItemsPerFeed int  // latest entries taken from each feed
	FullText     bool // fetch full text from article links
	FeedWorkers  int  // feeds fetched concurrently
}

// Collector turns configured feed groups into raw articles
type Collector struct {
	parser    FeedParser
	extractor Extractor
	opts      CollectorOpts
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewCollector makes a collector, extractor may be nil if full text is not needed
func NewCollector(parser FeedParser, extractor Extractor, opts CollectorOpts) *Collector {
	if opts.ItemsPerFeed <= 0 {
		opts.ItemsPerFeed = 5
	}
	if opts.FeedWorkers <= 0 {
		opts.FeedWorkers = 1
	}
	return &Collector{
		parser:    parser,
		extractor: extractor,
		opts:      opts,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// Collect fetches every feed of every group and returns raw articles in configuration order.
// Broken feeds and articles are logged and skipped, only context cancellation is returned as error.
// Articles with the same link are collected once.
func (c *Collector) Collect(ctx context.Context, groups []domain.FeedGroup) ([]domain.Article, error) {
	type source struct{ group, url string }
	var sources []source
	for _, g := range groups {
		for _, u := range g.URLs {
			sources = append(sources, source{group: g.Name, url: u})
		}
	}

	results := make([][]domain.Article, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.opts.FeedWorkers)
	for i, src := range sources {
		eg.Go(func() error {
			results[i] = c.collectFeed(egCtx, src.group, src.url)
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect feeds: %w", err)
	}

	seen := make(map[string]bool)
	var res []domain.Article
	for _, articles := range results {
		for _, a := range articles {
			if seen[a.Link] {
				continue
			}
			seen[a.Link] = true
			res = append(res, a)
		}
	}
	lgr.Printf("[INFO] collected %d articles from %d feeds", len(res), len(sources))
	return res, nil
}

// collectFeed parses one feed and builds raw articles from its latest entries
func (c *Collector) collectFeed(ctx context.Context, group, feedURL string) []domain.Article {
	lgr.Printf("[DEBUG] fetching feed %s (%s)", feedURL, group)
	feed, err := c.parser.Parse(ctx, feedURL)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch feed %s: %v", feedURL, err)
		return nil
	}

	items := feed.Items
	if len(items) > c.opts.ItemsPerFeed {
		items = items[:c.opts.ItemsPerFeed]
	}

	res := make([]domain.Article, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			return res
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			lgr.Printf("[DEBUG] skip entry %q from %s without link", item.Title, feedURL)
			continue
		}
		res = append(res, c.article(ctx, group, feedURL, link, item))
	}
	lgr.Printf("[INFO] fetched %d articles from %s", len(res), feedURL)
	return res
}

// article builds a raw article from a feed entry, fetching full text if enabled.
// Feed summary is used as full text when extraction fails.
func (c *Collector) article(ctx context.Context, group, feedURL, link string, item domain.ParsedItem) domain.Article {
	now := c.now()
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "No Title"
	}
	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = now.Format(time.RFC3339)
	}
	summary := c.sanitize(item.Description)

	res := domain.Article{
		SourceURL:     feedURL,
		CategoryGroup: group,
		Title:         title,
		Link:          link,
		Published:     published,
		RawSummary:    summary,
		IngestedAt:    now,
	}

	if !c.opts.FullText || c.extractor == nil {
		res.FullText = c.sanitize(item.Content)
		return res
	}

	text, err := c.extractor.Extract(ctx, link)
	if err != nil {
		lgr.Printf("[DEBUG] full text fallback to summary for %s: %v", link, err)
		res.FullText = summary
		return res
	}
	res.FullText = text
	return res
}

// sanitize strips html and collapses whitespace, entities are decoded back to plain text
func (c *Collector) sanitize(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(c.sanitizer.Sanitize(s))), " ")
}
