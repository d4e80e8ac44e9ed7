package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/newsstream/pkg/domain"
)

// RSS represents the root RSS 2.0 element
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel represents an RSS channel
type RSSChannel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink is the self link of the channel
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem represents an enriched article in the output feed
type RSSItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

// Generator creates RSS feeds of enriched articles and OPML of configured sources
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed with generated summaries, optionally for a single category
func (g *Generator) GenerateRSS(articles []domain.Article, category string) (string, error) {
	title := "Newsstream - All Categories"
	selfLink := g.baseURL + "/rss"
	if category != "" {
		title = "Newsstream - " + category
		selfLink = g.baseURL + "/rss/" + category
	}

	items := make([]*RSSItem, 0, len(articles))
	for i := range articles {
		items = append(items, g.rssItem(&articles[i]))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Enriched news with generated summaries, categories and sentiment",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// rssItem uses generated summary when enrichment succeeded, feed summary otherwise
func (g *Generator) rssItem(a *domain.Article) *RSSItem {
	desc := a.RawSummary
	if a.LLMSummary != "" && a.LLMSummary != domain.SummaryFailed {
		desc = a.LLMSummary
	}
	if a.Sentiment != "" {
		desc = fmt.Sprintf("[%s] %s", a.Sentiment, desc)
	}

	var categories []string
	for _, c := range []string{a.Category, a.CategoryGroup} {
		if c != "" {
			categories = append(categories, c)
		}
	}

	return &RSSItem{
		Title:       a.Title,
		Link:        a.Link,
		GUID:        a.Link,
		Description: desc,
		PubDate:     a.Published,
		Categories:  categories,
	}
}

// GenerateOPML creates an OPML file with configured feed groups as outline folders
func (g *Generator) GenerateOPML(groups []domain.FeedGroup) (string, error) {
	type outline struct {
		Text     string    `xml:"text,attr"`
		Title    string    `xml:"title,attr,omitempty"`
		Type     string    `xml:"type,attr,omitempty"`
		XMLUrl   string    `xml:"xmlUrl,attr,omitempty"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		Title       string `xml:"title"`
		DateCreated string `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name  `xml:"opml"`
		Version string    `xml:"version,attr"`
		Head    head      `xml:"head"`
		Body    []outline `xml:"body>outline"`
	}

	folders := make([]outline, 0, len(groups))
	for _, grp := range groups {
		folder := outline{Text: grp.Name, Title: grp.Name}
		for _, u := range grp.URLs {
			folder.Outlines = append(folder.Outlines, outline{Text: u, Type: "rss", XMLUrl: u})
		}
		folders = append(folders, folder)
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "Newsstream Feed Sources", DateCreated: time.Now().Format(time.RFC1123Z)},
		Body:    folders,
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
