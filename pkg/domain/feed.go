package domain

// FeedGroup is a topical bucket of feed URLs, e.g. "Sports" or "Tech".
// The group name is copied into every article ingested from its feeds.
type FeedGroup struct {
	Name string
	URLs []string
}

// ParsedFeed represents a feed fetched and parsed from a source URL
type ParsedFeed struct {
	Title string
	Link  string
	Items []ParsedItem
}

// ParsedItem represents a single feed entry before it becomes an article
type ParsedItem struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Published   string // raw published string from the feed
}
