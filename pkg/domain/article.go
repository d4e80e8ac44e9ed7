package domain

import (
	"strings"
	"time"
)

// Sentinel values written by enrichment when the generative model call or its response fails
const (
	SummaryFailed        = "Processing Failed"
	CategoryUnclassified = "Unclassified"
)

// Sentiment of an article as judged by the generative model
type Sentiment string

// enum of supported sentiments
const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// ParseSentiment maps model output to a known sentiment, case-insensitively.
// Anything unrecognized is treated as neutral.
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Article is the unit of storage and retrieval. Link is the identity key,
// the store never keeps two articles with the same link.
type Article struct {
	SourceURL     string    `json:"source_url"`
	CategoryGroup string    `json:"category_group"`
	Title         string    `json:"title"`
	Link          string    `json:"link"`
	Published     string    `json:"published"` // free-form, as supplied by the feed
	RawSummary    string    `json:"summary_rss"`
	FullText      string    `json:"full_text,omitempty"` // empty means absent
	IngestedAt    time.Time `json:"ingested_at"`

	// enrichment, absent on a raw article
	LLMSummary  string     `json:"llm_summary,omitempty"`
	Category    string     `json:"category,omitempty"`
	Sentiment   Sentiment  `json:"sentiment,omitempty"`
	Embedding   []float32  `json:"-"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Text returns the best available text for the article: full text, then the feed summary, then the title
func (a *Article) Text() string {
	switch {
	case strings.TrimSpace(a.FullText) != "":
		return a.FullText
	case strings.TrimSpace(a.RawSummary) != "":
		return a.RawSummary
	default:
		return a.Title
	}
}

// Embedded reports whether the article carries a non-empty embedding vector
func (a *Article) Embedded() bool {
	return len(a.Embedding) > 0
}

// Enriched reports whether an enrichment pass ran for the article
func (a *Article) Enriched() bool {
	return a.ProcessedAt != nil
}

// Annotation is the structured result of the generative model for one article
type Annotation struct {
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
}

// FailedAnnotation returns the sentinel annotation used when the model call or parsing fails
func FailedAnnotation() Annotation {
	return Annotation{Summary: SummaryFailed, Category: CategoryUnclassified, Sentiment: SentimentNeutral}
}

// Apply copies annotation fields into the article, overwriting previous enrichment
func (a *Article) Apply(ann Annotation) {
	a.LLMSummary = ann.Summary
	a.Category = ann.Category
	a.Sentiment = ann.Sentiment
}

// ScoredArticle is a retrieval result with its cosine similarity to the query
type ScoredArticle struct {
	Article *Article `json:"article"`
	Score   float64  `json:"score"`
}

// ArticleFilter is a read predicate for the corpus store. Zero value matches everything.
type ArticleFilter struct {
	HasEmbedding bool   // only articles with a non-empty embedding
	Published    string // case-insensitive substring of the published field
}

// CategoryCount is one row of the per-category aggregate
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"cnt"`
}
