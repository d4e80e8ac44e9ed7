package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsstream/pkg/domain"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher

// Generator writes an answer to a question from the given news context
type Generator interface {
	Answer(ctx context.Context, question, newsContext string) (string, error)
}

// Searcher is the retrieval step used by the composer
type Searcher interface {
	Retrieve(ctx context.Context, query string, topK int, dateFilter string) ([]domain.ScoredArticle, error)
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Composer answers questions over the corpus
type Composer struct {
	searcher   Searcher
	generator  Generator
	topK       int
	maxContext int
}

// Answer is the composed reply with the articles it was grounded on
type Answer struct {
	Text    string                 `json:"answer"`
	Date    string                 `json:"date,omitempty"`
	Sources []domain.ScoredArticle `json:"sources"`
}

// NewComposer makes a composer. maxContext bounds the context block in characters, 0 means no limit.
func NewComposer(searcher Searcher, generator Generator, topK, maxContext int) *Composer {
	return &Composer{searcher: searcher, generator: generator, topK: topK, maxContext: maxContext}
}

// Answer retrieves context for the query and asks the generator for a grounded answer.
// It never fails, errors are reported inline in the answer text.
func (c *Composer) Answer(ctx context.Context, query string) Answer {
	date := ExtractDate(query)
	res := Answer{Date: date, Sources: []domain.ScoredArticle{}}

	docs, err := c.searcher.Retrieve(ctx, query, c.topK, date)
	if err != nil {
		lgr.Printf("[WARN] retrieval failed for %q: %v", query, err)
		res.Text = fmt.Sprintf("Error: %v", err)
		return res
	}
	if len(docs) == 0 {
		if date != "" {
			res.Text = fmt.Sprintf("No news found specifically for the date %s matching your query.", date)
			return res
		}
		res.Text = "No relevant news found to answer your query."
		return res
	}

	res.Sources = docs
	text, err := c.generator.Answer(ctx, query, c.contextBlock(docs))
	if err != nil {
		lgr.Printf("[WARN] answer generation failed for %q: %v", query, err)
		res.Text = fmt.Sprintf("Error: %v", err)
		return res
	}
	res.Text = text
	return res
}

// contextBlock joins title, published date and summary of each article, bounded by maxContext characters.
// Entries past the bound are dropped, the first one is cut if it alone exceeds it.
func (c *Composer) contextBlock(docs []domain.ScoredArticle) string {
	var sb strings.Builder
	runes := 0 // written so far
	for i, doc := range docs {
		entry := fmt.Sprintf("Source: %s\nDate: %s\nSummary: %s", doc.Article.Title, doc.Article.Published, doc.Article.LLMSummary)
		if i > 0 {
			entry = "\n\n" + entry
		}
		n := utf8.RuneCountInString(entry)
		if c.maxContext > 0 && runes+n > c.maxContext {
			if i == 0 {
				sb.WriteString(string([]rune(entry)[:c.maxContext]))
			}
			break
		}
		sb.WriteString(entry)
		runes += n
	}
	return sb.String()
}

// ExtractDate returns the first YYYY-MM-DD token in the text or empty string
func ExtractDate(text string) string {
	return datePattern.FindString(text)
}
