package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

// HTTPExtractor extracts article text from URLs using trafilatura, with a paragraph scrape fallback
type HTTPExtractor struct {
	getter    *httpGetter
	minLength int
}

// NewHTTPExtractor creates a new content extractor. Text shorter than minLength runes is treated as not extracted.
func NewHTTPExtractor(timeout time.Duration, userAgent string, limiter *HostLimiter, minLength int) *HTTPExtractor {
	return &HTTPExtractor{getter: newHTTPGetter(timeout, userAgent, limiter), minLength: minLength}
}

// Extract retrieves the page and returns its main text
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	body, contentType, err := e.getter.get(ctx, urlStr, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}

	// convert to utf-8 according to content type or meta tags
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		reader = bytes.NewReader(body)
	}
	page, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", urlStr, err)
	}

	if text := e.trafilatura(page, parsedURL); e.long(text) {
		return text, nil
	}
	if text := paragraphs(page); e.long(text) {
		return text, nil
	}
	return "", fmt.Errorf("no text content extracted from %s", urlStr)
}

func (e *HTTPExtractor) long(text string) bool {
	return text != "" && len([]rune(text)) >= e.minLength
}

func (e *HTTPExtractor) trafilatura(page []byte, pageURL *url.URL) string {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   false,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     pageURL,
	}
	result, err := trafilatura.Extract(bytes.NewReader(page), opts)
	if err != nil || result == nil {
		return ""
	}
	return strings.TrimSpace(result.ContentText)
}

// paragraphs joins <p> texts of the first <article>, or of the whole page if there is no article
func paragraphs(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	sel := doc.Find("article").First().Find("p")
	if doc.Find("article").Length() == 0 {
		sel = doc.Find("p")
	}

	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if txt := strings.Join(strings.Fields(s.Text()), " "); txt != "" {
			parts = append(parts, txt)
		}
	})
	return strings.Join(parts, " ")
}
