package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPExtractor_Extract(t *testing.T) {
	longPara := strings.Repeat("India beat Australia in the deciding match of the series. ", 5)
	tests := []struct {
		name        string
		htmlContent string
		contentType string
		wantContent string
		wantErr     bool
		statusCode  int
	}{
		{
			name: "article",
			htmlContent: `<!DOCTYPE html><html><head><title>Test Article</title></head><body>
				<nav><p>menu item</p></nav>
				<article><h1>Cricket</h1><p>` + longPara + `</p><p>Second paragraph of the story.</p></article>
				</body></html>`,
			contentType: "text/html; charset=utf-8",
			wantContent: "India beat Australia in the deciding match",
			statusCode:  http.StatusOK,
		},
		{
			name: "windows-1251 page",
			htmlContent: "<html><body><p>" +
				"\xcf\xf0\xe8\xe2\xe5\xf2 \xec\xe8\xf0 " + longPara + "</p></body></html>",
			contentType: "text/html; charset=windows-1251",
			wantContent: "Привет мир",
			statusCode:  http.StatusOK,
		},
		{
			name:        "too short",
			htmlContent: `<html><body><p>Short</p></body></html>`,
			contentType: "text/html",
			wantErr:     true,
			statusCode:  http.StatusOK,
		},
		{name: "server error", htmlContent: "error", wantErr: true, statusCode: http.StatusInternalServerError},
		{name: "not found", htmlContent: "not found", wantErr: true, statusCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			extractor := NewHTTPExtractor(10*time.Second, "test-agent", nil, 50)
			content, err := extractor.Extract(context.Background(), server.URL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, content, tt.wantContent)
			assert.NotContains(t, content, "<p>")
		})
	}
}

func TestHTTPExtractor_InvalidURL(t *testing.T) {
	extractor := NewHTTPExtractor(time.Second, "ua", nil, 10)
	_, err := extractor.Extract(context.Background(), "not-a-url")
	assert.Error(t, err)
	_, err = extractor.Extract(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestParagraphs(t *testing.T) {
	page := `<html><body><p>outside</p><article><p>first  one</p><div><p>second
		one</p></div></article></body></html>`
	assert.Equal(t, "first one second one", paragraphs([]byte(page)))

	page = `<html><body><p>only</p><p>paragraphs</p><p>  </p></body></html>`
	assert.Equal(t, "only paragraphs", paragraphs([]byte(page)))

	assert.Empty(t, paragraphs([]byte("<html><body><div>no paragraphs</div></body></html>")))
}
