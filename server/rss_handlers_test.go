package server

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	articles := []domain.Article{{
		Title: "Parliament passes bill", Link: "https://example.com/bill", Published: "2024-05-01",
		LLMSummary: "The bill passed.", Category: "Political", Sentiment: domain.SentimentNeutral, CategoryGroup: "India",
	}}
	store := &mocks.StoreMock{
		RecentFunc:           func(context.Context, int) ([]domain.Article, error) { return articles, nil },
		RecentByCategoryFunc: func(context.Context, string, int) ([]domain.Article, error) { return articles, nil },
	}
	srv := New(testConfig(":8080"), Services{Store: store}, "1.0.0", false)

	type rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title       string   `xml:"title"`
				Link        string   `xml:"link"`
				Description string   `xml:"description"`
				Categories  []string `xml:"category"`
			} `xml:"item"`
		} `xml:"channel"`
	}

	t.Run("all categories", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/rss", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

		var res rss
		require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "Newsstream - All Categories", res.Channel.Title)
		require.Len(t, res.Channel.Items, 1)
		assert.Equal(t, "[Neutral] The bill passed.", res.Channel.Items[0].Description)
		assert.Equal(t, []string{"Political", "India"}, res.Channel.Items[0].Categories)
		assert.Equal(t, 50, store.RecentCalls()[0].Limit)
	})

	t.Run("single category", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/rss/Political?limit=10", "")
		require.Equal(t, http.StatusOK, w.Code)

		var res rss
		require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "Newsstream - Political", res.Channel.Title)
		call := store.RecentByCategoryCalls()[0]
		assert.Equal(t, "Political", call.Category)
		assert.Equal(t, 10, call.Limit)
	})

	t.Run("bad limit", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/rss?limit=no", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store.RecentFunc = func(context.Context, int) ([]domain.Article, error) {
			return nil, errors.New("boom")
		}
		w := serve(t, srv, http.MethodGet, "/rss", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
	})
}

func TestServer_opmlHandler(t *testing.T) {
	srv := New(testConfig(":8080"), Services{}, "1.0.0", false)

	w := serve(t, srv, http.MethodGet, "/opml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/x-opml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "newsstream.opml")
	assert.Contains(t, w.Body.String(), `text="Sports"`)
	assert.Contains(t, w.Body.String(), `xmlUrl="https://www.espn.com/espn/rss/news"`)
}
