package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/pipeline"
	"github.com/umputun/newsstream/pkg/rag"
	"github.com/umputun/newsstream/server/mocks"
)

func TestServer_statusHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		store := &mocks.StoreMock{CountFunc: func(context.Context) (int, error) { return 42, nil }}
		srv := New(testConfig(":8080"), Services{Store: store}, "1.2.3", false)

		w := serve(t, srv, http.MethodGet, "/api/v1/status", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var status map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "1.2.3", status["version"])
		assert.InDelta(t, 42, status["articles"], 0.001)
		assert.NotEmpty(t, status["time"])
		assert.NotContains(t, status, "database")
		assert.NotContains(t, status, "embedding_model")
	})

	t.Run("with health checks", func(t *testing.T) {
		store := &mocks.StoreMock{CountFunc: func(context.Context) (int, error) { return 7, nil }}
		db := &mocks.PingerMock{PingFunc: func(context.Context) error { return nil }}
		model := &mocks.ModelStatusMock{ReadyFunc: func() bool { return true }, DimensionFunc: func() int { return 384 }}
		srv := New(testConfig(":8080"), Services{Store: store, DB: db, Model: model}, "1.2.3", false)

		w := serve(t, srv, http.MethodGet, "/api/v1/status", "")
		require.Equal(t, http.StatusOK, w.Code)
		var status map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status["database"])
		assert.Equal(t, map[string]any{"ready": true, "dimension": float64(384)}, status["embedding_model"])
		assert.InDelta(t, 7, status["articles"], 0.001)
		assert.Len(t, db.PingCalls(), 1)
	})

	t.Run("database down", func(t *testing.T) {
		store := &mocks.StoreMock{}
		db := &mocks.PingerMock{PingFunc: func(context.Context) error { return errors.New("database is locked") }}
		model := &mocks.ModelStatusMock{ReadyFunc: func() bool { return false }, DimensionFunc: func() int { return 0 }}
		srv := New(testConfig(":8080"), Services{Store: store, DB: db, Model: model}, "1.2.3", false)

		w := serve(t, srv, http.MethodGet, "/api/v1/status", "")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var status map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "unavailable", status["status"])
		assert.Equal(t, "database is locked", status["database"])
		assert.Equal(t, map[string]any{"ready": false, "dimension": float64(0)}, status["embedding_model"])
		assert.Empty(t, store.CountCalls(), "no count without database")
	})

	t.Run("store down", func(t *testing.T) {
		store := &mocks.StoreMock{CountFunc: func(context.Context) (int, error) { return 0, domain.ErrStoreUnavailable }}
		srv := New(testConfig(":8080"), Services{Store: store}, "1.2.3", false)
		w := serve(t, srv, http.MethodGet, "/api/v1/status", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_articleHandler(t *testing.T) {
	store := &mocks.StoreMock{GetByLinkFunc: func(_ context.Context, link string) (*domain.Article, error) {
		switch link {
		case "https://example.com/1":
			return &domain.Article{Title: "t1", Link: link, LLMSummary: "summary", Embedding: []float32{1, 2}}, nil
		case "https://example.com/down":
			return nil, domain.ErrStoreUnavailable
		}
		return nil, fmt.Errorf("article %s: %w", link, domain.ErrNotFound)
	}}
	srv := New(testConfig(":8080"), Services{Store: store}, "1.0.0", false)

	tbl := []struct {
		name   string
		target string
		code   int
	}{
		{"found", "/api/v1/article?link=https%3A%2F%2Fexample.com%2F1", http.StatusOK},
		{"not found", "/api/v1/article?link=https%3A%2F%2Fexample.com%2F2", http.StatusNotFound},
		{"store down", "/api/v1/article?link=https%3A%2F%2Fexample.com%2Fdown", http.StatusServiceUnavailable},
		{"missing link", "/api/v1/article", http.StatusBadRequest},
		{"blank link", "/api/v1/article?link=%20", http.StatusBadRequest},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, srv, http.MethodGet, tt.target, "")
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				var res map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
				assert.NotEmpty(t, res["error"])
				return
			}
			assert.NotContains(t, w.Body.String(), "embedding")
			var res domain.Article
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, "t1", res.Title)
			assert.Equal(t, "summary", res.LLMSummary)
		})
	}
	assert.Len(t, store.GetByLinkCalls(), 3, "no lookup without link")
	assert.Equal(t, "https://example.com/1", store.GetByLinkCalls()[0].Link)
}

func TestServer_articlesHandler(t *testing.T) {
	store := &mocks.StoreMock{RecentFunc: func(_ context.Context, limit int) ([]domain.Article, error) {
		return []domain.Article{{Title: "t1", Link: "https://example.com/1", Embedding: []float32{1, 2}}}, nil
	}}
	srv := New(testConfig(":8080"), Services{Store: store}, "1.0.0", false)

	tbl := []struct {
		name      string
		target    string
		code      int
		wantLimit int
	}{
		{"default limit", "/api/v1/articles", http.StatusOK, 20},
		{"explicit limit", "/api/v1/articles?limit=5", http.StatusOK, 5},
		{"capped limit", "/api/v1/articles?limit=1000", http.StatusOK, 100},
		{"bad limit", "/api/v1/articles?limit=abc", http.StatusBadRequest, 0},
		{"negative limit", "/api/v1/articles?limit=-1", http.StatusBadRequest, 0},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.RecentCalls())
			w := serve(t, srv, http.MethodGet, tt.target, "")
			require.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				assert.Len(t, store.RecentCalls(), before)
				return
			}
			calls := store.RecentCalls()
			assert.Equal(t, tt.wantLimit, calls[len(calls)-1].Limit)
			assert.NotContains(t, w.Body.String(), "embedding")

			var res []domain.Article
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			require.Len(t, res, 1)
			assert.Equal(t, "https://example.com/1", res[0].Link)
		})
	}
}

func TestServer_statsHandler(t *testing.T) {
	store := &mocks.StoreMock{
		CountFunc: func(context.Context) (int, error) { return 3, nil },
		CountByCategoryFunc: func(context.Context) (map[string]int, error) {
			return map[string]int{"Political": 2, "Unclassified": 1}, nil
		},
		CountBySentimentFunc: func(context.Context) (map[domain.Sentiment]int, error) {
			return map[domain.Sentiment]int{domain.SentimentPositive: 1, domain.SentimentNeutral: 2}, nil
		},
	}
	srv := New(testConfig(":8080"), Services{Store: store}, "1.0.0", false)

	w := serve(t, srv, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Total      int            `json:"total"`
		Categories map[string]int `json:"categories"`
		Sentiments map[string]int `json:"sentiments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, map[string]int{"Political": 2, "Unclassified": 1}, res.Categories)
	assert.Equal(t, map[string]int{"Positive": 1, "Neutral": 2}, res.Sentiments)

	store.CountBySentimentFunc = func(context.Context) (map[domain.Sentiment]int, error) {
		return nil, errors.New("boom")
	}
	w = serve(t, srv, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_searchHandler(t *testing.T) {
	searcher := &mocks.SearcherMock{RetrieveFunc: func(_ context.Context, query string, topK int, date string) ([]domain.ScoredArticle, error) {
		if query == "model down" {
			return nil, domain.ErrModelUnavailable
		}
		return []domain.ScoredArticle{{Article: &domain.Article{Title: "India wins cricket series", Link: "https://example.com/c"}, Score: 0.87}}, nil
	}}
	srv := New(testConfig(":8080"), Services{Searcher: searcher}, "1.0.0", false)

	t.Run("ranked results", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/api/v1/search?q=latest+sports+news&k=3&date=2024-05-01", "")
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Query   string `json:"query"`
			Date    string `json:"date"`
			Results []struct {
				Article domain.Article `json:"article"`
				Score   float64        `json:"score"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "latest sports news", res.Query)
		assert.Equal(t, "2024-05-01", res.Date)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "India wins cricket series", res.Results[0].Article.Title)
		assert.InDelta(t, 0.87, res.Results[0].Score, 0.0001)

		call := searcher.RetrieveCalls()[0]
		assert.Equal(t, 3, call.TopK)
		assert.Equal(t, "2024-05-01", call.DateFilter)
	})

	t.Run("default k", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/api/v1/search?q=news", "")
		require.Equal(t, http.StatusOK, w.Code)
		calls := searcher.RetrieveCalls()
		assert.Equal(t, 0, calls[len(calls)-1].TopK)
	})

	t.Run("missing query", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/api/v1/search?q=+", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad k", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/api/v1/search?q=news&k=x", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("model unavailable", func(t *testing.T) {
		w := serve(t, srv, http.MethodGet, "/api/v1/search?q=model+down", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}

func TestServer_askHandler(t *testing.T) {
	responder := &mocks.ResponderMock{AnswerFunc: func(_ context.Context, query string) rag.Answer {
		return rag.Answer{Text: "answer to " + query, Sources: []domain.ScoredArticle{}}
	}}
	srv := New(testConfig(":8080"), Services{Responder: responder}, "1.0.0", false)

	t.Run("answer", func(t *testing.T) {
		w := serve(t, srv, http.MethodPost, "/api/v1/ask", `{"query":"what happened in sports?"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var res rag.Answer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "answer to what happened in sports?", res.Text)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := serve(t, srv, http.MethodPost, "/api/v1/ask", `{bad`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty query", func(t *testing.T) {
		w := serve(t, srv, http.MethodPost, "/api/v1/ask", `{"query":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Len(t, responder.AnswerCalls(), 1)
}

func TestServer_ingestHandler(t *testing.T) {
	runner := &mocks.RunnerMock{IngestFunc: func(context.Context) (pipeline.BatchStats, error) {
		return pipeline.BatchStats{Fetched: 5, Enriched: 4, Failed: 1, Embedded: 4, Stored: 5}, nil
	}}
	srv := New(testConfig(":8080"), Services{Runner: runner}, "1.0.0", false)

	w := serve(t, srv, http.MethodPost, "/api/v1/ingest", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats pipeline.BatchStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.Stored)
	assert.Equal(t, 1, stats.Failed)

	runner.IngestFunc = func(context.Context) (pipeline.BatchStats, error) { return pipeline.BatchStats{}, pipeline.ErrBusy }
	w = serve(t, srv, http.MethodPost, "/api/v1/ingest", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_repairHandler(t *testing.T) {
	runner := &mocks.RunnerMock{RepairFunc: func(context.Context) (pipeline.RepairStats, error) {
		return pipeline.RepairStats{Missing: 3, Repaired: 2, Skipped: 1}, nil
	}}
	srv := New(testConfig(":8080"), Services{Runner: runner}, "1.0.0", false)

	w := serve(t, srv, http.MethodPost, "/api/v1/repair", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats pipeline.RepairStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, pipeline.RepairStats{Missing: 3, Repaired: 2, Skipped: 1}, stats)

	runner.RepairFunc = func(context.Context) (pipeline.RepairStats, error) {
		return pipeline.RepairStats{}, domain.ErrModelUnavailable
	}
	w = serve(t, srv, http.MethodPost, "/api/v1/repair", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
