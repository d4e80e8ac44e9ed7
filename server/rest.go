package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/newsstream/pkg/domain"
)

const (
	defaultArticlesLimit = 20
	maxArticlesLimit     = 100
	maxSearchK           = 50
)

// statusHandler returns server status with the corpus size, database and embedding model state.
// Responds with 503 if the database doesn't answer.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	if s.model != nil {
		status["embedding_model"] = map[string]any{"ready": s.model.Ready(), "dimension": s.model.Dimension()}
	}

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			log.Printf("[WARN] database ping failed: %v", err)
			status["status"] = "unavailable"
			status["database"] = err.Error()
			renderJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	count, err := s.store.Count(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to count articles: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}
	status["articles"] = count
	renderJSON(w, r, http.StatusOK, status)
}

// articleHandler returns one stored article, ?link=URL
func (s *Server) articleHandler(w http.ResponseWriter, r *http.Request) {
	link := strings.TrimSpace(r.URL.Query().Get("link"))
	if link == "" {
		renderError(w, r, errors.New("link parameter is required"), http.StatusBadRequest)
		return
	}

	article, err := s.store.GetByLink(r.Context(), link)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[ERROR] failed to get article %s: %v", link, err)
		}
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, article)
}

// articlesHandler returns recent articles, ?limit=N
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultArticlesLimit, maxArticlesLimit)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	articles, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get recent articles: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, articles)
}

// statsHandler returns counts by category and by sentiment
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := s.store.Count(ctx)
	if err != nil {
		renderError(w, r, err, errorCode(err))
		return
	}
	categories, err := s.store.CountByCategory(ctx)
	if err != nil {
		renderError(w, r, err, errorCode(err))
		return
	}
	sentiments, err := s.store.CountBySentiment(ctx)
	if err != nil {
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]any{
		"total":      total,
		"categories": categories,
		"sentiments": sentiments,
	})
}

// searchHandler returns ranked articles, ?q=...&k=5&date=YYYY-MM-DD
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		renderError(w, r, errors.New("query parameter q is required"), http.StatusBadRequest)
		return
	}
	k, err := intParam(r, "k", 0, maxSearchK) // zero means retriever default
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")

	results, err := s.searcher.Retrieve(r.Context(), query, k, date)
	if err != nil {
		log.Printf("[ERROR] search for %q failed: %v", query, err)
		renderError(w, r, err, errorCode(err))
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]any{
		"query":   query,
		"date":    date,
		"results": results,
	})
}

// askHandler answers a question, body {"query": "..."}
func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		renderError(w, r, errors.New("query is required"), http.StatusBadRequest)
		return
	}

	renderJSON(w, r, http.StatusOK, s.responder.Answer(r.Context(), req.Query))
}

// ingestHandler runs one ingest and process cycle
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.Ingest(r.Context())
	if err != nil {
		log.Printf("[ERROR] on-demand ingestion failed: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// repairHandler runs the embedding repair pass
func (s *Server) repairHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.Repair(r.Context())
	if err != nil {
		log.Printf("[ERROR] on-demand repair failed: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// intParam reads a non-negative int query parameter capped at maxVal
func intParam(r *http.Request, name string, def, maxVal int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return min(n, maxVal), nil
}
