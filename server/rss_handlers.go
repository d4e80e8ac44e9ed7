package server

import (
	"log"
	"net/http"

	"github.com/umputun/newsstream/pkg/domain"
)

const defaultRSSLimit = 50

// rssHandler serves enriched articles as RSS, all of them or a single category for /rss/{category}
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.PathValue("category")

	limit, err := intParam(r, "limit", defaultRSSLimit, maxArticlesLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var articles []domain.Article
	switch category {
	case "":
		articles, err = s.store.Recent(ctx, limit)
	default:
		articles, err = s.store.RecentByCategory(ctx, category, limit)
	}
	if err != nil {
		log.Printf("[ERROR] failed to get articles for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", errorCode(err))
		return
	}

	rss, err := s.generator.GenerateRSS(articles, category)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports configured feed groups as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	opml, err := s.generator.GenerateOPML(s.config.FeedGroups())
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="newsstream.opml"`)
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
