package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/pkg/feed"
	"github.com/umputun/newsstream/pkg/pipeline"
	"github.com/umputun/newsstream/pkg/rag"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher
//go:generate moq -out mocks/responder.go -pkg mocks -skip-ensure -fmt goimports . Responder
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/pinger.go -pkg mocks -skip-ensure -fmt goimports . Pinger
//go:generate moq -out mocks/model.go -pkg mocks -skip-ensure -fmt goimports . ModelStatus

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Store
	searcher  Searcher
	responder Responder
	runner    Runner
	db        Pinger
	model     ModelStatus
	generator *feed.Generator
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Store is the read side of the corpus store
type Store interface {
	GetByLink(ctx context.Context, link string) (*domain.Article, error)
	Recent(ctx context.Context, limit int) ([]domain.Article, error)
	RecentByCategory(ctx context.Context, category string, limit int) ([]domain.Article, error)
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	CountBySentiment(ctx context.Context) (map[domain.Sentiment]int, error)
}

// Searcher ranks stored articles for a query
type Searcher interface {
	Retrieve(ctx context.Context, query string, topK int, dateFilter string) ([]domain.ScoredArticle, error)
}

// Responder answers questions grounded on retrieved articles
type Responder interface {
	Answer(ctx context.Context, query string) rag.Answer
}

// Runner triggers on-demand pipeline runs
type Runner interface {
	Ingest(ctx context.Context) (pipeline.BatchStats, error)
	Repair(ctx context.Context) (pipeline.RepairStats, error)
}

// Pinger checks the database connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelStatus reports the state of the embedding model
type ModelStatus interface {
	Ready() bool
	Dimension() int
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
	FeedGroups() []domain.FeedGroup
}

// Services groups the components served over HTTP
type Services struct {
	Store     Store
	Searcher  Searcher
	Responder Responder
	Runner    Runner
	DB        Pinger      // optional, status skips the database check if nil
	Model     ModelStatus // optional
}

// New initializes a new server instance
func New(cfg ConfigProvider, svc Services, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		store:     svc.Store,
		searcher:  svc.Searcher,
		responder: svc.Responder,
		runner:    svc.Runner,
		db:        svc.DB,
		model:     svc.Model,
		generator: feed.NewGenerator(cfg.GetBaseURL()),
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		// ingest and repair run inside the request
		WriteTimeout: 10 * timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newsstream", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /article", s.articleHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
		r.HandleFunc("GET /search", s.searchHandler)
		r.HandleFunc("POST /ask", s.askHandler)
		r.HandleFunc("POST /ingest", s.ingestHandler)
		r.HandleFunc("POST /repair", s.repairHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// errorCode maps domain errors to http status codes
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrModelUnavailable), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
