package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/gorilla/handlers"
	"sjsage522/housingworker/internal/snapshot"
)

// Scraper runs a full scrape on demand
type Scraper interface {
	PerformFullScrape(ctx context.Context) (*snapshot.Snapshot, error)
}

// Options configures the HTTP layer
type Options struct {
	RateLimitPerMinute int
	AllowedOrigins     []string
}

// Server serves the live snapshot over HTTP
type Server struct {
	store   *snapshot.Store
	scraper Scraper
	opts    Options
	started time.Time
	now     func() time.Time
}

// NewServer creates the API server
func NewServer(store *snapshot.Store, scraper Scraper, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		store:   store,
		scraper: scraper,
		opts:    opts,
		started: time.Now(),
		now:     time.Now,
	}
}

// Routes builds the router. Every endpoint lives under /api.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.opts.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimitPerMinute, time.Minute))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", s.handleProperties)
		r.Get("/properties.geojson", s.handlePropertiesGeoJSON)
		r.Get("/scrape", s.handleScrape)
		r.Get("/property/{id}", s.handleProperty)
		r.Get("/health", s.handleHealth)
	})

	return handlers.CORS(
		handlers.AllowedOrigins(s.opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}
