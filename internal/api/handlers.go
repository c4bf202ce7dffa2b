package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"sjsage522/housingworker/internal/scraper"
	"sjsage522/housingworker/internal/snapshot"
	"sjsage522/housingworker/logger"
	apperrors "sjsage522/housingworker/pkg/errors"
)

type propertiesResponse struct {
	Properties     []scraper.PropertyRecord `json:"properties"`
	LastScrapeTime *time.Time               `json:"lastScrapeTime"`
	TotalCount     int                      `json:"totalCount"`
}

type scrapeResponse struct {
	Success   bool                     `json:"success"`
	Message   string                   `json:"message,omitempty"`
	Data      []scraper.PropertyRecord `json:"data,omitempty"`
	ScrapedAt *time.Time               `json:"scrapedAt,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

type healthResponse struct {
	Status          string     `json:"status"`
	LastScrape      *time.Time `json:"lastScrape"`
	PropertiesCount int        `json:"propertiesCount"`
	Uptime          float64    `json:"uptime"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// lastScrape is nil until the first run publishes
func lastScrape(snap *snapshot.Snapshot) *time.Time {
	if snap.LastScrape.IsZero() {
		return nil
	}
	t := snap.LastScrape
	return &t
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	render.JSON(w, r, propertiesResponse{
		Properties:     snap.Records,
		LastScrapeTime: lastScrape(snap),
		TotalCount:     snap.Len(),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	// A dropped client must not cancel a run other triggers may share.
	ctx := context.WithoutCancel(r.Context())

	snap, err := s.scraper.PerformFullScrape(ctx)
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Manual scrape failed")

		message := err.Error()
		var scrapeErr *apperrors.ScrapeError
		if errors.As(err, &scrapeErr) {
			message = scrapeErr.Reason()
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, scrapeResponse{Success: false, Error: message})
		return
	}

	now := s.now()
	render.JSON(w, r, scrapeResponse{
		Success:   true,
		Message:   fmt.Sprintf("Successfully scraped %d properties", snap.Len()),
		Data:      snap.Records,
		ScrapedAt: &now,
	})
}

func (s *Server) handleProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, ok := s.store.Current().Find(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "Property not found"})
		return
	}
	render.JSON(w, r, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	render.JSON(w, r, healthResponse{
		Status:          "healthy",
		LastScrape:      lastScrape(snap),
		PropertiesCount: snap.Len(),
		Uptime:          s.now().Sub(s.started).Seconds(),
	})
}
