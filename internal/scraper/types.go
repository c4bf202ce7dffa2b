package scraper

import (
	"context"
	"time"

	"sjsage522/housingworker/config"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/internal/geo"
)

// ScrapeTarget is one configured property website
type ScrapeTarget = config.Target

// PropertyRecord is the normalized listing served to clients
type PropertyRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Images      []string        `json:"images"`
	Prices      []string        `json:"prices"`
	Amenities   []string        `json:"amenities"`
	Coordinates geo.Coordinates `json:"coordinates"`
	WalkingTime string          `json:"walkingTime"`
	Bedrooms    string          `json:"bedrooms"`
	Source      string          `json:"source"`
	ScrapedAt   time.Time       `json:"scrapedAt"`
	Error       string          `json:"error,omitempty"`
}

// PropertyScraper scrapes a single configured target
type PropertyScraper interface {
	// Scrape returns the record for target or a typed error describing
	// why the target could not be scraped
	Scrape(ctx context.Context, target ScrapeTarget) (*PropertyRecord, error)
}

// ListingScraper scrapes the listing aggregator
type ListingScraper interface {
	// ScrapeListings always returns a non-nil slice; the error only
	// explains why it may be empty
	ScrapeListings(ctx context.Context) ([]extract.RawListing, error)
}
