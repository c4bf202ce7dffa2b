package scraper

import (
	"context"
	"time"

	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/browser"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/pkg/errors"
	"sjsage522/housingworker/services/cache"
)

// listingKey identifies the aggregator in logs and block markers
const listingKey = "listing-site"

// ListingSiteScraper collects property cards from the listing aggregator
type ListingSiteScraper struct {
	BaseScraper
	SearchURL string
	Limit     int
	Selectors extract.Selectors
}

// NewListingSiteScraper creates a listing scraper for searchURL. limit is
// clamped to extract.MaxListings.
func NewListingSiteScraper(launcher browser.Launcher, cacheSvc cache.CacheService, blockTime time.Duration, searchURL string, limit int, log helpers.LoggerInterface) *ListingSiteScraper {
	return &ListingSiteScraper{
		BaseScraper: newBase(launcher, cacheSvc, blockTime, log),
		SearchURL:   searchURL,
		Limit:       min(limit, extract.MaxListings),
		Selectors:   extract.DefaultListingSelectors,
	}
}

// ScrapeListings renders the search page and returns up to Limit cards,
// falling back to the embedded search payload when no card rendered.
func (s *ListingSiteScraper) ScrapeListings(ctx context.Context) ([]extract.RawListing, error) {
	listings := []extract.RawListing{}

	if s.isBlocked(listingKey) {
		err := errors.NewListing("skipped, blocked after a recent failure", nil)
		s.Logger.LogError(extract.ListingSource, err)
		return listings, err
	}

	doc, err := s.render(ctx, listingKey, s.SearchURL)
	if err != nil {
		if ctx.Err() == nil {
			s.block(listingKey)
		}
		lerr := errors.NewListing("failed to render search page", err)
		s.Logger.LogError(extract.ListingSource, lerr)
		return listings, lerr
	}

	cards := extract.ListingCards(doc, s.Selectors, s.SearchURL, s.Limit)
	if len(cards) > 0 {
		return cards, nil
	}

	embedded, err := extract.EmbeddedListings(doc, s.Limit)
	if err != nil {
		lerr := errors.NewListing("no property cards and unreadable embedded data", err)
		s.Logger.LogError(extract.ListingSource, lerr)
		return listings, lerr
	}
	if len(embedded) > 0 {
		s.Logger.LogInfo("Read %d listings from embedded search data", len(embedded))
		return embedded, nil
	}

	return listings, nil
}
