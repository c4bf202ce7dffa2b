package scraper

import (
	"context"
	stderrors "errors"
	"time"

	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/browser"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/pkg/errors"
	"sjsage522/housingworker/services/cache"
)

// ContactForPricing is the price shown for a target that could not be scraped
const ContactForPricing = "Contact for pricing"

// PageScraper scrapes one property website per call in its own session
type PageScraper struct {
	BaseScraper
}

// NewPageScraper creates a page scraper
func NewPageScraper(launcher browser.Launcher, cacheSvc cache.CacheService, blockTime time.Duration, log helpers.LoggerInterface) *PageScraper {
	return &PageScraper{BaseScraper: newBase(launcher, cacheSvc, blockTime, log)}
}

// Scrape renders target.URL and extracts images, prices and amenities.
// Failures are logged with the target's name and returned as a
// *errors.ScrapeError; a failed target is blocked for BlockTime.
func (s *PageScraper) Scrape(ctx context.Context, target ScrapeTarget) (*PropertyRecord, error) {
	if s.isBlocked(target.Key) {
		err := errors.NewRateLimit(target.Key, s.BlockTime)
		s.Logger.LogError(target.Name, err)
		return nil, err
	}

	doc, err := s.render(ctx, target.Key, target.URL)
	if err != nil {
		if ctx.Err() == nil {
			s.block(target.Key)
		}
		s.Logger.LogError(target.Name, err)
		return nil, err
	}

	data := extract.Page(doc, target.URL)
	return &PropertyRecord{
		ID:        target.Key,
		Name:      target.Name,
		Address:   target.Address,
		Phone:     target.Phone,
		Images:    data.Images,
		Prices:    data.Prices,
		Amenities: data.Amenities,
		Source:    target.Key,
		ScrapedAt: s.now(),
	}, nil
}

// DegradedRecord builds the placeholder record for a target whose scrape
// failed with err.
func DegradedRecord(target ScrapeTarget, err error) *PropertyRecord {
	message := "unknown error"
	var scrapeErr *errors.ScrapeError
	if stderrors.As(err, &scrapeErr) {
		message = scrapeErr.Reason()
	} else if err != nil {
		message = err.Error()
	}

	return &PropertyRecord{
		ID:        target.Key,
		Name:      target.Name,
		Address:   target.Address,
		Phone:     target.Phone,
		Images:    []string{},
		Prices:    []string{ContactForPricing},
		Amenities: []string{},
		Source:    target.Key,
		ScrapedAt: time.Now(),
		Error:     message,
	}
}
