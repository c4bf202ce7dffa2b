package scraper

import (
	"sjsage522/housingworker/config"
	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/browser"
	"sjsage522/housingworker/logger"
	"sjsage522/housingworker/services/cache"
)

// CreateLauncher builds the browser launcher selected by cfg.BrowserMode
func CreateLauncher(cfg *config.Config) (browser.Launcher, error) {
	return browser.New(cfg.BrowserMode, browser.Options{
		UserAgent:         cfg.UserAgent,
		Headless:          cfg.Headless,
		ChromeAddr:        cfg.ChromeAddr,
		ProxyURL:          cfg.BrowserProxy,
		NavigationTimeout: cfg.NavigationTimeout,
	})
}

// CreateScrapers builds the page and listing scrapers sharing one launcher
func CreateScrapers(cfg *config.Config, launcher browser.Launcher, cacheSvc cache.CacheService) (*PageScraper, *ListingSiteScraper) {
	log := helpers.NewLogger("scraper")

	pages := NewPageScraper(launcher, cacheSvc, cfg.TargetBlockTime, log)
	listings := NewListingSiteScraper(launcher, cacheSvc, cfg.TargetBlockTime, cfg.ListingSearchURL, cfg.ListingLimit, log)

	logger.ForWorker().Info().
		Str("browser", cfg.BrowserMode).
		Int("targets", len(cfg.Targets)).
		Str("listing_url", cfg.ListingSearchURL).
		Msg("Created scrapers")

	return pages, listings
}
