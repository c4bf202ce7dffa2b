package scraper

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/browser"
	"sjsage522/housingworker/pkg/errors"
	"sjsage522/housingworker/services/cache"
)

// BaseScraper holds what both scrapers share: the browser launcher and
// the cache used to block recently failed sources.
type BaseScraper struct {
	Launcher  browser.Launcher
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Logger    helpers.LoggerInterface
	now       func() time.Time
}

func newBase(launcher browser.Launcher, cacheSvc cache.CacheService, blockTime time.Duration, log helpers.LoggerInterface) BaseScraper {
	if log == nil {
		log = helpers.NewLogger("scraper")
	}
	return BaseScraper{
		Launcher:  launcher,
		CacheSvc:  cacheSvc,
		BlockTime: blockTime,
		Logger:    log,
		now:       time.Now,
	}
}

func blockKey(key string) string {
	return key + "_blocked"
}

// isBlocked reports whether key failed within the last BlockTime
func (b *BaseScraper) isBlocked(key string) bool {
	if b.CacheSvc == nil || b.BlockTime <= 0 {
		return false
	}
	_, err := b.CacheSvc.Get(blockKey(key))
	return err == nil
}

// block suppresses key for BlockTime
func (b *BaseScraper) block(key string) {
	if b.CacheSvc == nil || b.BlockTime <= 0 {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(b.BlockTime/time.Second)))
	if err := b.CacheSvc.Set(blockKey(key), value, b.BlockTime); err != nil {
		b.Logger.LogError(key, errors.NewCache(key, "failed to set block", err))
	}
}

// render opens an isolated session, loads url and parses the result. The
// session is closed before render returns, whatever the outcome.
func (b *BaseScraper) render(ctx context.Context, key, url string) (*goquery.Document, error) {
	session, err := b.Launcher.Launch(ctx)
	if err != nil {
		return nil, errors.NewBrowser(key, "failed to launch browser", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			b.Logger.LogError(key, errors.NewBrowser(key, "failed to close browser", cerr))
		}
	}()

	html, err := session.Render(ctx, url)
	if stderrors.Is(err, helpers.ErrRateLimited) {
		return nil, errors.New(errors.ErrorTypeRateLimit, key, "throttled by site", err)
	}
	if err != nil {
		return nil, errors.NewNavigation(key, fmt.Sprintf("failed to load %s", url), err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.NewExtraction(key, "failed to parse page", err)
	}
	return doc, nil
}
