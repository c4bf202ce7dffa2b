package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/internal/geo"
	"sjsage522/housingworker/internal/scraper"
	"sjsage522/housingworker/internal/snapshot"
	"sjsage522/housingworker/logger"
	"sjsage522/housingworker/pkg/errors"
	"sjsage522/housingworker/services/publisher"
)

// publishKey is the stream field each record is published under
const publishKey = "b64_property"

// Options tunes a Worker
type Options struct {
	// Pause is the minimum gap between two browser sessions
	Pause time.Duration
	// Schedule drives recurring runs; nil disables them
	Schedule Schedule
	// RunOnStartup triggers a run as soon as Start is called
	RunOnStartup bool
}

// Worker runs the scrape pipeline and owns the live snapshot
type Worker struct {
	targets   []scraper.ScrapeTarget
	pages     scraper.PropertyScraper
	listings  scraper.ListingScraper
	resolver  *geo.Resolver
	store     *snapshot.Store
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	limiter   *rate.Limiter
	opts      Options

	group singleflight.Group
	now   func() time.Time
}

// NewWorker creates a new worker
func NewWorker(
	targets []scraper.ScrapeTarget,
	pages scraper.PropertyScraper,
	listings scraper.ListingScraper,
	resolver *geo.Resolver,
	store *snapshot.Store,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	opts Options,
) *Worker {
	limit := rate.Inf
	if opts.Pause > 0 {
		limit = rate.Every(opts.Pause)
	}
	if pub == nil {
		pub = publisher.Nop{}
	}
	if resolver == nil {
		resolver = geo.NewResolver(nil)
	}

	return &Worker{
		targets:   targets,
		pages:     pages,
		listings:  listings,
		resolver:  resolver,
		store:     store,
		publisher: pub,
		logger:    logger,
		limiter:   rate.NewLimiter(limit, 1),
		opts:      opts,
		now:       time.Now,
	}
}

// Store returns the snapshot store the worker publishes to
func (w *Worker) Store() *snapshot.Store {
	return w.store
}

// PerformFullScrape runs the pipeline and publishes the result as the new
// snapshot. A call made while a run is in flight waits for that run and
// returns its result. On error the previous snapshot stays live.
func (w *Worker) PerformFullScrape(ctx context.Context) (*snapshot.Snapshot, error) {
	v, err, shared := w.group.Do("scrape", func() (interface{}, error) {
		return w.run(ctx)
	})
	if shared {
		w.logger.LogInfo("Joined scrape run already in progress")
	}
	if err != nil {
		return nil, err
	}
	return v.(*snapshot.Snapshot), nil
}

// run scrapes every target in order, then the listing site
func (w *Worker) run(ctx context.Context) (snap *snapshot.Snapshot, err error) {
	runID := uuid.NewString()
	start := w.now()

	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = errors.NewOrchestration(fmt.Sprintf("scrape run %s aborted", runID), fmt.Errorf("panic: %v", r))
			w.logger.LogError("worker", err)
		}
	}()

	w.logger.LogInfo("Starting property scrape %s (%d targets)", runID, len(w.targets))

	records := make([]scraper.PropertyRecord, 0, len(w.targets)+extract.MaxListings)
	failed := 0

	for _, target := range w.targets {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, w.cancelled(runID, err)
		}

		record, err := w.pages.Scrape(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return nil, w.cancelled(runID, ctx.Err())
			}
			// classified failures were already logged by the scraper
			if !isTargetFailure(err) {
				w.logger.LogError(target.Name, err)
			}
			record = scraper.DegradedRecord(target, err)
			failed++
		}
		w.enrich(record, target.Name)
		records = append(records, *record)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return nil, w.cancelled(runID, err)
	}

	listings, err := w.listings.ScrapeListings(ctx)
	if ctx.Err() != nil {
		return nil, w.cancelled(runID, ctx.Err())
	}
	if err != nil {
		w.logger.LogInfo("Listing site contributed no records: %v", err)
	}
	for _, l := range listings {
		records = append(records, w.listingRecord(l, start))
	}
	uniqueIDs(records)

	finished := w.now()
	snap = &snapshot.Snapshot{
		Records:       records,
		LastScrape:    finished,
		RunID:         runID,
		Duration:      finished.Sub(start),
		FailedTargets: failed,
	}
	w.store.Publish(snap)

	w.logger.LogInfo("Scraping complete! Found %d properties (%d failed targets) in %s",
		len(records), failed, snap.Duration.Round(time.Millisecond))

	if logger.IsDebugEnabled() && len(records) > 0 {
		if sample, err := json.Marshal(records[0]); err == nil {
			w.logger.LogInfo("Sample record: %s", sample)
		}
	}

	w.fanOut(ctx, snap)
	return snap, nil
}

func isTargetFailure(err error) bool {
	var scrapeErr *errors.ScrapeError
	return stderrors.As(err, &scrapeErr) && scrapeErr.IsTargetFailure()
}

func (w *Worker) cancelled(runID string, cause error) error {
	err := errors.NewOrchestration(fmt.Sprintf("scrape run %s cancelled", runID), cause)
	w.logger.LogError("worker", err)
	return err
}

// fanOut publishes every record of snap. Failures are logged only.
func (w *Worker) fanOut(ctx context.Context, snap *snapshot.Snapshot) {
	for _, record := range snap.Records {
		data, err := json.Marshal(record)
		if err != nil {
			w.logger.LogError(record.ID, err)
			continue
		}
		if err := w.publisher.Publish(ctx, publishKey, data); err != nil {
			w.logger.LogError("publisher", err)
			return
		}
	}

	if err := w.publisher.TrimStreams(ctx); err != nil {
		w.logger.LogError("streams", err)
	}
}

// Start runs the pipeline on startup (if enabled) and then on the
// schedule until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	if w.opts.RunOnStartup {
		w.trigger(ctx, "startup")
	}

	if w.opts.Schedule == nil {
		<-ctx.Done()
		return
	}

	for {
		next := w.opts.Schedule.Next(w.now())
		w.logger.LogInfo("Next scheduled scrape at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			w.trigger(ctx, "schedule")
		}
	}
}

func (w *Worker) trigger(ctx context.Context, reason string) {
	w.logger.LogInfo("Scrape triggered by %s", reason)
	// run already logged any failure
	_, _ = w.PerformFullScrape(ctx)
}
