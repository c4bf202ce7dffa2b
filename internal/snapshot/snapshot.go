package snapshot

import (
	"sync/atomic"
	"time"

	"sjsage522/housingworker/internal/scraper"
)

// Snapshot is the complete record set of one scrape run. It is never
// modified once published.
type Snapshot struct {
	Records       []scraper.PropertyRecord
	LastScrape    time.Time
	RunID         string
	Duration      time.Duration
	FailedTargets int
}

// Len returns the number of records
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// Find returns the first record whose ID equals id, falling back to the
// first record whose source equals id.
func (s *Snapshot) Find(id string) (scraper.PropertyRecord, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	for _, r := range s.Records {
		if r.Source == id {
			return r, true
		}
	}
	return scraper.PropertyRecord{}, false
}

// Store holds the live snapshot. Readers always see either the previous
// or the next snapshot in full.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding an empty snapshot
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Records: []scraper.PropertyRecord{}})
	return s
}

// Current returns the live snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish replaces the live snapshot with snap
func (s *Store) Publish(snap *Snapshot) {
	if snap.Records == nil {
		snap.Records = []scraper.PropertyRecord{}
	}
	s.current.Store(snap)
}
