package worker

import (
	"time"

	"sjsage522/housingworker/config"
)

// Schedule decides when the next scheduled run happens
type Schedule interface {
	Next(now time.Time) time.Time
}

// DailySchedule fires once a day at Hour:Minute in Location
type DailySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first Hour:Minute strictly after now
func (d DailySchedule) Next(now time.Time) time.Time {
	loc := d.Location
	if loc == nil {
		loc = now.Location()
	}
	t := now.In(loc)

	next := time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, loc)
	if !next.After(t) {
		next = time.Date(t.Year(), t.Month(), t.Day()+1, d.Hour, d.Minute, 0, 0, loc)
	}
	return next
}

// IntervalSchedule fires every Interval
type IntervalSchedule struct {
	Interval time.Duration
}

// Next returns now + Interval
func (s IntervalSchedule) Next(now time.Time) time.Time {
	return now.Add(s.Interval)
}

// NewSchedule returns an IntervalSchedule when cfg.ScrapeInterval is set,
// otherwise the daily schedule at cfg.ScrapeAt.
func NewSchedule(cfg *config.Config) (Schedule, error) {
	if cfg.ScrapeInterval > 0 {
		return IntervalSchedule{Interval: cfg.ScrapeInterval}, nil
	}

	hour, minute, err := config.ParseClock(cfg.ScrapeAt)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return DailySchedule{Hour: hour, Minute: minute, Location: loc}, nil
}
