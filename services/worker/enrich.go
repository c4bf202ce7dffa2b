package worker

import (
	"fmt"
	"time"

	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/extract"
	"sjsage522/housingworker/internal/geo"
	"sjsage522/housingworker/internal/scraper"
)

// ListingPhone is shown for every listing-site record
const ListingPhone = "Contact via Zillow"

// enrich fills coordinates, walking time and bedrooms. bedroomText is the
// target name for configured sites and the card details for listings.
func (w *Worker) enrich(r *scraper.PropertyRecord, bedroomText string) {
	r.Coordinates = w.resolver.Resolve(r.Address)
	r.WalkingTime = geo.WalkingTime(r.Coordinates)
	r.Bedrooms = extract.Bedrooms(bedroomText)
}

// listingRecord converts a listing card into a property record
func (w *Worker) listingRecord(l extract.RawListing, scrapedAt time.Time) scraper.PropertyRecord {
	// index 0 always exists
	street, _ := helpers.GetSplitPart(l.Address, ",", 0)

	images := []string{}
	if l.Image != "" {
		images = []string{l.Image}
	}

	r := scraper.PropertyRecord{
		ID:        "zillow-" + helpers.Slugify(l.Address),
		Name:      "Property - " + street,
		Address:   l.Address,
		Phone:     ListingPhone,
		Images:    images,
		Prices:    []string{l.Price},
		Amenities: extract.Amenities(l.Details),
		Source:    extract.ListingSource,
		ScrapedAt: scrapedAt,
	}
	w.enrich(&r, l.Details)
	return r
}

// uniqueIDs suffixes repeated record IDs with -2, -3 and so on, skipping
// any suffixed form another record already holds.
func uniqueIDs(records []scraper.PropertyRecord) {
	taken := make(map[string]struct{}, len(records))
	next := make(map[string]int)
	for i := range records {
		id := records[i].ID
		if _, dup := taken[id]; dup {
			n := max(next[id], 2)
			for ; ; n++ {
				candidate := fmt.Sprintf("%s-%d", id, n)
				if _, used := taken[candidate]; !used {
					records[i].ID = candidate
					break
				}
			}
			next[id] = n + 1
		}
		taken[records[i].ID] = struct{}{}
	}
}
