package geo

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// defaultJitter is the full width of the uniform noise band around the anchor
const defaultJitter = 0.01

// StreetCoordinate pins a known street name to a fixed coordinate
type StreetCoordinate struct {
	Street      string
	Coordinates Coordinates
}

// KnownStreets is matched in order; the first street contained in an address wins
var KnownStreets = []StreetCoordinate{
	{Street: "Easton Avenue", Coordinates: Coordinates{40.4862, -74.4518}},
	{Street: "New Street", Coordinates: Coordinates{40.4851, -74.4489}},
	{Street: "Bartlett Street", Coordinates: Coordinates{40.4868, -74.4505}},
	{Street: "Hamilton Street", Coordinates: Coordinates{40.4883, -74.4534}},
	{Street: "College Avenue", Coordinates: Coordinates{40.4866, -74.4507}},
}

// Resolver maps free-text addresses to approximate coordinates
type Resolver struct {
	streets []StreetCoordinate
	anchor  Coordinates

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewResolver creates a resolver over the known street table. A nil rnd is
// replaced by a time-seeded generator.
func NewResolver(rnd *rand.Rand) *Resolver {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Resolver{
		streets: KnownStreets,
		anchor:  CampusAnchor,
		rnd:     rnd,
	}
}

// Resolve returns the first known street's coordinate contained in address
// (case-sensitive), or the campus anchor perturbed by up to ±0.005 degrees
// on each axis.
func (r *Resolver) Resolve(address string) Coordinates {
	for _, s := range r.streets {
		if strings.Contains(address, s.Street) {
			return s.Coordinates
		}
	}

	r.mu.Lock()
	dLat := (r.rnd.Float64() - 0.5) * defaultJitter
	dLng := (r.rnd.Float64() - 0.5) * defaultJitter
	r.mu.Unlock()

	return Coordinates{r.anchor.Lat() + dLat, r.anchor.Lng() + dLng}
}
