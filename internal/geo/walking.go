package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom/xy"
)

// minutesPerDegree converts planar degree distance into walking minutes
const minutesPerDegree = 2000

// WalkingMinutes estimates the walk from c to the campus anchor, never less than a minute
func WalkingMinutes(c Coordinates) int {
	distance := xy.Distance(c.Coord(), CampusAnchor.Coord())
	return max(1, int(math.Round(distance*minutesPerDegree)))
}

// WalkingTime formats WalkingMinutes as a label such as "3 min walk"
func WalkingTime(c Coordinates) string {
	return fmt.Sprintf("%d min walk", WalkingMinutes(c))
}
