package geo

import (
	"github.com/twpayne/go-geom"
)

// Coordinates is a latitude/longitude pair, serialized as [lat, lng]
type Coordinates [2]float64

// CampusAnchor is the reference point for walking times and default pins
var CampusAnchor = Coordinates{40.4866, -74.4507}

// Lat returns the latitude
func (c Coordinates) Lat() float64 { return c[0] }

// Lng returns the longitude
func (c Coordinates) Lng() float64 { return c[1] }

// Coord returns the planar x/y coordinate (lng, lat)
func (c Coordinates) Coord() geom.Coord {
	return geom.Coord{c.Lng(), c.Lat()}
}

// Point returns the coordinate as a GeoJSON-ordered point
func (c Coordinates) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lng(), c.Lat()})
}
