// Package geo provides the coordinate helpers the resolver needs.
package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// NMToMeters is the length of one nautical mile in meters.
const NMToMeters = 1852.0

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Distance calculates the great-circle distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.Distance(orb.Point{p1.Lon, p1.Lat}, orb.Point{p2.Lon, p2.Lat})
}

// DistanceNM calculates the great-circle distance in nautical miles.
func DistanceNM(p1, p2 Point) float64 {
	return Distance(p1, p2) / NMToMeters
}
