package models

import (
	"math"
	"strconv"
)

// earthRadiusMeters is the mean Earth radius used for distance and span conversions.
const earthRadiusMeters = 6371008.8

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point, in degrees.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point, in degrees.
}

var (
	// Home is the fixed residence coordinate the camera starts on.
	Home = Coordinates{Latitude: 51.4410628, Longitude: 7.3402022}
	// AllianzArena is the fixed landmark coordinate.
	AllianzArena = Coordinates{Latitude: 48.2187901, Longitude: 11.6236227}
)

// String formats the point as "lat,lng", the form accepted by most mapping APIs.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Valid reports whether both components are within their degree ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// AlmostEqual reports whether both components differ by less than epsilon degrees.
func (c Coordinates) AlmostEqual(other Coordinates, epsilon float64) bool {
	return math.Abs(c.Latitude-other.Latitude) < epsilon && math.Abs(c.Longitude-other.Longitude) < epsilon
}

// DistanceTo returns the great-circle (haversine) distance to other in meters.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	lat1 := radians(c.Latitude)
	lat2 := radians(other.Latitude)
	dLat := lat2 - lat1
	dLng := radians(other.Longitude - c.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
