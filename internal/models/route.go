package models

import "time"

// Bounds is the bounding box of a polyline.
type Bounds struct {
	SouthWest Coordinates `json:"south_west"`
	NorthEast Coordinates `json:"north_east"`
}

// Route is an ordered driving path between two points plus its display geometry.
type Route struct {
	Polyline           []Coordinates `json:"polyline"`
	Bounds             Bounds        `json:"bounds"`
	DistanceMeters     float64       `json:"distance_meters"`
	ExpectedTravelTime time.Duration `json:"expected_travel_time"`
	Summary            string        `json:"summary,omitempty"`
}

// NewRoute builds a Route from a decoded path. The path always ends exactly at
// destination: services snap endpoints to the road network and round them, so a
// last point within rounding distance is replaced and any other is followed by
// destination.
func NewRoute(path []Coordinates, destination Coordinates) *Route {
	const sameEpsilon = 1e-7

	polyline := make([]Coordinates, 0, len(path)+1)
	polyline = append(polyline, path...)
	if last := len(polyline) - 1; last >= 0 && polyline[last].AlmostEqual(destination, sameEpsilon) {
		polyline[last] = destination
	} else {
		polyline = append(polyline, destination)
	}

	return &Route{
		Polyline: polyline,
		Bounds:   BoundsOf(polyline),
	}
}

// Start returns the first point of the route.
func (r *Route) Start() Coordinates {
	return r.Polyline[0]
}

// End returns the last point of the route.
func (r *Route) End() Coordinates {
	return r.Polyline[len(r.Polyline)-1]
}

// BoundsOf returns the smallest box containing all points. Zero value for an empty slice.
func BoundsOf(points []Coordinates) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	bounds := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		bounds.SouthWest.Latitude = min(bounds.SouthWest.Latitude, p.Latitude)
		bounds.SouthWest.Longitude = min(bounds.SouthWest.Longitude, p.Longitude)
		bounds.NorthEast.Latitude = max(bounds.NorthEast.Latitude, p.Latitude)
		bounds.NorthEast.Longitude = max(bounds.NorthEast.Longitude, p.Longitude)
	}

	return bounds
}
