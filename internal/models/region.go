package models

import "math"

// DefaultSpanMeters is the height and width of every region the camera is centered with.
const DefaultSpanMeters = 1000

// Region is the visible map viewport: a center and a span in meters.
type Region struct {
	Center             Coordinates `json:"center"`
	LatitudinalMeters  float64     `json:"latitudinal_meters"`
	LongitudinalMeters float64     `json:"longitudinal_meters"`
}

// Span is a region extent expressed in degrees.
type Span struct {
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// NewRegion returns a DefaultSpanMeters x DefaultSpanMeters region centered on center.
func NewRegion(center Coordinates) Region {
	return Region{
		Center:             center,
		LatitudinalMeters:  DefaultSpanMeters,
		LongitudinalMeters: DefaultSpanMeters,
	}
}

// Span converts the metric extent of the region into degree deltas at its center.
// Near the poles the longitude delta is clamped to the full 360 degrees.
func (r Region) Span() Span {
	metersPerDegree := earthRadiusMeters * math.Pi / 180
	latDelta := r.LatitudinalMeters / metersPerDegree

	cos := math.Cos(radians(r.Center.Latitude))
	lngDelta := 360.0
	if cos > 1e-9 {
		lngDelta = math.Min(360, r.LongitudinalMeters/(metersPerDegree*cos))
	}

	return Span{LatitudeDelta: latDelta, LongitudeDelta: lngDelta}
}

// Contains reports whether point lies inside the region's degree span.
func (r Region) Contains(point Coordinates) bool {
	span := r.Span()
	return math.Abs(point.Latitude-r.Center.Latitude) <= span.LatitudeDelta/2 &&
		math.Abs(point.Longitude-r.Center.Longitude) <= span.LongitudeDelta/2
}
