package routing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/gmaps"
	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// DirectionsClient is the part of the Google Maps client used for routing.
type DirectionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrGoogleEmptyResponse is returned when the Directions API answers without routes.
var ErrGoogleEmptyResponse = fmt.Errorf("%w: get empty response from Google Directions API", ErrNoRoute)

// GoogleProvider computes routes with the Google Directions API.
type GoogleProvider struct {
	client DirectionsClient
	log    *slog.Logger
}

// NewGoogleProvider creates a routing provider backed by the Directions API.
func NewGoogleProvider(client DirectionsClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Route asks for driving directions and converts the first route's overview polyline.
func (gp *GoogleProvider) Route(ctx context.Context, origin, destination models.Coordinates) (*models.Route, error) {
	gp.log.DebugContext(ctx, "Routing using Google Directions", "origin", origin.String(), "destination", destination.String())

	req := &maps.DirectionsRequest{
		Origin:      origin.String(),
		Destination: destination.String(),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := gp.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to request directions: %w", gmaps.RedactURLError(err))
	}
	if len(routes) == 0 {
		return nil, ErrGoogleEmptyResponse
	}
	first := routes[0]

	path, err := gmaps.DecodePath(first.OverviewPolyline.Points)
	if err != nil {
		return nil, err
	}

	route := models.NewRoute(path, destination)
	route.Summary = first.Summary

	var (
		distance int
		duration time.Duration
	)
	for _, leg := range first.Legs {
		distance += leg.Meters
		duration += leg.Duration
	}
	route.DistanceMeters = float64(distance)
	route.ExpectedTravelTime = duration

	return route, nil
}
