package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/gmaps"
	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = fmt.Errorf("%w: get empty response from Google Maps API", ErrNotFound)

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode resolves the query with the Google Maps Geocoding API and returns the
// first result. The formatted address becomes the placemark name.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.Placemark, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode query: %w", gmaps.RedactURLError(err))
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	first := geocodeResponse[0]
	coords := gmaps.FromLatLng(first.Geometry.Location)

	return &models.Placemark{Name: first.FormattedAddress, Location: &coords}, nil
}
