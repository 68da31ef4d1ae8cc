// Package gmaps builds the Google Maps Platform client shared by the geocoding,
// routing and location providers, and converts between its types and ours.
package gmaps

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// ErrMissingAPIKey is returned when a Google client is requested without a key.
var ErrMissingAPIKey = errors.New("API key is required for Google provider")

// NewClient creates a Google Maps client with the API key and, when rateLimit > 0,
// a requests-per-second limit.
func NewClient(apiKey string, rateLimit int) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
	}
	if rateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}

// RedactURLError drops the query string, which carries the API key, from a
// *url.Error returned by an HTTP client. The cause stays reachable through
// errors.Is. Any other error is returned unchanged.
func RedactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	base, _, _ := strings.Cut(urlErr.URL, "?")

	return &url.Error{Op: urlErr.Op, URL: base, Err: urlErr.Err}
}

// ToLatLng converts our coordinates into the client's representation.
func ToLatLng(c models.Coordinates) maps.LatLng {
	return maps.LatLng{Lat: c.Latitude, Lng: c.Longitude}
}

// FromLatLng converts a client location into our coordinates.
func FromLatLng(l maps.LatLng) models.Coordinates {
	return models.Coordinates{Latitude: l.Lat, Longitude: l.Lng}
}

// DecodePath decodes an encoded polyline (precision 5) into coordinates.
func DecodePath(encoded string) ([]models.Coordinates, error) {
	points, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	path := make([]models.Coordinates, 0, len(points))
	for _, p := range points {
		path = append(path, FromLatLng(p))
	}

	return path, nil
}
