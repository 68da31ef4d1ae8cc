package location

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/gmaps"
	"googlemaps.github.io/maps"
)

// GeolocationClient is the part of the Google Maps client used for positioning.
type GeolocationClient interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// GoogleProvider turns the Google Geolocation API into a live stream by polling it.
type GoogleProvider struct {
	client   GeolocationClient
	interval time.Duration
	log      *slog.Logger
}

// NewGoogleProvider creates a provider that asks for a fix every interval.
func NewGoogleProvider(client GeolocationClient, interval time.Duration, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, interval: interval, log: log}
}

// Updates emits one update right away and another after every interval.
func (gp *GoogleProvider) Updates(ctx context.Context) <-chan Update {
	updates := make(chan Update)

	go func() {
		defer close(updates)

		ticker := time.NewTicker(gp.interval)
		defer ticker.Stop()

		for {
			select {
			case updates <- gp.locate(ctx):
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return updates
}

func (gp *GoogleProvider) locate(ctx context.Context) Update {
	result, err := gp.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		gp.log.WarnContext(ctx, "Geolocation request failed", "error", err)
		return Update{Err: fmt.Errorf("failed to geolocate: %w", gmaps.RedactURLError(err))}
	}

	coords := gmaps.FromLatLng(result.Location)
	gp.log.DebugContext(ctx, "Geolocation fix", "location", coords.String(), "accuracy", result.Accuracy)

	return Update{Location: &coords, Accuracy: result.Accuracy}
}
