// Package location supplies the device position, as a live stream of updates or
// as a single read of the first known fix.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/compass/internal/models"
)

// ErrUnknownLocation is wrapped by every error of CurrentLocation.
var ErrUnknownLocation = errors.New("current location is unknown")

// Update is one live location notification. Location is nil while the provider
// has no fix; Err is set when the provider failed.
type Update struct {
	Location *models.Coordinates
	Accuracy float64 // meters, zero when not reported
	Err      error
}

// Provider streams live location updates until ctx is done, then closes the channel.
type Provider interface {
	Updates(ctx context.Context) <-chan Update
}

// CurrentLocation subscribes to provider and waits for the first update carrying
// a coordinate. A failure update, the end of the stream, or ctx expiry all yield
// ErrUnknownLocation. The subscription is cancelled before returning.
func CurrentLocation(ctx context.Context, provider Provider) (models.Coordinates, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := provider.Updates(ctx)
	for {
		select {
		case <-ctx.Done():
			return models.Coordinates{}, fmt.Errorf("%w: %w", ErrUnknownLocation, ctx.Err())
		case update, ok := <-updates:
			if !ok {
				return models.Coordinates{}, fmt.Errorf("%w: location stream ended", ErrUnknownLocation)
			}
			if update.Err != nil {
				return models.Coordinates{}, fmt.Errorf("%w: %w", ErrUnknownLocation, update.Err)
			}
			if update.Location != nil {
				return *update.Location, nil
			}
		}
	}
}
