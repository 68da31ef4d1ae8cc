// Package routing computes driving routes between two coordinates.
package routing

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/compass/internal/models"
)

// ErrNoRoute is wrapped by every provider error that means "the service found no route".
var ErrNoRoute = errors.New("no route between the given points")

// Provider computes a driving route between origin and destination.
// Only the first candidate the service offers is returned.
type Provider interface {
	Route(ctx context.Context, origin, destination models.Coordinates) (*models.Route, error)
}
