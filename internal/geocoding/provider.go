package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/compass/internal/models"
)

// ErrNotFound is wrapped by every provider error that means "no place matches the query".
var ErrNotFound = errors.New("no place matches the query")

// Provider is an interface that defines a method for resolving a place name.
// The Geocode method takes a context and free text as input,
// and returns the first matching placemark and an error if any occurs.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Placemark, error)
}
