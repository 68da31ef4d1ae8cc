// Package scene looks up street-level panoramas ("look around" scenes).
package scene

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/compass/internal/models"
)

// ErrNoCoverage is wrapped by every error meaning "no panorama exists near the point".
var ErrNoCoverage = errors.New("no street-level coverage at the location")

// Provider returns the panorama descriptor closest to a coordinate.
type Provider interface {
	LookupScene(ctx context.Context, at models.Coordinates) (*models.Scene, error)
}
