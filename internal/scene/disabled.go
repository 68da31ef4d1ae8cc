package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/models"
)

// ErrLookAroundDisabled is returned by DisabledProvider. It wraps ErrNoCoverage.
var ErrLookAroundDisabled = fmt.Errorf("%w: look around is disabled", ErrNoCoverage)

// DisabledProvider serves setups without street-level imagery.
type DisabledProvider struct {
	log *slog.Logger
}

// NewDisabledProvider creates a provider that never finds a scene.
func NewDisabledProvider(log *slog.Logger) *DisabledProvider {
	return &DisabledProvider{log: log}
}

// LookupScene always fails with ErrLookAroundDisabled.
func (dp *DisabledProvider) LookupScene(ctx context.Context, at models.Coordinates) (*models.Scene, error) {
	dp.log.DebugContext(ctx, "Look around is disabled", "location", at.String())

	return nil, ErrLookAroundDisabled
}
