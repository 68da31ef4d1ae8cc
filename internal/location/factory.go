package location

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/gmaps"
	"github.com/UnknownOlympus/compass/internal/models"
)

// ProviderType represents the type of location provider.
type ProviderType string

const (
	// ProviderTypeGoogle polls the Google Geolocation API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeStatic serves a configured or published position.
	ProviderTypeStatic ProviderType = "static"
)

// ProviderConfig holds configuration for creating a location provider.
type ProviderConfig struct {
	Type         ProviderType        // Type of provider to create
	APIKey       string              // API key (Google)
	RateLimit    int                 // Requests per second (Google)
	PollInterval time.Duration       // Interval between fixes (Google)
	Initial      *models.Coordinates // Initial position (static), nil for none
	Logger       *slog.Logger        // Logger for the provider
}

// NewProvider creates a location provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		client, err := gmaps.NewClient(config.APIKey, config.RateLimit)
		if err != nil {
			return nil, err
		}
		if config.PollInterval <= 0 {
			config.PollInterval = 30 * time.Second
		}
		return NewGoogleProvider(client, config.PollInterval, config.Logger), nil
	case ProviderTypeStatic:
		return NewStaticProvider(config.Initial), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
