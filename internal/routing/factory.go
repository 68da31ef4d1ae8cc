package routing

import (
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/gmaps"
)

// ProviderType represents the type of routing provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents the Google Directions API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeOSRM represents an OSRM server.
	ProviderTypeOSRM ProviderType = "osrm"
)

// ProviderConfig holds configuration for creating a routing provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (Google)
	BaseURL   string       // Server URL (OSRM)
	RateLimit int          // Requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a routing provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		client, err := gmaps.NewClient(config.APIKey, config.RateLimit)
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(client, config.Logger), nil
	case ProviderTypeOSRM:
		if config.RateLimit <= 0 {
			config.RateLimit = 1
		}
		return NewOSRMProvider(config.BaseURL, config.RateLimit, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
