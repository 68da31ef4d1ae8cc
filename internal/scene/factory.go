package scene

import (
	"fmt"
	"log/slog"
)

// ProviderType represents the type of scene provider.
type ProviderType string

const (
	// ProviderTypeStreetView represents the Google Street View metadata endpoint.
	ProviderTypeStreetView ProviderType = "streetview"
	// ProviderTypeNone disables look around. Every lookup reports no coverage.
	ProviderTypeNone ProviderType = "none"
)

// ProviderConfig holds configuration for creating a scene provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (Street View)
	Radius    int          // Search radius in meters
	RateLimit int          // Requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a scene provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeStreetView:
		return NewStreetViewProvider(config.APIKey, config.Radius, config.RateLimit, config.Logger)
	case ProviderTypeNone:
		return NewDisabledProvider(config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
