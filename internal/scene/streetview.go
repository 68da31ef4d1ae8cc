package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/compass/internal/gmaps"
	"github.com/UnknownOlympus/compass/internal/models"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// StreetViewMetadataURL is the Street View Static API metadata endpoint. Metadata
// requests are free of charge and tell whether imagery exists at a location.
const StreetViewMetadataURL = "https://maps.googleapis.com/maps/api/streetview/metadata"

// DefaultSearchRadius is how far, in meters, the service may look for a panorama.
const DefaultSearchRadius = 50

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for Street View provider.
var (
	ErrStreetViewNoImagery = fmt.Errorf("%w: street view has no imagery", ErrNoCoverage)
	ErrStreetViewDenied    = errors.New("street view request denied (invalid API key)")
	ErrStreetViewQuota     = errors.New("street view query limit exceeded")
)

type streetViewMetadata struct {
	Status       string      `json:"status"`
	PanoID       string      `json:"pano_id"`
	Location     maps.LatLng `json:"location"`
	Date         string      `json:"date"`
	Copyright    string      `json:"copyright"`
	ErrorMessage string      `json:"error_message"`
}

// StreetViewProvider looks up panoramas through the Street View metadata endpoint.
type StreetViewProvider struct {
	client  HTTPClient
	baseURL string
	apiKey  string
	radius  int
	log     *slog.Logger
	limiter *rate.Limiter
}

// NewStreetViewProvider creates a Street View provider.
func NewStreetViewProvider(apiKey string, radius, rateLimit int, log *slog.Logger) (*StreetViewProvider, error) {
	const timeout = 10

	if apiKey == "" {
		return nil, gmaps.ErrMissingAPIKey
	}
	if rateLimit <= 0 {
		rateLimit = 10
	}

	return NewStreetViewProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		apiKey,
		radius,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	), nil
}

// NewStreetViewProviderWithClient allows injecting custom HTTP client.
func NewStreetViewProviderWithClient(
	client HTTPClient,
	apiKey string,
	radius int,
	limiter *rate.Limiter,
	log *slog.Logger,
) *StreetViewProvider {
	if radius <= 0 {
		radius = DefaultSearchRadius
	}

	return &StreetViewProvider{
		client:  client,
		baseURL: StreetViewMetadataURL,
		apiKey:  apiKey,
		radius:  radius,
		log:     log,
		limiter: limiter,
	}
}

// LookupScene returns the outdoor panorama nearest to at, within the search radius.
func (sp *StreetViewProvider) LookupScene(ctx context.Context, at models.Coordinates) (*models.Scene, error) {
	if err := sp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	sp.log.DebugContext(ctx, "Looking up Street View panorama", "location", at.String())

	reqURL, err := url.Parse(sp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("location", at.String())
	params.Set("radius", strconv.Itoa(sp.radius))
	params.Set("source", "outdoor")
	params.Set("key", sp.apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := sp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute metadata request: %w", gmaps.RedactURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		sp.log.ErrorContext(ctx, "Street View API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("street view API returned status %d: %s", resp.StatusCode, string(body))
	}

	var meta streetViewMetadata
	if err = json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode street view response: %w", err)
	}

	switch meta.Status {
	case "OK":
		// continue
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, ErrStreetViewNoImagery
	case "REQUEST_DENIED":
		return nil, ErrStreetViewDenied
	case "OVER_QUERY_LIMIT":
		return nil, ErrStreetViewQuota
	default:
		return nil, fmt.Errorf("street view API returned status %s: %s", meta.Status, meta.ErrorMessage)
	}

	return &models.Scene{
		ID:         meta.PanoID,
		Location:   gmaps.FromLatLng(meta.Location),
		CapturedAt: meta.Date,
		Copyright:  meta.Copyright,
	}, nil
}
