package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"golang.org/x/time/rate"
)

// NominatimBaseURL is the public Nominatim search endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// NominatimUserAgent identifies the service as required by the Nominatim usage policy.
const NominatimUserAgent = "Compass-Map-Service/1.0 (https://github.com/UnknownOlympus/compass)"

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client   HTTPClient    // HTTP client for making requests
	baseURL  string        // Base URL for the Nominatim API
	language string        // Accept-Language value sent with every request
	log      *slog.Logger  // Logger for logging operations
	limiter  *rate.Limiter // Rate limiter
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat         string `json:"lat"`          // Latitude as string
	Lon         string `json:"lon"`          // Longitude as string
	Name        string `json:"name"`         // Short name of the object, may be empty
	DisplayName string `json:"display_name"` // Full comma separated address
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = fmt.Errorf("%w: nominatim API returned empty response", ErrNotFound)
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint.
func NewNominatimProvider(language string, rateLimit int, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		language,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(
	client HTTPClient,
	language string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *NominatimProvider {
	if language == "" {
		language = "en"
	}

	return &NominatimProvider{
		client:   client,
		baseURL:  NominatimBaseURL,
		language: language,
		log:      log,
		limiter:  limiter,
	}
}

// Geocode resolves a place name using the Nominatim API.
//
// Comma separated queries use a progressive fallback strategy:
// 1. Try the full query
// 2. Drop the last component (e.g. a house number)
// 3. Drop the last two components
// 4. Try the first component only (city or landmark)
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Placemark, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	variations := np.generateQueryFallbacks(query)

	for idx, variation := range variations {
		placemark, err := np.geocodeSingle(ctx, variation)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Geocoded using fallback query",
					"original", query,
					"fallback", variation,
					"fallback_level", idx)
			}
			return placemark, nil
		}

		// Anything but an empty result is final (API error, invalid coords, etc.)
		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return nil, err
		}

		np.log.DebugContext(ctx, "Query variation returned no results, trying fallback",
			"variation", variation,
			"fallback_level", idx)
	}

	np.log.WarnContext(ctx, "All query fallbacks exhausted", "query", query, "variations_tried", len(variations))
	return nil, ErrNominatimEmptyResponse
}

// generateQueryFallbacks creates a list of progressively simpler query variations.
func (np *NominatimProvider) generateQueryFallbacks(query string) []string {
	if strings.TrimSpace(query) == "" {
		return []string{""}
	}

	seen := make(map[string]bool)
	variations := []string{}

	addVariation := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	addVariation(query)

	parts := strings.Split(query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 1 {
		addVariation(strings.Join(parts[:len(parts)-1], ", "))

		const lenComponents = 2
		if len(parts) > lenComponents {
			addVariation(strings.Join(parts[:len(parts)-2], ", "))
		}

		addVariation(parts[0])
	}

	return variations
}

// geocodeSingle performs a single geocoding request without fallback logic.
func (np *NominatimProvider) geocodeSingle(ctx context.Context, query string) (*models.Placemark, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1") // Only need the top result
	reqURL.RawQuery = params.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", NominatimUserAgent)
	req.Header.Set("Accept-Language", np.language)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	np.log.DebugContext(ctx, "Nominatim raw response", "body", string(body))

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}
	first := results[0]

	var lat, lon float64
	if _, err = fmt.Sscanf(first.Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, first.Lat)
	}
	if _, err = fmt.Sscanf(first.Lon, "%f", &lon); err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, first.Lon)
	}

	name := first.Name
	if name == "" {
		name = first.DisplayName
	}

	return &models.Placemark{
		Name:     name,
		Location: &models.Coordinates{Latitude: lat, Longitude: lon},
	}, nil
}
