package routing

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
)

// OSRMBaseURL is the public OSRM demo server.
const OSRMBaseURL = "https://router.project-osrm.org"

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for OSRM provider.
var (
	ErrOSRMNoRoute     = fmt.Errorf("%w: osrm found no route", ErrNoRoute)
	ErrOSRMUnsupported = errors.New("osrm rejected the request")
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string  `json:"geometry"` // encoded polyline, precision 5
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// OSRMProvider computes driving routes with an OSRM server.
type OSRMProvider struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
	limiter *rate.Limiter
}

// NewOSRMProvider creates an OSRM provider for baseURL (OSRMBaseURL when empty).
func NewOSRMProvider(baseURL string, rateLimit int, log *slog.Logger) *OSRMProvider {
	const timeout = 10

	return NewOSRMProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		baseURL,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewOSRMProviderWithClient allows injecting custom HTTP client.
func NewOSRMProviderWithClient(client HTTPClient, baseURL string, limiter *rate.Limiter, log *slog.Logger) *OSRMProvider {
	if baseURL == "" {
		baseURL = OSRMBaseURL
	}

	return &OSRMProvider{client: client, baseURL: baseURL, log: log, limiter: limiter}
}

// Route requests a driving route. OSRM expects "lon,lat" pairs separated by ";".
func (op *OSRMProvider) Route(ctx context.Context, origin, destination models.Coordinates) (*models.Route, error) {
	if err := op.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	op.log.DebugContext(ctx, "Routing using OSRM", "origin", origin.String(), "destination", destination.String())

	reqURL, err := url.Parse(op.baseURL + "/route/v1/driving/" + lonLat(origin) + ";" + lonLat(destination))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("overview", "full")
	params.Set("geometries", "polyline")
	params.Set("alternatives", "false")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result osrmResponse
	if err = json.Unmarshal(body, &result); err != nil {
		op.log.ErrorContext(ctx, "OSRM API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("osrm API returned status %d: %w", resp.StatusCode, err)
	}

	switch result.Code {
	case "Ok":
		// continue
	case "NoRoute", "NoSegment":
		return nil, ErrOSRMNoRoute
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrOSRMUnsupported, result.Code, result.Message)
	}

	if len(result.Routes) == 0 {
		return nil, ErrOSRMNoRoute
	}
	first := result.Routes[0]

	path, err := gmaps.DecodePath(first.Geometry)
	if err != nil {
		return nil, err
	}

	route := models.NewRoute(path, destination)
	route.DistanceMeters = first.Distance
	route.ExpectedTravelTime = time.Duration(first.Duration * float64(time.Second))

	return route, nil
}

func lonLat(c models.Coordinates) string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}
