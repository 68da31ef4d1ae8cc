package routing_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

func newOSRM(t *testing.T, handler http.HandlerFunc) *routing.OSRMProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return routing.NewOSRMProviderWithClient(server.Client(), server.URL, rate.NewLimiter(rate.Inf, 0), slog.Default())
}

func TestOSRMProvider_Route(t *testing.T) {
	ctx := t.Context()

	t.Run("successful request", func(t *testing.T) {
		geometry := maps.Encode([]maps.LatLng{
			{Lat: 51.44107, Lng: 7.34021},
			{Lat: 48.21879, Lng: 11.62362},
		})

		provider := newOSRM(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/route/v1/driving/7.3402022,51.4410628;11.6236227,48.2187901", r.URL.Path)
			assert.Equal(t, "full", r.URL.Query().Get("overview"))
			assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": "Ok",
				"routes": []map[string]any{
					{"geometry": geometry, "distance": 604321.5, "duration": 21000.0},
				},
			})
		})

		route, err := provider.Route(ctx, models.Home, models.AllianzArena)

		require.NoError(t, err)
		require.NotNil(t, route)
		assert.InDelta(t, 604321.5, route.DistanceMeters, 1e-9)
		assert.Equal(t, 21000*time.Second, route.ExpectedTravelTime)
		assert.Less(t, route.Start().DistanceTo(models.Home), 5.0)
		assert.Equal(t, models.AllianzArena, route.End())
	})

	t.Run("no route", func(t *testing.T) {
		provider := newOSRM(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
		})

		route, err := provider.Route(ctx, models.Home, models.AllianzArena)

		require.Nil(t, route)
		require.ErrorIs(t, err, routing.ErrOSRMNoRoute)
		assert.ErrorIs(t, err, routing.ErrNoRoute)
	})

	t.Run("ok without routes", func(t *testing.T) {
		provider := newOSRM(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[]}`))
		})

		_, err := provider.Route(ctx, models.Home, models.AllianzArena)

		assert.ErrorIs(t, err, routing.ErrNoRoute)
	})

	t.Run("invalid query", func(t *testing.T) {
		provider := newOSRM(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"InvalidQuery","message":"Query string malformed"}`))
		})

		_, err := provider.Route(ctx, models.Home, models.AllianzArena)

		require.ErrorIs(t, err, routing.ErrOSRMUnsupported)
		assert.NotErrorIs(t, err, routing.ErrNoRoute)
		assert.ErrorContains(t, err, "Query string malformed")
	})

	t.Run("non json body", func(t *testing.T) {
		provider := newOSRM(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		})

		_, err := provider.Route(ctx, models.Home, models.AllianzArena)

		assert.ErrorContains(t, err, "osrm API returned status 502")
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		provider := routing.NewOSRMProviderWithClient(
			http.DefaultClient, "", rate.NewLimiter(rate.Every(time.Second), 1), slog.Default(),
		)

		_, err := provider.Route(cancelled, models.Home, models.AllianzArena)

		assert.ErrorContains(t, err, "rate limit exceeded")
	})
}
