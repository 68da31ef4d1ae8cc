package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/httpapi"
	"github.com/UnknownOlympus/compass/internal/location"
	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/scene"
	"github.com/UnknownOlympus/compass/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *httpapi.Server
	view     *mapview.MapView
	locator  *location.StaticProvider
	geocoder *mocks.GeocodingProvider
	router   *mocks.RoutingProvider
	scenes   *mocks.SceneProvider
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	home := models.Home
	return newFixtureAt(t, &home)
}

// newFixtureAt serves a view whose location stream starts at initial, or without a fix when nil.
func newFixtureAt(t *testing.T, initial *models.Coordinates) *fixture {
	t.Helper()

	fx := &fixture{
		locator:  location.NewStaticProvider(initial),
		geocoder: mocks.NewGeocodingProvider(t),
		router:   mocks.NewRoutingProvider(t),
		scenes:   mocks.NewSceneProvider(t),
		metrics:  metrics.NewMetrics(prometheus.NewRegistry()),
	}
	view := mapview.New(mapview.Dependencies{
		Geocoder: fx.geocoder,
		Router:   fx.router,
		Scenes:   fx.scenes,
		Locator:  fx.locator,
		Metrics:  fx.metrics,
		Logger:   slog.Default(),
	})
	fx.view = view

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		view.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	fx.server = httpapi.NewServer(view, fx.locator, slog.Default(), fx.metrics, 0)

	return fx
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"fields"`
	} `json:"error"`
}

type outcome struct {
	ID        string        `json:"id"`
	Operation string        `json:"operation"`
	Kind      string        `json:"kind"`
	OK        bool          `json:"ok"`
	State     mapview.State `json:"state"`
}

func (fx *fixture) do(t *testing.T, method, target, body string) (int, envelope) {
	t.Helper()

	resp, err := fx.server.App().Test(newRequest(method, target, body), -1)
	require.NoError(t, err)

	return decodeResponse(t, resp)
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func decodeResponse(t *testing.T, resp *http.Response) (int, envelope) {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func decodeOutcome(t *testing.T, env envelope) outcome {
	t.Helper()

	var out outcome
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out
}

func TestGetState(t *testing.T) {
	fx := newFixture(t)

	status, env := fx.do(t, http.MethodGet, "/api/v1/state", "")

	require.Equal(t, http.StatusOK, status)
	var state mapview.State
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, models.Home, state.Region.Center)
	assert.False(t, state.SceneVisible)
	require.Len(t, state.Annotations, 2)
	assert.Equal(t, "My Home", state.Annotations[0].Title)
	assert.Equal(t, "Allianz Arena", state.Annotations[1].Title)
}

func TestSearch(t *testing.T) {
	arena := &models.Placemark{Name: "Allianz Arena", Location: &models.Coordinates{Latitude: 48.2187901, Longitude: 11.6236227}}

	t.Run("text from body", func(t *testing.T) {
		fx := newFixture(t)
		fx.geocoder.On("Geocode", mock.Anything, "Allianz Arena").Return(arena, nil).Once()

		status, env := fx.do(t, http.MethodPost, "/api/v1/search", `{"text":"Allianz Arena"}`)

		require.Equal(t, http.StatusOK, status)
		out := decodeOutcome(t, env)
		assert.True(t, out.OK)
		assert.Equal(t, "search", out.Operation)
		assert.NotEmpty(t, out.ID)
		assert.Equal(t, "Allianz Arena", out.State.SearchText)
		require.NotNil(t, out.State.Placemark)
		assert.Equal(t, "Allianz Arena", out.State.Placemark.Name)
		assert.Equal(t, models.AllianzArena, out.State.Region.Center)
	})

	t.Run("stored text", func(t *testing.T) {
		fx := newFixture(t)
		fx.geocoder.On("Geocode", mock.Anything, "Allianz Arena").Return(arena, nil).Once()

		status, env := fx.do(t, http.MethodPut, "/api/v1/search-text", `{"text":"Allianz Arena"}`)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, decodeOutcome(t, env).OK)

		status, env = fx.do(t, http.MethodPost, "/api/v1/search", "")

		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, models.AllianzArena, decodeOutcome(t, env).State.Region.Center)
	})

	t.Run("not found is still 200", func(t *testing.T) {
		fx := newFixture(t)
		fx.geocoder.On("Geocode", mock.Anything, "nowhere").Return(nil, geocoding.ErrNotFound).Once()

		status, env := fx.do(t, http.MethodPost, "/api/v1/search", `{"text":"nowhere"}`)

		require.Equal(t, http.StatusOK, status)
		out := decodeOutcome(t, env)
		assert.False(t, out.OK)
		assert.Equal(t, "not_found", out.Kind)
		assert.Nil(t, out.State.Placemark)
		require.NotNil(t, out.State.LastError)
		assert.Empty(t, out.State.LastError.Message, "causes are not exposed")
		assert.NotContains(t, string(env.Data), geocoding.ErrNotFound.Error())
	})

	t.Run("malformed body", func(t *testing.T) {
		fx := newFixture(t)

		status, env := fx.do(t, http.MethodPost, "/api/v1/search", `{"text":`)

		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "invalid request body", env.Error.Message)
	})
}

func TestDirections(t *testing.T) {
	t.Run("route", func(t *testing.T) {
		fx := newFixture(t)
		route := models.NewRoute([]models.Coordinates{models.Home}, models.AllianzArena)
		fx.router.On("Route", mock.Anything, models.Home, models.AllianzArena).Return(route, nil).Once()

		status, env := fx.do(t, http.MethodPost, "/api/v1/directions", `{"latitude":48.2187901,"longitude":11.6236227}`)

		require.Equal(t, http.StatusOK, status)
		out := decodeOutcome(t, env)
		assert.True(t, out.OK)
		require.NotNil(t, out.State.Route)
		assert.Equal(t, models.AllianzArena, out.State.Route.End())
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			field string
			rule  string
		}{
			{name: "missing latitude", body: `{"longitude":11.6}`, field: "Latitude", rule: "required"},
			{name: "latitude out of range", body: `{"latitude":91,"longitude":11.6}`, field: "Latitude", rule: "latitude"},
			{name: "longitude out of range", body: `{"latitude":48.2,"longitude":-181}`, field: "Longitude", rule: "longitude"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fx := newFixture(t)

				status, env := fx.do(t, http.MethodPost, "/api/v1/directions", tt.body)

				assert.Equal(t, http.StatusBadRequest, status)
				require.NotNil(t, env.Error)
				assert.Equal(t, "validation failed", env.Error.Message)
				require.Len(t, env.Error.Fields, 1)
				assert.Equal(t, tt.field, env.Error.Fields[0].Field)
				assert.Equal(t, tt.rule, env.Error.Fields[0].Rule)
			})
		}
	})

	t.Run("zero coordinates are valid", func(t *testing.T) {
		fx := newFixture(t)
		null := models.Coordinates{}
		fx.router.On("Route", mock.Anything, models.Home, null).Return(nil, assert.AnError).Once()

		status, env := fx.do(t, http.MethodPost, "/api/v1/directions", `{"latitude":0,"longitude":0}`)

		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "unroutable", decodeOutcome(t, env).Kind)
	})
}

func TestLookAround(t *testing.T) {
	fx := newFixture(t)
	found := &models.Scene{ID: "pano-1", Location: models.AllianzArena}
	fx.scenes.On("LookupScene", mock.Anything, models.AllianzArena).Return(found, nil).Once()
	fx.scenes.On("LookupScene", mock.Anything, models.Home).Return(nil, scene.ErrNoCoverage).Once()

	status, env := fx.do(t, http.MethodPost, "/api/v1/look-around", `{"latitude":48.2187901,"longitude":11.6236227}`)
	require.Equal(t, http.StatusOK, status)
	out := decodeOutcome(t, env)
	assert.True(t, out.State.SceneVisible)
	require.NotNil(t, out.State.Scene)
	assert.Equal(t, "pano-1", out.State.Scene.ID)

	status, env = fx.do(t, http.MethodDelete, "/api/v1/look-around", "")
	require.Equal(t, http.StatusOK, status)
	out = decodeOutcome(t, env)
	assert.Equal(t, "dismiss_scene", out.Operation)
	assert.False(t, out.State.SceneVisible)

	status, env = fx.do(t, http.MethodPost, "/api/v1/look-around", `{"latitude":51.4410628,"longitude":7.3402022}`)
	require.Equal(t, http.StatusOK, status)
	out = decodeOutcome(t, env)
	assert.Equal(t, "unavailable", out.Kind)
	assert.False(t, out.State.SceneVisible)
	assert.Nil(t, out.State.Scene)
}

func TestUnknownRoute(t *testing.T) {
	fx := newFixture(t)

	status, env := fx.do(t, http.MethodGet, "/api/v1/unknown", "")

	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusNotFound, env.Error.Code)
}

func TestRequestMetrics(t *testing.T) {
	fx := newFixture(t)

	status, _ := fx.do(t, http.MethodGet, "/api/v1/state", "")

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.HTTPRequests.WithLabelValues("/api/v1/state", "200")), 0)
}

func TestPublishLocation(t *testing.T) {
	marienplatz := models.Coordinates{Latitude: 48.137154, Longitude: 11.576124}

	t.Run("published fix unblocks directions", func(t *testing.T) {
		fx := newFixtureAt(t, nil)
		route := models.NewRoute([]models.Coordinates{marienplatz}, models.AllianzArena)
		fx.router.On("Route", mock.Anything, marienplatz, models.AllianzArena).Return(route, nil).Once()

		type result struct {
			resp *http.Response
			err  error
		}
		pending := make(chan result, 1)
		go func() {
			req := newRequest(http.MethodPost, "/api/v1/directions", `{"latitude":48.2187901,"longitude":11.6236227}`)
			resp, err := fx.server.App().Test(req, -1)
			pending <- result{resp: resp, err: err}
		}()

		status, env := fx.do(t, http.MethodPut, "/api/v1/location", `{"latitude":48.137154,"longitude":11.576124}`)
		require.Equal(t, http.StatusOK, status)
		var published models.Coordinates
		require.NoError(t, json.Unmarshal(env.Data, &published))
		assert.Equal(t, marienplatz, published)

		var got result
		select {
		case got = <-pending:
		case <-time.After(2 * time.Second):
			t.Fatal("directions did not complete after the location was published")
		}
		require.NoError(t, got.err)
		status, env = decodeResponse(t, got.resp)

		require.Equal(t, http.StatusOK, status)
		out := decodeOutcome(t, env)
		assert.True(t, out.OK)
		require.NotNil(t, out.State.Route)
		assert.Equal(t, marienplatz, out.State.Route.Start())
		assert.Equal(t, models.AllianzArena, out.State.Route.End())
	})

	t.Run("becomes the user location", func(t *testing.T) {
		fx := newFixture(t)

		status, _ := fx.do(t, http.MethodPut, "/api/v1/location", `{"latitude":48.137154,"longitude":11.576124}`)

		require.Equal(t, http.StatusOK, status)
		assert.Eventually(t, func() bool {
			at := fx.view.Snapshot().UserLocation
			return at != nil && *at == marienplatz
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("validation", func(t *testing.T) {
		fx := newFixture(t)

		status, env := fx.do(t, http.MethodPut, "/api/v1/location", `{"latitude":48.137154}`)

		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Fields, 1)
		assert.Equal(t, "Longitude", env.Error.Fields[0].Field)
		assert.Equal(t, "required", env.Error.Fields[0].Rule)
	})

	t.Run("rejected without a publisher", func(t *testing.T) {
		fx := newFixture(t)
		server := httpapi.NewServer(fx.view, nil, slog.Default(), fx.metrics, 0)

		resp, err := server.App().Test(newRequest(http.MethodPut, "/api/v1/location", `{"latitude":48.1,"longitude":11.5}`), -1)
		require.NoError(t, err)
		status, env := decodeResponse(t, resp)

		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "location is not accepted by this server", env.Error.Message)
	})
}
