package models_test

import (
	"testing"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		assert.Equal(t, "48.2187901,11.6236227", models.AllianzArena.String())
	})

	t.Run("validity", func(t *testing.T) {
		assert.True(t, models.Home.Valid())
		assert.False(t, models.Coordinates{Latitude: 91, Longitude: 0}.Valid())
		assert.False(t, models.Coordinates{Latitude: 0, Longitude: -180.5}.Valid())
	})

	t.Run("distance between home and arena", func(t *testing.T) {
		// Roughly 480 km between Witten and Munich.
		dist := models.Home.DistanceTo(models.AllianzArena)
		assert.InDelta(t, 480_000, dist, 20_000)
		assert.InDelta(t, dist, models.AllianzArena.DistanceTo(models.Home), 1e-6)
	})

	t.Run("distance to itself", func(t *testing.T) {
		assert.InDelta(t, 0, models.Home.DistanceTo(models.Home), 1e-9)
	})
}

func TestRegion(t *testing.T) {
	region := models.NewRegion(models.Home)

	assert.Equal(t, models.Home, region.Center)
	assert.InDelta(t, 1000, region.LatitudinalMeters, 1e-9)
	assert.InDelta(t, 1000, region.LongitudinalMeters, 1e-9)

	span := region.Span()
	assert.InDelta(t, 0.009, span.LatitudeDelta, 0.0002)
	// Longitude degrees shrink with latitude, so the delta must be wider.
	assert.Greater(t, span.LongitudeDelta, span.LatitudeDelta)

	assert.True(t, region.Contains(models.Home))
	assert.False(t, region.Contains(models.AllianzArena))
}

func TestRegion_Pole(t *testing.T) {
	region := models.NewRegion(models.Coordinates{Latitude: 90, Longitude: 0})

	assert.InDelta(t, 360, region.Span().LongitudeDelta, 1e-9)
}

func TestLandmarks(t *testing.T) {
	landmarks := models.Landmarks()

	require.Len(t, landmarks, 2)
	assert.Equal(t, models.Annotation{Title: "My Home", Location: models.Home}, landmarks[0])
	assert.Equal(t, models.Annotation{Title: "Allianz Arena", Location: models.AllianzArena}, landmarks[1])

	landmarks[0].Title = "changed"
	assert.Equal(t, "My Home", models.Landmarks()[0].Title)
}

func TestNewRoute(t *testing.T) {
	t.Run("appends destination when path stops short", func(t *testing.T) {
		path := []models.Coordinates{
			{Latitude: 51.44106, Longitude: 7.34020},
			{Latitude: 50.0, Longitude: 9.0},
			{Latitude: 48.21879, Longitude: 11.62362},
		}

		route := models.NewRoute(path, models.AllianzArena)

		require.Len(t, route.Polyline, 4)
		assert.Equal(t, models.AllianzArena, route.End())
		assert.Equal(t, path[0], route.Start())
	})

	t.Run("keeps path ending on destination", func(t *testing.T) {
		path := []models.Coordinates{models.Home, models.AllianzArena}

		route := models.NewRoute(path, models.AllianzArena)

		require.Len(t, route.Polyline, 2)
		assert.Equal(t, models.AllianzArena, route.End())
	})

	t.Run("replaces a last point within rounding distance", func(t *testing.T) {
		nearly := models.Coordinates{Latitude: 48.21879012, Longitude: 11.62362268}
		path := []models.Coordinates{models.Home, nearly}

		route := models.NewRoute(path, models.AllianzArena)

		require.Len(t, route.Polyline, 2)
		assert.Equal(t, models.AllianzArena, route.End())
		assert.Equal(t, nearly, path[1], "input path is not modified")
	})

	t.Run("empty path", func(t *testing.T) {
		route := models.NewRoute(nil, models.AllianzArena)

		require.Len(t, route.Polyline, 1)
		assert.Equal(t, models.AllianzArena, route.Start())
	})

	t.Run("bounds", func(t *testing.T) {
		route := models.NewRoute([]models.Coordinates{models.Home}, models.AllianzArena)

		assert.Equal(t, models.Bounds{
			SouthWest: models.Coordinates{Latitude: 48.2187901, Longitude: 7.3402022},
			NorthEast: models.Coordinates{Latitude: 51.4410628, Longitude: 11.6236227},
		}, route.Bounds)
	})
}
