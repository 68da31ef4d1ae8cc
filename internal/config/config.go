package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable holding an optional YAML configuration file.
const ConfigFileEnv = "COMPASS_CONFIG_FILE"

// Config holds the configuration settings for the compass service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - MonitoringPort: The port for the health and metrics server.
// - HTTPPort: The port for the map API.
// - APIKey: The Google Maps Platform key shared by the Google providers.
// - RateLimit: Requests per second allowed towards each provider.
// - Geocoder, Routing, Scene, Location: Per provider settings.
type Config struct {
	Env            string
	MonitoringPort int
	HTTPPort       int
	APIKey         string
	RateLimit      int
	Geocoder       GeocoderConfig
	Routing        RoutingConfig
	Scene          SceneConfig
	Location       LocationConfig
}

// GeocoderConfig selects the place search provider.
type GeocoderConfig struct {
	Type     string // google, nominatim or visicom
	APIKey   string // overrides the shared key, needed for Visicom
	Language string // result language for Nominatim
}

// RoutingConfig selects the driving directions provider.
type RoutingConfig struct {
	Type    string // google or osrm
	BaseURL string // OSRM server
}

// SceneConfig selects the look around provider.
type SceneConfig struct {
	Type   string // streetview or none
	Radius int    // search radius in meters
}

// LocationConfig selects where the current position comes from.
type LocationConfig struct {
	Type         string              // google or static
	PollInterval time.Duration       // interval between Google fixes
	Initial      *models.Coordinates // static position, nil when not configured
}

// MustLoad loads the configuration from the environment, a .env file and an
// optional YAML file. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// COMPASS_GEOCODER_TYPE -> geocoder.type
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := os.Getenv(ConfigFileEnv); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	monitoringPort, err := strconv.Atoi(v.GetString("monitoring.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	httpPort, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("provider.rate_limit"))
	if err != nil {
		panic("failed to parse rate limit from configuration, must be an integer types")
	}

	radius, err := strconv.Atoi(v.GetString("scene.radius"))
	if err != nil {
		panic("failed to parse scene radius from configuration, must be an integer types")
	}

	interval, err := time.ParseDuration(v.GetString("location.poll_interval"))
	if err != nil {
		panic("failed to parse location poll interval from configuration")
	}

	return &Config{
		Env:            v.GetString("env"),
		MonitoringPort: monitoringPort,
		HTTPPort:       httpPort,
		APIKey:         v.GetString("provider.key"),
		RateLimit:      rateLimit,
		Geocoder: GeocoderConfig{
			Type:     v.GetString("geocoder.type"),
			APIKey:   v.GetString("geocoder.key"),
			Language: v.GetString("geocoder.language"),
		},
		Routing: RoutingConfig{
			Type:    v.GetString("routing.type"),
			BaseURL: v.GetString("routing.osrm_url"),
		},
		Scene: SceneConfig{
			Type:   v.GetString("scene.type"),
			Radius: radius,
		},
		Location: LocationConfig{
			Type:         v.GetString("location.type"),
			PollInterval: interval,
			Initial:      mustParseInitial(v.GetString("location.latitude"), v.GetString("location.longitude")),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("monitoring.port", "8080")
	v.SetDefault("http.port", "8000")
	v.SetDefault("provider.key", "")
	v.SetDefault("provider.rate_limit", "10")
	v.SetDefault("geocoder.type", "google") // Default to Google, same key as routing
	v.SetDefault("geocoder.key", "")
	v.SetDefault("geocoder.language", "en")
	v.SetDefault("routing.type", "google")
	v.SetDefault("routing.osrm_url", "https://router.project-osrm.org")
	v.SetDefault("scene.type", "streetview") // "none" runs without a Google key
	v.SetDefault("scene.radius", "50")
	v.SetDefault("location.type", "static")
	v.SetDefault("location.poll_interval", "30s")
	v.SetDefault("location.latitude", "")
	v.SetDefault("location.longitude", "")
}

// mustParseInitial returns nil when neither coordinate is configured.
func mustParseInitial(latitude, longitude string) *models.Coordinates {
	if latitude == "" && longitude == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		panic("failed to parse static latitude from configuration")
	}
	lng, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		panic("failed to parse static longitude from configuration")
	}

	initial := models.Coordinates{Latitude: lat, Longitude: lng}
	if !initial.Valid() {
		panic("static location from configuration is out of range")
	}

	return &initial
}
