package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/bikeshare"
)

// cacheConfig selects the traffic cache. An empty RedisAddr keeps the
// cache in process.
type cacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type config struct {
	App       appconf.Config
	Bikeshare bikeshare.Config
	Cache     cacheConfig
}

// parseConfig reads flags from args. Every flag defaults to its environment
// variable, so a .env file loaded beforehand acts as the base layer.
func parseConfig(args []string) (config, error) {
	var cfg config
	var env, apiKeys string

	defaults := appconf.DefaultMapConfig()

	fs := flag.NewFlagSet("bikeflow", flag.ContinueOnError)
	fs.IntVar(&cfg.App.Port, "port", appconf.GetEnvAsInt("PORT", 4000), "API server port")
	fs.StringVar(&env, "env", appconf.GetEnv("ENV", "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", appconf.GetEnv("API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&cfg.App.RateLimit, "rate-limit", appconf.GetEnvAsInt("RATE_LIMIT", 100), "Requests per second per API key, 0 disables")
	fs.BoolVar(&cfg.App.Verbose, "verbose", appconf.GetEnvAsBool("VERBOSE", false), "Debug logging")

	fs.StringVar(&cfg.Bikeshare.StationsURL, "stations-url", appconf.GetEnv("STATIONS_URL", bikeshare.DefaultStationsURL), "GBFS station_information URL or file")
	fs.StringVar(&cfg.Bikeshare.TripsURL, "trips-url", appconf.GetEnv("TRIPS_URL", ""), "Bluebikes trip history CSV URL or file")
	fs.StringVar(&cfg.Bikeshare.TimeZone, "time-zone", appconf.GetEnv("TIME_ZONE", bikeshare.DefaultTimeZone), "Time zone trip timestamps are recorded in")
	fs.DurationVar(&cfg.Bikeshare.RefreshInterval, "refresh-interval", appconf.GetEnvAsDuration("REFRESH_INTERVAL", bikeshare.DefaultRefreshInterval), "How often remote datasets are reloaded, 0 disables")
	fs.StringVar(&cfg.Bikeshare.TripDBPath, "trip-db", appconf.GetEnv("TRIP_DB_PATH", "bikeflow.db"), "SQLite trip database path")

	fs.StringVar(&cfg.Cache.RedisAddr, "redis-addr", appconf.GetEnv("REDIS_ADDR", ""), "Redis address for the traffic cache; empty uses memory")
	fs.StringVar(&cfg.Cache.RedisPassword, "redis-password", appconf.GetEnv("REDIS_PASSWORD", ""), "Redis password")
	fs.IntVar(&cfg.Cache.RedisDB, "redis-db", appconf.GetEnvAsInt("REDIS_DB", 0), "Redis database")
	fs.DurationVar(&cfg.Cache.TTL, "cache-ttl", appconf.GetEnvAsDuration("CACHE_TTL", bikeshare.DefaultRefreshInterval), "Traffic cache entry lifetime")

	fs.StringVar(&cfg.App.Map.Style, "map-style", appconf.GetEnv("MAP_STYLE", defaults.Style), "Base map style")
	fs.Float64Var(&cfg.App.Map.CenterLon, "map-center-lon", appconf.GetEnvAsFloat("MAP_CENTER_LON", defaults.CenterLon), "Initial map center longitude")
	fs.Float64Var(&cfg.App.Map.CenterLat, "map-center-lat", appconf.GetEnvAsFloat("MAP_CENTER_LAT", defaults.CenterLat), "Initial map center latitude")
	fs.Float64Var(&cfg.App.Map.Zoom, "map-zoom", appconf.GetEnvAsFloat("MAP_ZOOM", defaults.Zoom), "Initial map zoom")
	fs.Float64Var(&cfg.App.Map.MinZoom, "map-min-zoom", appconf.GetEnvAsFloat("MAP_MIN_ZOOM", defaults.MinZoom), "Minimum map zoom")
	fs.Float64Var(&cfg.App.Map.MaxZoom, "map-max-zoom", appconf.GetEnvAsFloat("MAP_MAX_ZOOM", defaults.MaxZoom), "Maximum map zoom")
	fs.StringVar(&cfg.App.Map.BostonBikeLanesURL, "boston-bike-lanes-url", appconf.GetEnv("BOSTON_BIKE_LANES_URL", defaults.BostonBikeLanesURL), "Boston bike lane geojson")
	fs.StringVar(&cfg.App.Map.CambridgeBikeLanesURL, "cambridge-bike-lanes-url", appconf.GetEnv("CAMBRIDGE_BIKE_LANES_URL", defaults.CambridgeBikeLanesURL), "Cambridge bike lane geojson")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.App.Env = appconf.EnvFlagToEnvironment(env)
	cfg.App.ApiKeys = appconf.SplitList(apiKeys)
	cfg.Bikeshare.Env = cfg.App.Env
	cfg.Bikeshare.Verbose = cfg.App.Verbose

	return cfg, cfg.validate()
}

func (cfg config) validate() error {
	var errs []error
	if cfg.Bikeshare.TripsURL == "" {
		errs = append(errs, errors.New("trips-url is required"))
	}
	if cfg.Bikeshare.StationsURL == "" {
		errs = append(errs, errors.New("stations-url is required"))
	}
	if len(cfg.App.ApiKeys) == 0 {
		errs = append(errs, errors.New("at least one api key is required"))
	}
	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.App.Port))
	}
	m := cfg.App.Map
	if m.MinZoom > m.MaxZoom {
		errs = append(errs, fmt.Errorf("map-min-zoom %g is above map-max-zoom %g", m.MinZoom, m.MaxZoom))
	}
	if m.Zoom < m.MinZoom || m.Zoom > m.MaxZoom {
		errs = append(errs, fmt.Errorf("map-zoom %g outside [%g, %g]", m.Zoom, m.MinZoom, m.MaxZoom))
	}
	return errors.Join(errs...)
}
