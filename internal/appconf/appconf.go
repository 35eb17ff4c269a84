package appconf

import (
	"strings"

	"bikeflow.bluebikes.org/internal/models"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag to an Environment. Unknown values are Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds all the configuration settings for the Application.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	Verbose   bool
	Map       MapConfig
}

// MapConfig is the initial state of the client map and its overlays.
type MapConfig struct {
	Style                 string
	CenterLon             float64
	CenterLat             float64
	Zoom                  float64
	MinZoom               float64
	MaxZoom               float64
	BostonBikeLanesURL    string
	CambridgeBikeLanesURL string
}

const (
	DefaultBostonBikeLanesURL    = "https://bostonopendata-boston.opendata.arcgis.com/datasets/boston::existing-bike-network-2022.geojson"
	DefaultCambridgeBikeLanesURL = "https://raw.githubusercontent.com/cambridgegis/cambridgegis_data/main/Recreation/Bike_Facilities/RECREATION_BikeFacilities.geojson"
)

// DefaultMapConfig centers on Cambridge at city zoom.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Style:                 "mapbox://styles/mapbox/light-v11",
		CenterLon:             -71.09415,
		CenterLat:             42.36027,
		Zoom:                  12,
		MinZoom:               5,
		MaxZoom:               18,
		BostonBikeLanesURL:    DefaultBostonBikeLanesURL,
		CambridgeBikeLanesURL: DefaultCambridgeBikeLanesURL,
	}
}

// Model converts the map settings to the response model.
func (m MapConfig) Model() models.MapConfig {
	overlays := make([]models.Overlay, 0, 2)
	if m.BostonBikeLanesURL != "" {
		overlays = append(overlays, models.NewBikeLaneOverlay("boston-bike-lanes", "boston_route", m.BostonBikeLanesURL))
	}
	if m.CambridgeBikeLanesURL != "" {
		overlays = append(overlays, models.NewBikeLaneOverlay("cambridge-bike-lanes", "cambridge_route", m.CambridgeBikeLanesURL))
	}
	return models.MapConfig{
		Style:    m.Style,
		Center:   models.LngLat{Lon: m.CenterLon, Lat: m.CenterLat},
		Zoom:     m.Zoom,
		MinZoom:  m.MinZoom,
		MaxZoom:  m.MaxZoom,
		Overlays: overlays,
	}
}

// Center returns the initial map center.
func (m MapConfig) Center() models.LngLat {
	return models.LngLat{Lon: m.CenterLon, Lat: m.CenterLat}
}
