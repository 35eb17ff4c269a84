package app

import (
	"log/slog"

	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/bikeshare"
	"bikeflow.bluebikes.org/internal/cache"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config           appconf.Config
	BikeshareConfig  bikeshare.Config
	Logger           *slog.Logger
	BikeshareManager *bikeshare.Manager
	TrafficCache     cache.TrafficCache
}
