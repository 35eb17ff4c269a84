package tripdb

import (
	"time"

	"bikeflow.bluebikes.org/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	DBPath string // Path to SQLite database file, or ":memory:"
	Env    appconf.Environment
	// Location is the zone trip timestamps are read back in; UTC when nil.
	Location *time.Location
	verbose  bool
}

func NewConfig(dbPath string, env appconf.Environment, location *time.Location, verbose bool) Config {
	return Config{
		DBPath:   dbPath,
		Env:      env,
		Location: location,
		verbose:  verbose,
	}
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
