package bikeshare

import (
	"fmt"
	"strings"
	"time"

	"bikeflow.bluebikes.org/internal/appconf"
)

const (
	DefaultStationsURL     = "https://gbfs.lyft.com/gbfs/1.1/bos/en/station_information.json"
	DefaultTimeZone        = "America/New_York"
	DefaultRefreshInterval = 24 * time.Hour
	DefaultFetchTimeout    = 60 * time.Second
)

type Config struct {
	StationsURL     string
	TripsURL        string
	TimeZone        string
	RefreshInterval time.Duration
	TripDBPath      string
	Env             appconf.Environment
	Verbose         bool
}

// Location resolves TimeZone, defaulting to Boston.
func (config Config) Location() (*time.Location, error) {
	name := config.TimeZone
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

func (config Config) remoteSources() bool {
	return !isLocalFile(config.StationsURL) || !isLocalFile(config.TripsURL)
}

func isLocalFile(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
