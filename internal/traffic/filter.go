package traffic

import (
	"time"

	"bikeflow.bluebikes.org/internal/models"
)

// WindowMinutes is the half-width of the slider window. Trips exactly this
// far from the filter value are included.
const WindowMinutes = 60

// MinutesSinceMidnight is the wall-clock minute of day of t in its own location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FilterTripsByTime keeps trips that start or end within WindowMinutes of
// filter. NoFilter returns trips unchanged. The window does not wrap around
// midnight.
func FilterTripsByTime(trips []models.Trip, filter models.TimeFilter) []models.Trip {
	if !filter.IsActive() {
		return trips
	}

	filtered := make([]models.Trip, 0, len(trips))
	for _, trip := range trips {
		if withinWindow(MinutesSinceMidnight(trip.StartedAt), filter) ||
			withinWindow(MinutesSinceMidnight(trip.EndedAt), filter) {
			filtered = append(filtered, trip)
		}
	}
	return filtered
}

func withinWindow(minutes int, filter models.TimeFilter) bool {
	d := minutes - int(filter)
	if d < 0 {
		d = -d
	}
	return d <= WindowMinutes
}
