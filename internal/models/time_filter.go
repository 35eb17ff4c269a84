package models

import (
	"fmt"
	"strconv"
	"time"
)

// MinutesPerDay is the upper bound of the time-of-day slider.
const MinutesPerDay = 24 * 60

// TimeFilter is a time of day in minutes since midnight, or NoFilter.
type TimeFilter int

// NoFilter counts every trip.
const NoFilter TimeFilter = -1

// ParseTimeFilter parses a slider value. An empty string is NoFilter.
func ParseTimeFilter(raw string) (TimeFilter, error) {
	if raw == "" {
		return NoFilter, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return NoFilter, fmt.Errorf("time filter %q is not an integer", raw)
	}
	f := TimeFilter(v)
	if !f.Valid() {
		return NoFilter, fmt.Errorf("time filter %d out of range [-1, %d]", v, MinutesPerDay)
	}
	return f, nil
}

func (f TimeFilter) Valid() bool {
	return f == NoFilter || (f >= 0 && f <= MinutesPerDay)
}

func (f TimeFilter) IsActive() bool {
	return f != NoFilter
}

// Label is the slider's time label, e.g. "3:05 PM". Empty when inactive.
func (f TimeFilter) Label() string {
	if !f.IsActive() {
		return ""
	}
	return FormatMinutes(int(f))
}

// FormatMinutes renders minutes since midnight as a short clock time.
func FormatMinutes(minutes int) string {
	t := time.Date(2000, time.January, 1, 0, minutes, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
