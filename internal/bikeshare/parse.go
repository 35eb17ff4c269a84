package bikeshare

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bikeflow.bluebikes.org/internal/models"
)

type stationInformation struct {
	Data struct {
		Stations []struct {
			ShortName string  `json:"short_name"`
			Name      string  `json:"name"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
			Capacity  int     `json:"capacity"`
		} `json:"stations"`
	} `json:"data"`
}

// ParseStations reads a GBFS station_information document. Entries without a
// short_name cannot be matched to trips and are dropped.
func ParseStations(b []byte) ([]models.Station, error) {
	var doc stationInformation
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("error parsing station information: %w", err)
	}

	stations := make([]models.Station, 0, len(doc.Data.Stations))
	for _, s := range doc.Data.Stations {
		if s.ShortName == "" {
			continue
		}
		stations = append(stations, models.Station{
			ID:       s.ShortName,
			Name:     s.Name,
			Lat:      s.Lat,
			Lon:      s.Lon,
			Capacity: s.Capacity,
		})
	}
	return stations, nil
}

var tripColumns = []string{"started_at", "ended_at", "start_station_id", "end_station_id"}

// Fractional seconds after the seconds field are accepted by time.Parse
// without being in the layout.
const tripTimestampLayout = "2006-01-02 15:04:05"

// ParseTrips reads a Bluebikes trip export. Columns are located by header
// name. Rows with unreadable timestamps and repeats of an earlier ride id are
// skipped and counted.
func ParseTrips(b []byte, loc *time.Location) ([]models.Trip, int, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.ReuseRecord = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("error reading trip header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range tripColumns {
		if _, ok := idx[col]; !ok {
			return nil, 0, fmt.Errorf("trip data is missing column %q", col)
		}
	}
	rideCol, hasRideID := idx["ride_id"]

	field := func(record []string, col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var trips []models.Trip
	seen := make(map[string]struct{})
	skipped := 0
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("error reading trip line %d: %w", line, err)
		}

		started, err := parseTimestamp(field(record, "started_at"), loc)
		if err != nil {
			skipped++
			continue
		}
		ended, err := parseTimestamp(field(record, "ended_at"), loc)
		if err != nil {
			skipped++
			continue
		}

		rideID := fmt.Sprintf("line-%d", line)
		if hasRideID && rideCol < len(record) && record[rideCol] != "" {
			rideID = record[rideCol]
		}
		if _, dup := seen[rideID]; dup {
			skipped++
			continue
		}
		seen[rideID] = struct{}{}

		trips = append(trips, models.Trip{
			RideID:         rideID,
			StartStationID: field(record, "start_station_id"),
			EndStationID:   field(record, "end_station_id"),
			StartedAt:      started,
			EndedAt:        ended,
		})
	}
	return trips, skipped, nil
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(tripTimestampLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
