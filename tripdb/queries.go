package tripdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/traffic"
)

// ErrStationNotFound is returned by GetStation for unknown ids.
var ErrStationNotFound = errors.New("station not found")

// ListStations returns every station ordered by id.
func (c *Client) ListStations(ctx context.Context) (stations []models.Station, err error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT station_id, station_name, station_lat, station_lon, capacity
		FROM stations
		ORDER BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing stations: %w", err)
	}
	defer logging.CloseInto(&err, c.logger, "list_stations", rows)

	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.Capacity); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// GetStation looks up one station by id.
func (c *Client) GetStation(ctx context.Context, id string) (models.Station, error) {
	var s models.Station
	err := c.DB.QueryRowContext(ctx, `
		SELECT station_id, station_name, station_lat, station_lon, capacity
		FROM stations
		WHERE station_id = ?`, id).Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Station{}, ErrStationNotFound
	}
	if err != nil {
		return models.Station{}, fmt.Errorf("error getting station %s: %w", id, err)
	}
	return s, nil
}

// TripsForStation returns trips starting or ending at stationID, earliest
// first, applying the same time window as the in-memory filter. At most
// limit trips are returned; the flag reports whether more matched.
func (c *Client) TripsForStation(ctx context.Context, stationID string, filter models.TimeFilter, limit int) ([]models.Trip, bool, error) {
	f := int(filter)
	rows, err := c.DB.QueryContext(ctx, `
		SELECT ride_id, start_station_id, end_station_id, started_at, ended_at
		FROM trips
		WHERE (start_station_id = ? OR end_station_id = ?)
		  AND (? = -1 OR abs(start_minute - ?) <= ? OR abs(end_minute - ?) <= ?)
		ORDER BY started_at, ride_id
		LIMIT ?`,
		stationID, stationID,
		f, f, traffic.WindowMinutes, f, traffic.WindowMinutes,
		limit+1)
	if err != nil {
		return nil, false, fmt.Errorf("error querying trips for station %s: %w", stationID, err)
	}
	defer logging.CloseLogged(c.logger, "trips_for_station", rows)

	loc := c.config.location()
	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		var started, endedAt int64
		if err := rows.Scan(&t.RideID, &t.StartStationID, &t.EndStationID, &started, &endedAt); err != nil {
			return nil, false, err
		}
		t.StartedAt = time.Unix(started, 0).In(loc)
		t.EndedAt = time.Unix(endedAt, 0).In(loc)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if len(trips) > limit {
		return trips[:limit], true, nil
	}
	return trips, false, nil
}

// CountTrips returns the number of stored trips.
func (c *Client) CountTrips(ctx context.Context) (int, error) {
	var n int
	err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&n)
	return n, err
}
