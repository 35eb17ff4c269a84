package tripdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/traffic"
)

// InsertStationBatch adds stations to the database in one transaction.
func InsertStationBatch(ctx context.Context, db *sql.DB, stations []models.Station) error {
	return inTx(ctx, db, "insert_station_batch", func(tx *sql.Tx) error {
		return insertStations(ctx, tx, stations)
	})
}

// InsertTripBatch adds trips to the database in one transaction.
func InsertTripBatch(ctx context.Context, db *sql.DB, trips []models.Trip) error {
	return inTx(ctx, db, "insert_trip_batch", func(tx *sql.Tx) error {
		return insertTrips(ctx, tx, trips)
	})
}

func inTx(ctx context.Context, db *sql.DB, operation string, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.RollbackLogged(slog.Default(), operation, tx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func insertStations(ctx context.Context, tx *sql.Tx, stations []models.Station) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO stations (
			station_id, station_name, station_lat, station_lon, capacity
		) VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Lat, s.Lon, s.Capacity); err != nil {
			return fmt.Errorf("error inserting station %s: %w", s.ID, err)
		}
	}
	return nil
}

func insertTrips(ctx context.Context, tx *sql.Tx, trips []models.Trip) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (
			ride_id, start_station_id, end_station_id,
			started_at, ended_at, start_minute, end_minute
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, t := range trips {
		_, err := stmt.ExecContext(ctx,
			t.RideID, t.StartStationID, t.EndStationID,
			t.StartedAt.Unix(), t.EndedAt.Unix(),
			traffic.MinutesSinceMidnight(t.StartedAt), traffic.MinutesSinceMidnight(t.EndedAt),
		)
		if err != nil {
			return fmt.Errorf("error inserting trip %s: %w", t.RideID, err)
		}
	}
	return nil
}
