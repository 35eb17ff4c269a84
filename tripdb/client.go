package tripdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
)

//go:embed schema.sql
var ddl string

// Client is the main entry point for the trip database
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime atomic.Int64
}

// NewClient opens the database and applies the schema.
func NewClient(config Config) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With(slog.String("component", "tripdb"))
	if config.verbose {
		logger.Debug("created tables", slog.String("db_path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportRuntime reports how long the last import took.
func (c *Client) ImportRuntime() time.Duration {
	return time.Duration(c.importRuntime.Load())
}

// ReplaceDataset swaps the stored stations and trips for a freshly fetched set.
func (c *Client) ReplaceDataset(ctx context.Context, stations []models.Station, trips []models.Trip) error {
	started := time.Now()
	defer func() {
		elapsed := time.Since(started)
		c.importRuntime.Store(int64(elapsed))
		if c.config.verbose {
			logging.LogOperation(c.logger, "trip_db_import_completed",
				slog.Int("stations", len(stations)),
				slog.Int("trips", len(trips)),
				slog.Duration("duration", elapsed))
		}
	}()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.RollbackLogged(c.logger, "replace_dataset", tx)

	for _, table := range []string{"trips", "stations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if err := insertStations(ctx, tx, stations); err != nil {
		return err
	}
	if err := insertTrips(ctx, tx, trips); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// TableCounts returns the row count of every table.
func (c *Client) TableCounts() (counts map[string]int, err error) {
	rows, err := c.DB.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer logging.CloseInto(&err, c.logger, "table_counts", rows)

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts = make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		if err := c.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, err
		}
		counts[table] = count
	}
	return counts, nil
}

func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, errors.New("test database must use in-memory storage")
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	if config.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := performDatabaseMigration(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}
	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}
