package bikeshare

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"bikeflow.bluebikes.org/internal/cache"
	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/traffic"
	"bikeflow.bluebikes.org/tripdb"
)

// Snapshot is one consistent load of both datasets. It is never modified
// after it is published.
type Snapshot struct {
	Version      uint64
	Stations     []models.Station
	Trips        []models.Trip
	Traffic      []models.StationTraffic
	SkippedTrips int
	LoadedAt     time.Time
}

// Manager owns the station and trip datasets and keeps them fresh.
type Manager struct {
	config       Config
	location     *time.Location
	httpClient   *http.Client
	cache        cache.TrafficCache
	logger       *slog.Logger
	TripDB       *tripdb.Client
	snapshot     *Snapshot
	mu           sync.RWMutex
	refreshMu    sync.Mutex
	listenerMu   sync.Mutex
	listeners    []func(*Snapshot)
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

type Option func(*Manager)

func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) { m.httpClient = client }
}

// WithCache memoizes filtered aggregations.
func WithCache(c cache.TrafficCache) Option {
	return func(m *Manager) { m.cache = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// InitManager loads both datasets and publishes the first snapshot. Neither
// dataset is usable until both have loaded. Remote sources are refreshed
// every RefreshInterval until Shutdown.
func InitManager(ctx context.Context, config Config, opts ...Option) (*Manager, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		config:       config,
		location:     loc,
		httpClient:   &http.Client{Timeout: DefaultFetchTimeout},
		logger:       slog.Default(),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(manager)
	}
	manager.logger = manager.logger.With(slog.String("component", "bikeshare_manager"))

	dbPath := config.TripDBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := tripdb.NewClient(tripdb.NewConfig(dbPath, config.Env, loc, config.Verbose))
	if err != nil {
		return nil, fmt.Errorf("error building trip database: %w", err)
	}
	manager.TripDB = db

	if err := manager.Refresh(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if config.remoteSources() && config.RefreshInterval > 0 {
		manager.wg.Add(1)
		go manager.refreshPeriodically()
	}

	return manager, nil
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.TripDB != nil {
			_ = manager.TripDB.Close()
		}
	})
}

// Refresh fetches both datasets and swaps in a new snapshot. On failure the
// current snapshot stays in place.
func (manager *Manager) Refresh(ctx context.Context) error {
	manager.refreshMu.Lock()
	defer manager.refreshMu.Unlock()

	snapshot, err := manager.load(ctx)
	if err != nil {
		logging.LogError(manager.logger, "failed to load bikeshare data", err,
			slog.String("stations_source", manager.config.StationsURL),
			slog.String("trips_source", manager.config.TripsURL))
		return err
	}

	if err := manager.TripDB.ReplaceDataset(ctx, snapshot.Stations, snapshot.Trips); err != nil {
		logging.LogError(manager.logger, "failed to import trips", err)
		return fmt.Errorf("error importing trips: %w", err)
	}

	manager.setSnapshot(snapshot)
	return nil
}

func (manager *Manager) load(ctx context.Context) (*Snapshot, error) {
	var (
		stations     []models.Station
		trips        []models.Trip
		skipped      int
		stationBytes []byte
		tripBytes    []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		b, err := fetchSource(gctx, manager.httpClient, "stations", manager.config.StationsURL)
		if err != nil {
			return fmt.Errorf("error fetching stations: %w", err)
		}
		stationBytes = b
		stations, err = ParseStations(b)
		if err != nil {
			fetchErrorCount.With(prometheus.Labels{"dataset": "stations"}).Inc()
			return err
		}
		logging.LogDataLoad(manager.logger, "stations", manager.config.StationsURL, len(stations), time.Since(started))
		return nil
	})
	g.Go(func() error {
		started := time.Now()
		b, err := fetchSource(gctx, manager.httpClient, "trips", manager.config.TripsURL)
		if err != nil {
			return fmt.Errorf("error fetching trips: %w", err)
		}
		tripBytes = b
		trips, skipped, err = ParseTrips(b, manager.location)
		if err != nil {
			fetchErrorCount.With(prometheus.Labels{"dataset": "trips"}).Inc()
			return err
		}
		logging.LogDataLoad(manager.logger, "trips", manager.config.TripsURL, len(trips), time.Since(started))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		manager.logger.Warn("skipped unreadable trip rows", slog.Int("count", skipped))
	}

	now := time.Now()
	return &Snapshot{
		Version:      datasetVersion(manager.location, stationBytes, tripBytes),
		Stations:     stations,
		Trips:        trips,
		Traffic:      traffic.ComputeStationTraffic(stations, trips),
		SkippedTrips: skipped,
		LoadedAt:     now,
	}, nil
}

// datasetVersion hashes the raw sources and the parse timezone, so instances
// that loaded the same data agree on cache keys.
func datasetVersion(loc *time.Location, stations, trips []byte) uint64 {
	digest := xxhash.New()
	_, _ = digest.WriteString(loc.String())
	_, _ = digest.Write([]byte{0})
	_, _ = digest.Write(stations)
	_, _ = digest.Write([]byte{0})
	_, _ = digest.Write(trips)
	return digest.Sum64()
}

func (manager *Manager) setSnapshot(snapshot *Snapshot) {
	manager.mu.Lock()
	manager.snapshot = snapshot
	manager.mu.Unlock()

	datasetSize.With(prometheus.Labels{"dataset": "stations"}).Set(float64(len(snapshot.Stations)))
	datasetSize.With(prometheus.Labels{"dataset": "trips"}).Set(float64(len(snapshot.Trips)))
	lastRefresh.Set(float64(snapshot.LoadedAt.Unix()))

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "snapshot_published",
			slog.Uint64("version", snapshot.Version),
			slog.Int("stations", len(snapshot.Stations)),
			slog.Int("trips", len(snapshot.Trips)),
			slog.Duration("import_runtime", manager.TripDB.ImportRuntime()))
	}

	manager.listenerMu.Lock()
	listeners := slices.Clone(manager.listeners)
	manager.listenerMu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// OnUpdate registers fn to run after every published snapshot.
func (manager *Manager) OnUpdate(fn func(*Snapshot)) {
	manager.listenerMu.Lock()
	defer manager.listenerMu.Unlock()
	manager.listeners = append(manager.listeners, fn)
}

func (manager *Manager) refreshPeriodically() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), DefaultFetchTimeout)
			// Errors are logged by Refresh; the old snapshot keeps serving.
			_ = manager.Refresh(ctx)
			cancel()
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down bikeshare data updates")
			return
		}
	}
}

// Snapshot returns the current snapshot.
func (manager *Manager) Snapshot() *Snapshot {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.snapshot
}

func (manager *Manager) Location() *time.Location {
	return manager.location
}

func (manager *Manager) GetStations() []models.Station {
	return manager.Snapshot().Stations
}

func (manager *Manager) GetTrips() []models.Trip {
	return manager.Snapshot().Trips
}

func (manager *Manager) FindStation(id string) (models.Station, bool) {
	for _, s := range manager.Snapshot().Stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

// StationTraffic aggregates the trips selected by filter over every station.
func (manager *Manager) StationTraffic(ctx context.Context, filter models.TimeFilter) (models.StationTrafficList, error) {
	snapshot := manager.Snapshot()

	if !filter.IsActive() {
		return newTrafficList(snapshot.Traffic, filter, len(snapshot.Trips)), nil
	}

	key := cache.TrafficKey(snapshot.Version, filter)
	if manager.cache != nil {
		cached, ok, err := manager.cache.Get(ctx, key)
		if err != nil {
			logging.LogError(manager.logger, "traffic cache read failed", err, slog.String("key", key))
		} else if ok {
			return cached, nil
		}
	}

	trips := traffic.FilterTripsByTime(snapshot.Trips, filter)
	list := newTrafficList(traffic.ComputeStationTraffic(snapshot.Stations, trips), filter, len(trips))

	if manager.cache != nil {
		if err := manager.cache.Set(ctx, key, list); err != nil {
			logging.LogError(manager.logger, "traffic cache write failed", err, slog.String("key", key))
		}
	}
	return list, nil
}

// TripsForStation lists stored trips touching a station.
func (manager *Manager) TripsForStation(ctx context.Context, stationID string, filter models.TimeFilter, limit int) ([]models.Trip, bool, error) {
	return manager.TripDB.TripsForStation(ctx, stationID, filter, limit)
}

func newTrafficList(list []models.StationTraffic, filter models.TimeFilter, tripCount int) models.StationTrafficList {
	return models.StationTrafficList{
		List:      list,
		Time:      int(filter),
		TimeLabel: filter.Label(),
		AnyTime:   !filter.IsActive(),
		TripCount: tripCount,
	}
}
