package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/bikeshare"
	"bikeflow.bluebikes.org/internal/cache"
	"bikeflow.bluebikes.org/internal/models"
)

func fixtureArgs(t *testing.T) []string {
	return []string{
		"-env", "test",
		"-api-keys", "TEST",
		"-stations-url", models.GetFixturePath(t, "bluebikes-stations.json"),
		"-trips-url", models.GetFixturePath(t, "bluebikes-trips.csv"),
		"-trip-db", ":memory:",
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]string{"-trips-url", "trips.csv"})
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.App.Port)
	assert.Equal(t, appconf.Development, cfg.App.Env)
	assert.Equal(t, []string{"test"}, cfg.App.ApiKeys)
	assert.Equal(t, 100, cfg.App.RateLimit)
	assert.Equal(t, bikeshare.DefaultStationsURL, cfg.Bikeshare.StationsURL)
	assert.Equal(t, bikeshare.DefaultTimeZone, cfg.Bikeshare.TimeZone)
	assert.Equal(t, bikeshare.DefaultRefreshInterval, cfg.Bikeshare.RefreshInterval)
	assert.Equal(t, appconf.DefaultMapConfig(), cfg.App.Map)
	assert.Empty(t, cfg.Cache.RedisAddr)
}

func TestParseConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ENV", "production")
	t.Setenv("API_KEYS", "web, kiosk")
	t.Setenv("TRIPS_URL", "https://example.com/trips.csv")
	t.Setenv("REFRESH_INTERVAL", "6h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MAP_ZOOM", "13.5")

	cfg, err := parseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, appconf.Production, cfg.App.Env)
	assert.Equal(t, appconf.Production, cfg.Bikeshare.Env)
	assert.Equal(t, []string{"web", "kiosk"}, cfg.App.ApiKeys)
	assert.Equal(t, "https://example.com/trips.csv", cfg.Bikeshare.TripsURL)
	assert.Equal(t, 6*time.Hour, cfg.Bikeshare.RefreshInterval)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 13.5, cfg.App.Map.Zoom)

	// Flags win over the environment.
	cfg, err = parseConfig([]string{"-port", "9000"})
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing trips", nil, "trips-url is required"},
		{"no api keys", []string{"-trips-url", "t.csv", "-api-keys", " , "}, "at least one api key"},
		{"bad port", []string{"-trips-url", "t.csv", "-port", "0"}, "port 0 out of range"},
		{"zoom outside bounds", []string{"-trips-url", "t.csv", "-map-zoom", "20"}, "map-zoom 20 outside [5, 18]"},
		{"inverted zoom bounds", []string{"-trips-url", "t.csv", "-map-min-zoom", "19"}, "map-min-zoom 19 is above"},
		{"unknown flag", []string{"-feed-url", "x"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewTrafficCacheFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := newTrafficCache(context.Background(), cacheConfig{}, logger)
	_, ok := c.(*cache.MemoryCache)
	assert.True(t, ok)

	// Nothing listens on port 1.
	c = newTrafficCache(context.Background(), cacheConfig{RedisAddr: "127.0.0.1:1"}, logger)
	_, ok = c.(*cache.MemoryCache)
	assert.True(t, ok)
}

func TestServerRoutes(t *testing.T) {
	cfg, err := parseConfig(fixtureArgs(t))
	require.NoError(t, err)

	application, err := buildApplication(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { shutdownApplication(application) })

	s := newServer(application)
	t.Cleanup(s.close)

	server := httptest.NewServer(s.handler)
	t.Cleanup(server.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/api/where/station-traffic.json?key=TEST&time=480")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"tripCount":4`)

	status, body = get("/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "bikeflow_http_request_duration_seconds")
	assert.Contains(t, body, "bikeflow_dataset_records")

	status, body = get("/debug/?dataType=stations")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "A32000")

	status, _ = get("/nowhere")
	assert.Equal(t, http.StatusNotFound, status)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/markers?key=TEST", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var hello struct {
		Type    string `json:"type"`
		Session string `json:"session"`
	}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "session", hello.Type)
	assert.NotEmpty(t, hello.Session)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg, err := parseConfig(fixtureArgs(t))
	require.NoError(t, err)
	cfg.App.Port = freePort(t)
	url := fmt.Sprintf("http://127.0.0.1:%d/api/where/stations.json?key=TEST", cfg.App.Port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
