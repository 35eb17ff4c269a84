// Package live pushes marker frames to connected maps over websockets. Each
// connection gets its own viewport, so markers follow that client's pans,
// zooms and resizes, and every session re-renders when a new dataset loads.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"bikeflow.bluebikes.org/internal/app"
	"bikeflow.bluebikes.org/internal/bikeshare"
	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/projection"
	"bikeflow.bluebikes.org/internal/utils"
)

const (
	defaultViewWidth  = 960
	defaultViewHeight = 600
)

var activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "bikeflow_live_sessions",
	Help: "Connected websocket marker sessions",
})

func init() {
	prometheus.MustRegister(activeSessions)
}

// Hub accepts websocket connections and tracks their sessions.
type Hub struct {
	*app.Application
	upgrader     websocket.Upgrader
	logger       *slog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.Mutex
	sessions     map[string]*Session
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewHub creates a hub and subscribes it to dataset updates.
func NewHub(application *app.Application) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		Application: application,
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:      application.Logger.With(slog.String("component", "live_hub")),
		ctx:         ctx,
		cancel:      cancel,
		sessions:    make(map[string]*Session),
	}
	application.BikeshareManager.OnUpdate(h.datasetChanged)
	return h
}

// ServeHTTP upgrades the request. The optional width and height query
// parameters size the initial view; the map config supplies the rest.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.RequestHasInvalidAPIKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	width, fieldErrors := utils.ParseIntParam(query, "width", defaultViewWidth, nil)
	height, fieldErrors := utils.ParseIntParam(query, "height", defaultViewHeight, fieldErrors)
	if len(fieldErrors) == 0 {
		if err := utils.ValidateDimension(width); err != nil {
			fieldErrors["width"] = append(fieldErrors["width"], err.Error())
		}
		if err := utils.ValidateDimension(height); err != nil {
			fieldErrors["height"] = append(fieldErrors["height"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		http.Error(w, "invalid view size", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.LogError(h.logger, "websocket upgrade failed", err)
		return
	}

	mapConfig := h.Config.Map
	viewport := projection.NewViewport(
		models.LngLat{Lon: mapConfig.CenterLon, Lat: mapConfig.CenterLat},
		mapConfig.Zoom, mapConfig.MinZoom, mapConfig.MaxZoom,
		float64(width), float64(height))
	session := newSession(uuid.NewString(), conn, h.BikeshareManager, viewport, h.logger)

	h.mu.Lock()
	if h.ctx.Err() != nil {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		logging.CloseLogged(h.logger, "websocket_conn", conn)
		return
	}
	h.sessions[session.ID()] = session
	h.wg.Add(1)
	h.mu.Unlock()
	activeSessions.Inc()

	go func() {
		defer h.wg.Done()
		defer h.remove(session)
		session.run(h.ctx)
	}()
}

func (h *Hub) remove(session *Session) {
	h.mu.Lock()
	delete(h.sessions, session.ID())
	h.mu.Unlock()
	activeSessions.Dec()
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) datasetChanged(snapshot *bikeshare.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, session := range h.sessions {
		session.notifyReload()
	}
	if len(h.sessions) > 0 {
		h.logger.Info("reloading live sessions",
			slog.Uint64("version", snapshot.Version),
			slog.Int("sessions", len(h.sessions)))
	}
}

// Shutdown closes every session and waits for them to finish.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		h.mu.Lock()
		h.cancel()
		h.mu.Unlock()
		h.wg.Wait()
	})
}
