package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/projection"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// trafficSource is the part of the bikeshare manager a session reads.
type trafficSource interface {
	StationTraffic(ctx context.Context, filter models.TimeFilter) (models.StationTrafficList, error)
}

// Session is one connected map. The viewport, marker layer and filter are
// only touched from run, so they need no locking.
type Session struct {
	id       string
	conn     *websocket.Conn
	source   trafficSource
	logger   *slog.Logger
	viewport *projection.Viewport
	layer    *projection.MarkerLayer
	filter   models.TimeFilter
	// reload is signalled when a new dataset is published.
	reload chan struct{}
	done   chan struct{}
}

func newSession(id string, conn *websocket.Conn, source trafficSource, viewport *projection.Viewport, logger *slog.Logger) *Session {
	s := &Session{
		id:       id,
		conn:     conn,
		source:   source,
		logger:   logger.With(slog.String("session", id)),
		viewport: viewport,
		filter:   models.NoFilter,
		reload:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	s.layer = projection.NewMarkerLayer(viewport, s.sendFrame)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// notifyReload asks run to re-aggregate. Signals coalesce.
func (s *Session) notifyReload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// run serves the session until the client goes away or ctx is cancelled.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.layer.Close()
	defer logging.CloseLogged(s.logger, "websocket_conn", s.conn)

	messages := make(chan ClientMessage)
	readDone := make(chan struct{})
	go s.readLoop(messages, readDone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if !s.send(ServerMessage{Type: MessageSession, Session: s.id}) {
		return
	}
	s.applyFilter(ctx, s.filter)

	for {
		select {
		case msg := <-messages:
			s.handle(ctx, msg)
		case <-s.reload:
			s.applyFilter(ctx, s.filter)
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Session) readLoop(messages chan<- ClientMessage, readDone chan<- struct{}) {
	defer close(readDone)

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.LogError(s.logger, "websocket read failed", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = ClientMessage{Type: MessageError}
		}

		select {
		case messages <- msg:
		case <-s.done:
			return
		}
	}
}

// handle applies one client message. View changes render through the
// marker layer's viewport subscription.
func (s *Session) handle(ctx context.Context, msg ClientMessage) {
	if msg.Type == MessageError {
		s.sendError("malformed message")
		return
	}
	if err := msg.validate(); err != nil {
		s.sendError(err.Error())
		return
	}

	switch msg.Type {
	case MessageMove:
		s.viewport.PanTo(*msg.Center)
	case MessageZoom:
		s.viewport.ZoomTo(*msg.Zoom)
	case MessageResize:
		s.viewport.Resize(msg.Width, msg.Height)
	case MessageMoveEnd:
		s.viewport.EndMove()
	case MessageFilter:
		s.applyFilter(ctx, models.TimeFilter(*msg.Time))
	}
}

func (s *Session) applyFilter(ctx context.Context, filter models.TimeFilter) {
	list, err := s.source.StationTraffic(ctx, filter)
	if err != nil {
		logging.LogError(s.logger, "failed to aggregate station traffic", err,
			slog.Int("time", int(filter)))
		s.sendError("failed to aggregate station traffic")
		return
	}
	s.filter = filter
	s.layer.SetTraffic(list.List, filter, s.viewport.State())
}

func (s *Session) sendFrame(frame models.MarkerFrame) {
	s.send(ServerMessage{Type: MessageFrame, Frame: &frame})
}

func (s *Session) sendError(text string) {
	s.send(ServerMessage{Type: MessageError, Error: text})
}

func (s *Session) send(msg ServerMessage) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		logging.LogError(s.logger, "websocket write failed", err, slog.String("type", msg.Type))
		return false
	}
	return true
}
