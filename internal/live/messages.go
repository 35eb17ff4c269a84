package live

import (
	"errors"
	"fmt"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/utils"
)

// Client message types. The view events mirror projection.EventType.
const (
	MessageMove    = "move"
	MessageZoom    = "zoom"
	MessageResize  = "resize"
	MessageMoveEnd = "moveend"
	MessageFilter  = "filter"
)

// Server message types.
const (
	MessageSession = "session"
	MessageFrame   = "frame"
	MessageError   = "error"
)

// ClientMessage is one view or filter change sent by the map client.
type ClientMessage struct {
	Type   string         `json:"type"`
	Center *models.LngLat `json:"center,omitempty"`
	Zoom   *float64       `json:"zoom,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Time   *int           `json:"time,omitempty"`
}

// ServerMessage is pushed to the client. Exactly one of Session, Frame or
// Error is set, matching Type.
type ServerMessage struct {
	Type    string              `json:"type"`
	Session string              `json:"session,omitempty"`
	Frame   *models.MarkerFrame `json:"frame,omitempty"`
	Error   string              `json:"error,omitempty"`
}

var errUnknownMessage = errors.New("unknown message type")

// validate checks the fields the message type needs.
func (m ClientMessage) validate() error {
	switch m.Type {
	case MessageMove:
		if m.Center == nil {
			return errors.New("move requires center")
		}
		if err := utils.ValidateLongitude(m.Center.Lon); err != nil {
			return err
		}
		return utils.ValidateLatitude(m.Center.Lat)
	case MessageZoom:
		if m.Zoom == nil {
			return errors.New("zoom requires zoom")
		}
		return nil
	case MessageResize:
		if err := utils.ValidateDimension(int(m.Width)); err != nil {
			return fmt.Errorf("width: %w", err)
		}
		if err := utils.ValidateDimension(int(m.Height)); err != nil {
			return fmt.Errorf("height: %w", err)
		}
		return nil
	case MessageMoveEnd:
		return nil
	case MessageFilter:
		if m.Time == nil {
			return errors.New("filter requires time")
		}
		if !models.TimeFilter(*m.Time).Valid() {
			return fmt.Errorf("time %d out of range [-1, %d]", *m.Time, models.MinutesPerDay)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownMessage, m.Type)
	}
}
