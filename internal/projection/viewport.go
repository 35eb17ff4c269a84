// Package projection keeps station markers aligned with the base map: a
// Web Mercator viewport that notifies subscribers on every view change, and a
// marker layer that re-projects itself on each notification.
package projection

import (
	"math"
	"sync"

	"bikeflow.bluebikes.org/internal/models"
)

// ViewState is an immutable snapshot of what the map shows.
type ViewState struct {
	Center models.LngLat `json:"center"`
	Zoom   float64       `json:"zoom"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
}

// Project converts lon/lat to pixels relative to the view's top-left corner.
func (s ViewState) Project(lon, lat float64) (float64, float64) {
	world := worldSize(s.Zoom)
	x := lngToX(lon, world) - lngToX(s.Center.Lon, world) + s.Width/2
	y := latToY(lat, world) - latToY(s.Center.Lat, world) + s.Height/2
	return x, y
}

// Unproject is the inverse of Project.
func (s ViewState) Unproject(x, y float64) models.LngLat {
	world := worldSize(s.Zoom)
	wx := x - s.Width/2 + lngToX(s.Center.Lon, world)
	wy := y - s.Height/2 + latToY(s.Center.Lat, world)
	return models.LngLat{Lon: xToLng(wx, world), Lat: yToLat(wy, world)}
}

// EventType names a view change.
type EventType string

const (
	EventMove    EventType = "move"
	EventZoom    EventType = "zoom"
	EventResize  EventType = "resize"
	EventMoveEnd EventType = "moveend"
)

// ViewEvent is delivered to subscribers after the view has changed.
type ViewEvent struct {
	Type  EventType
	State ViewState
}

// Listener handles one view event.
type Listener func(ViewEvent)

// Viewport is the mutable view of a single map. Listeners run synchronously
// on the goroutine that changed the view, in subscription order.
type Viewport struct {
	mu        sync.RWMutex
	state     ViewState
	minZoom   float64
	maxZoom   float64
	nextID    int
	order     []int
	listeners map[int]Listener
}

// NewViewport builds a viewport; zoom is clamped to [minZoom, maxZoom].
func NewViewport(center models.LngLat, zoom, minZoom, maxZoom, width, height float64) *Viewport {
	v := &Viewport{
		minZoom:   minZoom,
		maxZoom:   maxZoom,
		listeners: make(map[int]Listener),
	}
	v.state = ViewState{
		Center: center,
		Zoom:   v.clampZoom(zoom),
		Width:  width,
		Height: height,
	}
	return v
}

func (v *Viewport) clampZoom(zoom float64) float64 {
	return math.Max(v.minZoom, math.Min(v.maxZoom, zoom))
}

// State returns the current view.
func (v *Viewport) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Project projects with the current view.
func (v *Viewport) Project(lon, lat float64) (float64, float64) {
	return v.State().Project(lon, lat)
}

// Subscribe registers l and returns a func that removes it.
func (v *Viewport) Subscribe(l Listener) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = l
	v.order = append(v.order, id)
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.listeners, id)
			for i, other := range v.order {
				if other == id {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
		})
	}
}

// PanTo moves the center and emits move.
func (v *Viewport) PanTo(center models.LngLat) {
	v.update(EventMove, func(s *ViewState) { s.Center = center })
}

// ZoomTo changes the zoom level and emits zoom.
func (v *Viewport) ZoomTo(zoom float64) {
	v.update(EventZoom, func(s *ViewState) { s.Zoom = v.clampZoom(zoom) })
}

// Resize changes the pixel size and emits resize.
func (v *Viewport) Resize(width, height float64) {
	v.update(EventResize, func(s *ViewState) {
		s.Width = width
		s.Height = height
	})
}

// EndMove emits moveend without changing the view.
func (v *Viewport) EndMove() {
	v.update(EventMoveEnd, func(*ViewState) {})
}

func (v *Viewport) update(event EventType, mutate func(*ViewState)) {
	v.mu.Lock()
	mutate(&v.state)
	state := v.state
	listeners := make([]Listener, 0, len(v.order))
	for _, id := range v.order {
		listeners = append(listeners, v.listeners[id])
	}
	v.mu.Unlock()

	e := ViewEvent{Type: event, State: state}
	for _, l := range listeners {
		l(e)
	}
}
