package projection

import (
	"sync"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/traffic"
)

// EventFilter is the frame event emitted when the traffic or time filter changes.
const EventFilter = "filter"

// MarkerLayer keeps one marker per station positioned for the current view.
type MarkerLayer struct {
	mu          sync.Mutex
	stations    []models.StationTraffic
	filter      models.TimeFilter
	markers     []models.Marker
	onRender    func(models.MarkerFrame)
	unsubscribe func()
}

// NewMarkerLayer subscribes to every view change of viewport. onRender may be nil.
func NewMarkerLayer(viewport *Viewport, onRender func(models.MarkerFrame)) *MarkerLayer {
	l := &MarkerLayer{
		filter:   models.NoFilter,
		onRender: onRender,
	}
	l.unsubscribe = viewport.Subscribe(func(e ViewEvent) {
		l.render(string(e.Type), e.State)
	})
	return l
}

// SetTraffic replaces the stations and filter and renders with state.
func (l *MarkerLayer) SetTraffic(stations []models.StationTraffic, filter models.TimeFilter, state ViewState) {
	l.mu.Lock()
	l.stations = stations
	l.filter = filter
	l.mu.Unlock()

	l.render(EventFilter, state)
}

// Markers returns the markers of the last render.
func (l *MarkerLayer) Markers() []models.Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Marker(nil), l.markers...)
}

// Close stops listening to the viewport.
func (l *MarkerLayer) Close() {
	l.unsubscribe()
}

func (l *MarkerLayer) render(event string, state ViewState) {
	l.mu.Lock()
	markers := traffic.BuildMarkers(l.stations, l.filter, state)
	l.markers = markers
	filter := l.filter
	l.mu.Unlock()

	if l.onRender == nil {
		return
	}
	l.onRender(NewMarkerFrame(event, state, filter, markers))
}

// NewMarkerFrame describes one render pass.
func NewMarkerFrame(event string, state ViewState, filter models.TimeFilter, markers []models.Marker) models.MarkerFrame {
	return models.MarkerFrame{
		Event:     event,
		Time:      int(filter),
		TimeLabel: filter.Label(),
		AnyTime:   !filter.IsActive(),
		Zoom:      state.Zoom,
		Center:    state.Center,
		Width:     state.Width,
		Height:    state.Height,
		Markers:   markers,
	}
}
