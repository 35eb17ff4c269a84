package models

// LineStyle is the paint block of a line layer.
type LineStyle struct {
	Color   string  `json:"line-color"`
	Width   float64 `json:"line-width"`
	Opacity float64 `json:"line-opacity"`
}

// DefaultBikeLaneStyle is shared by every bike lane overlay.
func DefaultBikeLaneStyle() LineStyle {
	return LineStyle{
		Color:   "#32D400",
		Width:   2.5,
		Opacity: 0.8,
	}
}

// Overlay is a geojson source plus the line layer drawn from it.
type Overlay struct {
	LayerID  string    `json:"layerId"`
	SourceID string    `json:"sourceId"`
	Type     string    `json:"type"`
	URL      string    `json:"url"`
	Paint    LineStyle `json:"paint"`
}

func NewBikeLaneOverlay(layerID, sourceID, url string) Overlay {
	return Overlay{
		LayerID:  layerID,
		SourceID: sourceID,
		Type:     "line",
		URL:      url,
		Paint:    DefaultBikeLaneStyle(),
	}
}

// MapConfig is what the client map widget is initialized with.
type MapConfig struct {
	Style    string    `json:"style"`
	Center   LngLat    `json:"center"`
	Zoom     float64   `json:"zoom"`
	MinZoom  float64   `json:"minZoom"`
	MaxZoom  float64   `json:"maxZoom"`
	Overlays []Overlay `json:"overlays"`
}
