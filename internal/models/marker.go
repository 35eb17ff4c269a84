package models

// Marker is a station circle ready to be drawn over the base map.
type Marker struct {
	StationID      string  `json:"stationId"`
	CX             float64 `json:"cx"`
	CY             float64 `json:"cy"`
	R              float64 `json:"r"`
	DepartureRatio float64 `json:"departureRatio"`
	Arrivals       int     `json:"arrivals"`
	Departures     int     `json:"departures"`
	TotalTraffic   int     `json:"totalTraffic"`
}

// MarkerFrame is one render pass of the marker layer.
type MarkerFrame struct {
	Event     string   `json:"event"`
	Time      int      `json:"time"`
	TimeLabel string   `json:"timeLabel"`
	AnyTime   bool     `json:"anyTime"`
	Zoom      float64  `json:"zoom"`
	Center    LngLat   `json:"center"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Markers   []Marker `json:"markers"`
}

// LngLat is a geographic coordinate in degrees.
type LngLat struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}
