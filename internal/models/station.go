package models

// Station is a fixed Bluebikes dock location. ID is the GBFS short_name,
// which is what trip rows reference.
type Station struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Capacity int     `json:"capacity"`
}

// StationTraffic is a station annotated with trip counts over one trip set.
type StationTraffic struct {
	Station
	Arrivals     int `json:"arrivals"`
	Departures   int `json:"departures"`
	TotalTraffic int `json:"totalTraffic"`
}

// NewStationTraffic keeps TotalTraffic equal to arrivals + departures.
func NewStationTraffic(station Station, arrivals, departures int) StationTraffic {
	return StationTraffic{
		Station:      station,
		Arrivals:     arrivals,
		Departures:   departures,
		TotalTraffic: arrivals + departures,
	}
}

// DepartureRatio is departures / total traffic, or 0.5 for a station with no traffic.
func (s StationTraffic) DepartureRatio() float64 {
	if s.TotalTraffic == 0 {
		return 0.5
	}
	return float64(s.Departures) / float64(s.TotalTraffic)
}

// StationTrafficList is the payload of the station traffic endpoints.
type StationTrafficList struct {
	List      []StationTraffic `json:"list"`
	Time      int              `json:"time"`
	TimeLabel string           `json:"timeLabel"`
	AnyTime   bool             `json:"anyTime"`
	TripCount int              `json:"tripCount"`
}
