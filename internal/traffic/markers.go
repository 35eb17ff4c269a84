package traffic

import "bikeflow.bluebikes.org/internal/models"

// Projector converts a geographic coordinate to screen pixels.
type Projector interface {
	Project(lon, lat float64) (x, y float64)
}

// BuildMarkers styles every station and positions it with projector.
func BuildMarkers(stations []models.StationTraffic, filter models.TimeFilter, projector Projector) []models.Marker {
	radius := NewRadiusScale(MaxTotalTraffic(stations), filter)

	markers := make([]models.Marker, len(stations))
	for i, s := range stations {
		x, y := projector.Project(s.Lon, s.Lat)
		markers[i] = models.Marker{
			StationID:      s.ID,
			CX:             x,
			CY:             y,
			R:              radius.Scale(float64(s.TotalTraffic)),
			DepartureRatio: QuantizeFlow(s.DepartureRatio()),
			Arrivals:       s.Arrivals,
			Departures:     s.Departures,
			TotalTraffic:   s.TotalTraffic,
		}
	}
	return markers
}
