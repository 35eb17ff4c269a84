// Package traffic holds the pure aggregation and filtering passes over trips.
// Nothing in this package mutates its inputs.
package traffic

import "bikeflow.bluebikes.org/internal/models"

// ComputeStationTraffic counts departures by start station and arrivals by
// end station. The result is a new slice in station order; trips that
// reference unknown stations are ignored.
func ComputeStationTraffic(stations []models.Station, trips []models.Trip) []models.StationTraffic {
	departures := make(map[string]int, len(stations))
	arrivals := make(map[string]int, len(stations))
	for _, trip := range trips {
		departures[trip.StartStationID]++
		arrivals[trip.EndStationID]++
	}

	result := make([]models.StationTraffic, len(stations))
	for i, station := range stations {
		result[i] = models.NewStationTraffic(station, arrivals[station.ID], departures[station.ID])
	}
	return result
}

// MaxTotalTraffic returns the largest TotalTraffic, or 0 for an empty list.
func MaxTotalTraffic(stations []models.StationTraffic) int {
	highest := 0
	for _, s := range stations {
		if s.TotalTraffic > highest {
			highest = s.TotalTraffic
		}
	}
	return highest
}

// FindStation returns the traffic entry for id.
func FindStation(stations []models.StationTraffic, id string) (models.StationTraffic, bool) {
	for _, s := range stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.StationTraffic{}, false
}
