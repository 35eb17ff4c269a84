package models

import "time"

// Trip is a single rental. Station ids match Station.ID.
type Trip struct {
	RideID         string    `json:"rideId"`
	StartStationID string    `json:"startStationId"`
	EndStationID   string    `json:"endStationId"`
	StartedAt      time.Time `json:"startedAt"`
	EndedAt        time.Time `json:"endedAt"`
}

func (t Trip) Duration() time.Duration {
	return t.EndedAt.Sub(t.StartedAt)
}

// MeanDuration averages trip durations. It is zero for no trips.
func MeanDuration(trips []Trip) time.Duration {
	if len(trips) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range trips {
		total += t.Duration()
	}
	return total / time.Duration(len(trips))
}

// TouchesStation reports whether the trip starts or ends at stationID.
func (t Trip) TouchesStation(stationID string) bool {
	return t.StartStationID == stationID || t.EndStationID == stationID
}
