package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/traffic"
	"bikeflow.bluebikes.org/internal/utils"
)

// stationEntry is one station's traffic under the requested time filter.
type stationEntry struct {
	models.StationTraffic
	DepartureRatio float64 `json:"departureRatio"`
	Time           int     `json:"time"`
	TimeLabel      string  `json:"timeLabel"`
	AnyTime        bool    `json:"anyTime"`
}

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")

	if err := utils.ValidateID(id); err != nil {
		fieldErrors := map[string][]string{
			"id": {err.Error()},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	filter, fieldErrors := utils.ParseTimeFilterParam(r.URL.Query(), "time", nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	station, ok := api.BikeshareManager.FindStation(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	list, err := api.BikeshareManager.StationTraffic(r.Context(), filter)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	stationTraffic, ok := traffic.FindStation(list.List, id)
	if !ok {
		stationTraffic = models.NewStationTraffic(station, 0, 0)
	}

	entry := stationEntry{
		StationTraffic: stationTraffic,
		DepartureRatio: stationTraffic.DepartureRatio(),
		Time:           list.Time,
		TimeLabel:      list.TimeLabel,
		AnyTime:        list.AnyTime,
	}

	references := models.NewEmptyReferences()
	references.Stations = append(references.Stations, station)

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}
