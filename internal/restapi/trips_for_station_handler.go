package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/utils"
)

const defaultTripsLimit = 100

func (api *RestAPI) tripsForStationHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	query := r.URL.Query()
	filter, fieldErrors := utils.ParseTimeFilterParam(query, "time", nil)
	limit, fieldErrors := utils.ParseIntParam(query, "limit", defaultTripsLimit, fieldErrors)
	if _, bad := fieldErrors["limit"]; !bad {
		if err := utils.ValidateLimit(limit); err != nil {
			fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if _, ok := api.BikeshareManager.FindStation(id); !ok {
		api.sendNotFound(w, r)
		return
	}

	trips, limitExceeded, err := api.BikeshareManager.TripsForStation(r.Context(), id, filter, limit)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	api.sendResponse(w, r, models.NewListResponseWithLimit(trips, api.stationReferences(trips), limitExceeded))
}

// stationReferences lists the known stations the trips start or end at.
func (api *RestAPI) stationReferences(trips []models.Trip) models.ReferencesModel {
	references := models.NewEmptyReferences()
	seen := make(map[string]bool)
	for _, trip := range trips {
		for _, id := range []string{trip.StartStationID, trip.EndStationID} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			if station, ok := api.BikeshareManager.FindStation(id); ok {
				references.Stations = append(references.Stations, station)
			}
		}
	}
	return references
}
