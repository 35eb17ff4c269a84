package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
)

func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	stations := api.BikeshareManager.GetStations()
	if stations == nil {
		stations = []models.Station{}
	}
	api.sendResponse(w, r, models.NewListResponse(stations, models.NewEmptyReferences()))
}
