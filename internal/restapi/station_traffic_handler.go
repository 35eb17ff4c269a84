package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/utils"
)

func (api *RestAPI) stationTrafficHandler(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := utils.ParseTimeFilterParam(r.URL.Query(), "time", nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	list, err := api.BikeshareManager.StationTraffic(r.Context(), filter)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(list))
}
