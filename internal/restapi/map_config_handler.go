package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
)

func (api *RestAPI) mapConfigHandler(w http.ResponseWriter, r *http.Request) {
	response := models.NewEntryResponse(api.Config.Map.Model(), models.NewEmptyReferences())
	api.sendResponse(w, r, response)
}
