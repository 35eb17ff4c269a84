package restapi

import (
	"net/http"

	"bikeflow.bluebikes.org/internal/models"
	"bikeflow.bluebikes.org/internal/projection"
	"bikeflow.bluebikes.org/internal/traffic"
	"bikeflow.bluebikes.org/internal/utils"
)

const (
	defaultViewWidth  = 960
	defaultViewHeight = 600
	// snapshotEvent tags frames rendered on request rather than by a view change.
	snapshotEvent = "snapshot"
)

func (api *RestAPI) stationMarkersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mapConfig := api.Config.Map

	lon, fieldErrors := utils.ParseFloatParam(query, "lon", nil)
	lat, fieldErrors := utils.ParseFloatParam(query, "lat", fieldErrors)
	zoom, fieldErrors := utils.ParseFloatParam(query, "zoom", fieldErrors)
	width, fieldErrors := utils.ParseIntParam(query, "width", defaultViewWidth, fieldErrors)
	height, fieldErrors := utils.ParseIntParam(query, "height", defaultViewHeight, fieldErrors)
	filter, fieldErrors := utils.ParseTimeFilterParam(query, "time", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if query.Get("lon") == "" {
		lon = mapConfig.CenterLon
	}
	if query.Get("lat") == "" {
		lat = mapConfig.CenterLat
	}
	if query.Get("zoom") == "" {
		zoom = mapConfig.Zoom
	}

	if viewErrors := utils.ValidateViewParams(lon, lat, zoom, width, height, mapConfig.MinZoom, mapConfig.MaxZoom); len(viewErrors) > 0 {
		api.validationErrorResponse(w, r, viewErrors)
		return
	}

	list, err := api.BikeshareManager.StationTraffic(r.Context(), filter)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	state := projection.ViewState{
		Center: models.LngLat{Lon: lon, Lat: lat},
		Zoom:   zoom,
		Width:  float64(width),
		Height: float64(height),
	}
	frame := projection.NewMarkerFrame(snapshotEvent, state, filter, traffic.BuildMarkers(list.List, filter, state))

	api.sendResponse(w, r, models.NewOKResponse(frame))
}
