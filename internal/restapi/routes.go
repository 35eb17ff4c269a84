package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// route wraps an API handler: metrics, rate limit, key check, then compression.
func (api *RestAPI) route(name string, h handlerFunc) http.Handler {
	return instrument(name, api.limit(validateAPIKey(api, func(w http.ResponseWriter, r *http.Request) {
		CompressionMiddleware(http.HandlerFunc(h)).ServeHTTP(w, r)
	})))
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/map-config.json", api.route("map_config", api.mapConfigHandler))
	router.Handler(http.MethodGet, "/api/where/stations.json", api.route("stations", api.stationsHandler))
	router.Handler(http.MethodGet, "/api/where/station/:id", api.route("station", api.stationHandler))
	router.Handler(http.MethodGet, "/api/where/station-traffic.json", api.route("station_traffic", api.stationTrafficHandler))
	router.Handler(http.MethodGet, "/api/where/trips-for-station/:id", api.route("trips_for_station", api.tripsForStationHandler))
	router.Handler(http.MethodGet, "/api/where/station-markers.json", api.route("station_markers", api.stationMarkersHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Handler wraps the router with the middleware every request passes through.
func (api *RestAPI) Handler(router http.Handler) http.Handler {
	return NewRequestLoggingMiddleware(api.Logger)(api.WithSecurityHeaders(router))
}
