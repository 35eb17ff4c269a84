package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// invalidAPIKeyResponse sends a 401 Unauthorized response
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	api.writeError(w, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.Logger, "failed to encode validation error response", err)
	}
}

func (api *RestAPI) writeError(w http.ResponseWriter, status int, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     2,
	})
	if err != nil {
		logging.LogError(api.Logger, "failed to encode error response", err, slog.Int("status", status))
	}
}
