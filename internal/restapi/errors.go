package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"nextstop.transit.dev/internal/logging"
	"nextstop.transit.dev/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, status int, text string, version int) {
	response := errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(logging.OrDefault(api.Logger), "failed to encode error response", err,
			slog.Int("status", status))
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response. Version 1 is kept for client compatibility.
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusUnauthorized, "permission denied", 1)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("path", r.URL.Path))
	api.writeError(w, http.StatusInternalServerError, "internal server error", 1)
}

// locateFailedResponse reports that the rider's position could not be determined.
func (api *RestAPI) locateFailedResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusBadRequest, models.NoticeUnableToLocate, 2)
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(logging.OrDefault(api.Logger), "failed to encode validation error response", err)
	}
}
