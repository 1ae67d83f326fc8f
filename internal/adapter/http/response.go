package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/parkwise-risk-service/internal/service"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type successResponse struct {
	Status   string `json:"status"`
	Data     any    `json:"data"`
	Metadata any    `json:"metadata,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeSuccess(w http.ResponseWriter, data, metadata any) {
	writeJSON(w, http.StatusOK, successResponse{Status: statusSuccess, Data: data, Metadata: metadata})
}

// writeError maps service errors onto HTTP statuses and the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrMissingParameter):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnresolvable):
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Status: statusError, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
