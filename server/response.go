package server

import (
	customerrors "agent-staffing/errors"
	"encoding/json"
	"errors"
	"net/http"
)

// API error codes.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeInvalidUtilization = "INVALID_UTILIZATION"
	codeInvalidCapacity    = "INVALID_CAPACITY"
	codeInvalidRequest     = "INVALID_REQUEST"
	codeMissingFile        = "MISSING_FILE"
	codePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	codeRateLimited        = "RATE_LIMITED"
	codeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(r.Context()),
	})
}

// mapServiceError maps planner errors to HTTP status codes and error codes.
func mapServiceError(err error) (status int, code string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, customerrors.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, customerrors.ErrInvalidUtilization):
		return http.StatusBadRequest, codeInvalidUtilization
	case errors.Is(err, customerrors.ErrInvalidCapacity):
		return http.StatusBadRequest, codeInvalidCapacity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, codePayloadTooLarge
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("schedule request failed", "request_id", GetRequestID(r.Context()), "error", err)
		writeError(w, r, status, code, "internal server error")
		return
	}
	writeError(w, r, status, code, err.Error())
}
