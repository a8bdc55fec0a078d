package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"solar-agent/domain"
	"solar-agent/logger"
)

const (
	codeInvalidBody  = "INVALID_BODY"
	codeInternal     = "INTERNAL_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeRateLimited  = "RATE_LIMITED"
	codeUnauthorized = "UNAUTHORIZED"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string, details interface{}) {
	writeJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var validationErr *domain.ValidationError
	var dispatchErr *domain.CallDispatchError

	switch {
	case errors.As(err, &validationErr):
		status := http.StatusBadRequest
		if validationErr.Code == domain.ErrCodeAlreadyInCall || validationErr.Code == domain.ErrCodeSweepRunning {
			status = http.StatusConflict
		}
		var details interface{}
		if validationErr.Field != "" {
			details = map[string]string{"field": validationErr.Field}
		}
		writeErrorResponse(w, status, string(validationErr.Code), validationErr.Message, details)

	case errors.As(err, &dispatchErr):
		var details interface{}
		if dispatchErr.StatusCode != 0 {
			details = map[string]int{"providerStatus": dispatchErr.StatusCode}
		}
		writeErrorResponse(w, http.StatusBadGateway, string(dispatchErr.Code), dispatchErr.Message, details)

	default:
		log.WithError(err).Error("request failed", nil)
		writeErrorResponse(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}

// decodeJSON reads the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
