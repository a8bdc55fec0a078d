package http

import (
	"net/http"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/service"
)

type AuthHandler struct {
	service *service.AuthService
	log     logger.Logger
}

func NewAuthHandler(service *service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var input domain.OTPRequest
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	challenge, err := h.service.RequestCode(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, challenge)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input domain.OTPVerifyInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	session, err := h.service.Verify(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
