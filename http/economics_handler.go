package http

import (
	"net/http"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/service"
)

type EconomicsHandler struct {
	service *service.EconomicsService
	log     logger.Logger
}

func NewEconomicsHandler(service *service.EconomicsService, log logger.Logger) *EconomicsHandler {
	return &EconomicsHandler{service: service, log: log}
}

func (h *EconomicsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Snapshot())
}

func (h *EconomicsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input domain.CalculateInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	result, err := h.service.Calculate(input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *EconomicsHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Parameters())
}

func (h *EconomicsHandler) UpdateParameters(w http.ResponseWriter, r *http.Request) {
	// Start from the current values so clients can send a partial update.
	input := h.service.Parameters()
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	params, err := h.service.UpdateParameters(input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, params)
}
