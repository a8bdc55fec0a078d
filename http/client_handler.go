package http

import (
	"net/http"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/service"
)

type ClientHandler struct {
	service *service.ClientService
	log     logger.Logger
}

func NewClientHandler(service *service.ClientService, log logger.Logger) *ClientHandler {
	return &ClientHandler{service: service, log: log}
}

func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.ClientInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	client, err := h.service.Register(input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}
