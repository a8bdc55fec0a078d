package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/service"
)

// voiceKeyHeader lets the control panel pass its own provider key.
const voiceKeyHeader = "X-Voice-Api-Key"

type CallHandler struct {
	controller *service.CallController
	clients    *service.ClientService
	defaultKey string
	log        logger.Logger
}

func NewCallHandler(
	controller *service.CallController,
	clients *service.ClientService,
	defaultKey string,
	log logger.Logger,
) *CallHandler {
	return &CallHandler{
		controller: controller,
		clients:    clients,
		defaultKey: defaultKey,
		log:        log,
	}
}

type rosterRequest struct {
	APIKey string `json:"apiKey,omitempty"`
}

type endCallResponse struct {
	Ended   bool                `json:"ended"`
	Session *domain.CallSession `json:"session,omitempty"`
}

type rosterStartedResponse struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

func (h *CallHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	var input domain.StartCallInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}
	input.APIKey = h.credential(r, input.APIKey)

	session, err := h.controller.StartCall(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *CallHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	session := h.controller.EndCall(r.Context())
	writeJSON(w, http.StatusOK, endCallResponse{Ended: session != nil, Session: session})
}

func (h *CallHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.View())
}

func (h *CallHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.controller.CallStatus(r.Context(), chi.URLParam(r, "id"), h.credential(r, ""))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *CallHandler) FollowUp(w http.ResponseWriter, r *http.Request) {
	var input domain.FollowUpInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	result, err := h.controller.SendFollowUp(input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CallHandler) StartRoster(w http.ResponseWriter, r *http.Request) {
	var input rosterRequest
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	clients, err := h.clients.List()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if len(clients) == 0 {
		writeError(w, h.log, domain.NewValidationError(domain.ErrCodeInvalidInput, "", "no registered clients to call"))
		return
	}

	if err := h.controller.StartRosterSweep(clients, h.credential(r, input.APIKey)); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, rosterStartedResponse{Status: "started", Total: len(clients)})
}

func (h *CallHandler) LastRoster(w http.ResponseWriter, r *http.Request) {
	sweep := h.controller.LastSweep()
	if sweep == nil {
		writeErrorResponse(w, http.StatusNotFound, codeNotFound, "no roster sweep has run yet", nil)
		return
	}
	writeJSON(w, http.StatusOK, sweep)
}

func (h *CallHandler) Log(w http.ResponseWriter, r *http.Request) {
	entries, err := h.controller.CallLog()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if entries == nil {
		entries = []domain.CallLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *CallHandler) credential(r *http.Request, fromBody string) string {
	return resolveCredential(r, fromBody, h.defaultKey)
}

// resolveCredential picks the request body key, then the header, then the
// configured default.
func resolveCredential(r *http.Request, fromBody, defaultKey string) string {
	if key := strings.TrimSpace(fromBody); key != "" {
		return key
	}
	if key := strings.TrimSpace(r.Header.Get(voiceKeyHeader)); key != "" {
		return key
	}
	return defaultKey
}
