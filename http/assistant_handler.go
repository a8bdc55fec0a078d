package http

import (
	"net/http"

	"solar-agent/logger"
	"solar-agent/service"
)

type AssistantHandler struct {
	service    *service.AssistantService
	defaultKey string
	log        logger.Logger
}

func NewAssistantHandler(svc *service.AssistantService, defaultKey string, log logger.Logger) *AssistantHandler {
	return &AssistantHandler{service: svc, defaultKey: defaultKey, log: log}
}

// createAssistantRequest carries provider fields that replace the default
// assistant's top-level keys.
type createAssistantRequest struct {
	APIKey    string                 `json:"apiKey,omitempty"`
	Assistant map[string]interface{} `json:"assistant,omitempty"`
}

func (h *AssistantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssistantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidBody, "invalid request body", nil)
		return
	}

	assistant, err := h.service.Create(r.Context(), resolveCredential(r, req.APIKey, h.defaultKey), req.Assistant)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, assistant)
}
