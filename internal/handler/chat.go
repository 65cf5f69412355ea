package handler

import (
	"log/slog"
	"net/http"
	"strings"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
)

type chatRequest struct {
	Prompt string            `json:"prompt"`
	Type   model.ContentType `json:"type"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat is the generation boundary: one prompt in, raw text out.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrPromptRequired"))
		return
	}

	ctx, cancel := h.withLLMTimeout(r.Context())
	defer cancel()

	text, err := h.gateway.Generate(ctx, req.Prompt, req.Type)
	if err != nil {
		if !isGenerationError(err) {
			writeError(w, r, err)
			return
		}
		slog.Warn("chat completion failed", "type", req.Type, "error", err)
		writeMessage(w, http.StatusBadGateway, appI18n.Td(r.Context(), "ErrChatFailed", map[string]any{"Reason": err.Error()}))
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: text})
}
