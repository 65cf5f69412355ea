package handler

import (
	"net/http"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
)

type metaResponse struct {
	Title     string   `json:"title"`
	Language  string   `json:"language"`
	Languages []string `json:"languages"`
}

// handleMeta tells a client the localized app title, the negotiated
// language and what else it could ask for.
func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metaResponse{
		Title:     appI18n.T(r.Context(), "AppTitle"),
		Language:  appI18n.Language(r.Context()),
		Languages: appI18n.Supported(),
	})
}
