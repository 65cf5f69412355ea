package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
)

const defaultGenerationLimit = 50

// handleGenerations returns the generation log summary and recent records.
func (h *Handler) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if h.genlog == nil {
		writeMessage(w, http.StatusNotFound, appI18n.T(r.Context(), "ErrGenerationLogDisabled"))
		return
	}

	limit := defaultGenerationLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrInvalidLimit"))
			return
		}
		limit = n
	}

	export, err := h.genlog.ExportGenerations(r.Context(), limit)
	if err != nil {
		slog.Error("failed to export generation log", "error", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}
