package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/quiz"
)

type createSessionResponse struct {
	ID string `json:"id"`
}

type startRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type answerRequest struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type sessionResponse struct {
	ID string `json:"id"`
	quiz.Snapshot
	// Message is set on start, e.g. when fewer questions came back than asked.
	Message string `json:"message,omitempty"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *quiz.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, ok := h.sessions.Get(id)
	if !ok {
		writeMessage(w, http.StatusNotFound, appI18n.T(r.Context(), "ErrSessionNotFound"))
		return "", nil, false
	}
	return id, s, true
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, _ := h.sessions.Create()
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: id})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: s.Snapshot()})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.sessions.Delete(id) {
		writeMessage(w, http.StatusNotFound, appI18n.T(r.Context(), "ErrSessionNotFound"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = h.config.DefaultQuestions
	}

	ctx, cancel := h.withLLMTimeout(r.Context())
	defer cancel()

	if err := s.Start(ctx, req.Topic, req.Count); err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:       id,
		Snapshot: snap,
		Message:  appI18n.Tp(r.Context(), "QuestionsGenerated", len(snap.Questions)),
	})
}

func (h *Handler) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.SelectAnswer(req.Question, req.Option); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: s.Snapshot()})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	result, err := s.Submit()
	if errors.Is(err, quiz.ErrIncomplete) {
		snap := s.Snapshot()
		missing := len(snap.Questions) - len(snap.Selections)
		writeMessage(w, http.StatusConflict, appI18n.Tp(r.Context(), "QuestionsUnanswered", missing))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	results := s.History().All()
	writeJSON(w, http.StatusOK, model.HistoryExport{
		SessionID:  id,
		ExportedAt: time.Now().UTC(),
		Count:      len(results),
		Results:    results,
	})
}
