package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/poll"
)

type voteRequest struct {
	OptionID string `json:"optionId"`
}

type pollResponse struct {
	model.Poll
	Percentages []int `json:"percentages"`
}

func writePoll(w http.ResponseWriter, status int, p model.Poll) {
	writeJSON(w, status, pollResponse{Poll: p, Percentages: poll.Percentages(p)})
}

func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var d poll.Draft
	if !decodeJSON(w, r, &d) {
		return
	}
	p, err := h.polls.Create(r.Context(), "", d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePoll(w, http.StatusCreated, p)
}

func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.Get(r.Context(), chi.URLParam(r, "pollID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePoll(w, http.StatusOK, p)
}

// handlePutPoll creates or replaces the poll at a client-chosen id.
func (h *Handler) handlePutPoll(w http.ResponseWriter, r *http.Request) {
	var d poll.Draft
	if !decodeJSON(w, r, &d) {
		return
	}
	p, err := h.polls.Create(r.Context(), chi.URLParam(r, "pollID"), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePoll(w, http.StatusOK, p)
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.polls.Vote(r.Context(), chi.URLParam(r, "pollID"), req.OptionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePoll(w, http.StatusOK, p)
}

func (h *Handler) handleClosePoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.SetActive(r.Context(), chi.URLParam(r, "pollID"), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePoll(w, http.StatusOK, p)
}
