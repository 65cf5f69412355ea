package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/poll"
	"github.com/pavelanni/studybuddy/internal/quiz"
	"github.com/pavelanni/studybuddy/internal/quizgen"
	"github.com/pavelanni/studybuddy/internal/quizparse"
	"github.com/pavelanni/studybuddy/internal/report"
)

// GenerationLog exposes the persisted record of gateway calls.
type GenerationLog interface {
	ExportGenerations(ctx context.Context, limit int) (model.GenerationLogExport, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	gateway  llm.Gateway
	quizzes  *quizgen.Service
	sessions *quiz.Manager
	polls    *poll.Service
	genlog   GenerationLog
	config   model.ServerConfig
}

// New creates a new Handler. genlog may be nil when no database is
// configured. sessionOpts are applied to every quiz session.
func New(g llm.Gateway, polls *poll.Service, genlog GenerationLog, cfg model.ServerConfig, sessionOpts ...quiz.Option) (*Handler, error) {
	if g == nil || polls == nil {
		return nil, errors.New("handler: gateway and poll service are required")
	}
	if cfg.DefaultQuestions <= 0 {
		cfg.DefaultQuestions = 5
	}
	quizzes := quizgen.New(g)
	opts := append([]quiz.Option{quiz.WithBudget(cfg.QuizSeconds)}, sessionOpts...)
	return &Handler{
		gateway:  g,
		quizzes:  quizzes,
		sessions: quiz.NewManager(quizzes, opts...),
		polls:    polls,
		genlog:   genlog,
		config:   cfg,
	}, nil
}

// Close tears down every live quiz session.
func (h *Handler) Close() {
	h.sessions.Close()
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/meta", h.handleMeta)
	r.Post("/api/chat", h.handleChat)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Delete("/", h.handleDeleteSession)
			r.Post("/start", h.handleStartQuiz)
			r.Post("/answers", h.handleSelectAnswer)
			r.Post("/submit", h.handleSubmit)
			r.Get("/history", h.handleHistory)
		})
	})

	r.Route("/api/teacher", func(r chi.Router) {
		r.Use(h.requireTeacher)
		r.Post("/quiz", h.handleTeacherQuiz)
		r.Post("/quiz.pdf", h.handleTeacherQuizPDF)
		r.Get("/generations", h.handleGenerations)
	})

	r.Route("/api/polls", func(r chi.Router) {
		r.Post("/", h.handleCreatePoll)
		r.Get("/{pollID}", h.handleGetPoll)
		r.Put("/{pollID}", h.handlePutPoll)
		r.Post("/{pollID}", h.handleVote)
		r.With(h.requireTeacher).Post("/{pollID}/close", h.handleClosePoll)
	})
}

// withLLMTimeout bounds a generation call by the configured timeout.
func (h *Handler) withLLMTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.LLMTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.LLMTimeout)
}

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps a domain error to a status and a localized message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, msgID := http.StatusInternalServerError, "ErrInternal"

	switch {
	case isGenerationError(err):
		reason := strings.TrimPrefix(err.Error(), quiz.ErrGenerationFailed.Error()+": ")
		writeMessage(w, http.StatusBadGateway, appI18n.Td(ctx, "ErrGenerationFailed", map[string]any{"Reason": reason}))
		return
	case errors.Is(err, quiz.ErrInvalidRequest), errors.Is(err, quizgen.ErrInvalidRequest):
		status, msgID = http.StatusBadRequest, "ErrInvalidRequest"
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		status, msgID = http.StatusConflict, "ErrAlreadySubmitted"
	case errors.Is(err, quiz.ErrInvalidSelection):
		status, msgID = http.StatusBadRequest, "ErrInvalidSelection"
	case errors.Is(err, quiz.ErrNotInProgress):
		status, msgID = http.StatusConflict, "ErrNotInProgress"
	case errors.Is(err, quiz.ErrGenerationInProgress):
		status, msgID = http.StatusConflict, "ErrGenerationInProgress"
	case errors.Is(err, quiz.ErrClosed):
		status, msgID = http.StatusGone, "ErrSessionClosed"
	case errors.Is(err, poll.ErrNotFound):
		status, msgID = http.StatusNotFound, "ErrPollNotFound"
	case errors.Is(err, poll.ErrUnknownOption):
		status, msgID = http.StatusBadRequest, "ErrUnknownOption"
	case errors.Is(err, poll.ErrInvalidPoll):
		status, msgID = http.StatusBadRequest, "ErrInvalidPoll"
	case errors.Is(err, poll.ErrInactive):
		status, msgID = http.StatusConflict, "ErrPollClosed"
	case errors.Is(err, report.ErrEmpty):
		status, msgID = http.StatusUnprocessableEntity, "ErrInvalidRequest"
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, appI18n.T(ctx, msgID))
}

func isGenerationError(err error) bool {
	var (
		netErr *llm.NetworkError
		upErr  *llm.UpstreamError
		pErr   *quizparse.ParseError
		sErr   *quizparse.SchemaError
		vErr   *quizparse.ValidationError
	)
	return errors.Is(err, quiz.ErrGenerationFailed) ||
		errors.As(err, &netErr) || errors.As(err, &upErr) ||
		errors.As(err, &pErr) || errors.As(err, &sErr) || errors.As(err, &vErr)
}

// decodeJSON reads a JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrBadRequestBody"))
		return false
	}
	return true
}
