// Package quizgen connects prompt building, the completion gateway and
// response validation into the two quiz generation paths.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/quizparse"
)

// ErrInvalidRequest rejects a request before any generation is attempted.
var ErrInvalidRequest = errors.New("invalid quiz request")

// Service generates validated question sets.
type Service struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

// New creates a Service using g for completions.
func New(g llm.Gateway) *Service {
	return &Service{
		gateway: g,
		logger:  slog.Default().With("component", "quizgen"),
	}
}

// TeacherRequest describes a classroom quiz.
type TeacherRequest struct {
	Subject string `json:"subject"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
}

// StudentQuiz generates a self-study quiz. Malformed questions are
// dropped as long as at least one valid question remains.
func (s *Service) StudentQuiz(ctx context.Context, topic string, count int) (model.QuestionSet, error) {
	if strings.TrimSpace(topic) == "" || count <= 0 {
		return model.QuestionSet{}, fmt.Errorf("%w: topic and a positive count are required", ErrInvalidRequest)
	}

	prompt, err := prompts.BuildStudentQuiz(prompts.StudentQuiz{Topic: topic, Count: count})
	if err != nil {
		return model.QuestionSet{}, fmt.Errorf("build prompt: %w", err)
	}
	return s.generate(ctx, prompt, count, quizparse.Drop)
}

// TeacherQuiz generates a classroom quiz. Any malformed question rejects
// the whole batch.
func (s *Service) TeacherQuiz(ctx context.Context, req TeacherRequest) (model.TeacherQuizExport, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Section) == "" {
		return model.TeacherQuizExport{}, fmt.Errorf("%w: subject and section are required", ErrInvalidRequest)
	}
	if req.Count <= 0 {
		req.Count = prompts.DefaultQuestionCount
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = prompts.DefaultTitle
	}

	prompt, err := prompts.BuildTeacherQuiz(prompts.TeacherQuiz{
		Subject: req.Subject,
		Section: req.Section,
		Title:   req.Title,
		Count:   req.Count,
	})
	if err != nil {
		return model.TeacherQuizExport{}, fmt.Errorf("build prompt: %w", err)
	}

	set, err := s.generate(ctx, prompt, req.Count, quizparse.RejectAll)
	if err != nil {
		return model.TeacherQuizExport{}, err
	}
	return model.TeacherQuizExport{
		Title:     req.Title,
		Subject:   req.Subject,
		Section:   req.Section,
		Requested: set.Requested,
		Questions: set.Questions,
	}, nil
}

func (s *Service) generate(ctx context.Context, prompt string, count int, policy quizparse.Policy) (model.QuestionSet, error) {
	raw, err := s.gateway.Generate(ctx, prompt, model.ContentQuiz)
	if err != nil {
		return model.QuestionSet{}, err
	}
	s.logger.Debug("quiz completion", "chars", len(raw), "policy", policy)

	set, err := quizparse.Parse(raw, policy)
	if err != nil {
		return model.QuestionSet{}, err
	}
	set.Requested = count
	if set.Len() != count {
		s.logger.Info("generator returned a different question count",
			"requested", count, "received", set.Len())
	}
	return set, nil
}
