// Package quiz runs timed multiple-choice quiz sessions: generation,
// answering, countdown, submission and scoring.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pavelanni/studybuddy/internal/model"
)

// DefaultBudget is the countdown length in seconds.
const DefaultBudget = 60

// Generator produces a validated question set for a topic.
type Generator interface {
	StudentQuiz(ctx context.Context, topic string, count int) (model.QuestionSet, error)
}

// Option customizes a Session.
type Option func(*Session)

// WithBudget sets the countdown length in seconds. Non-positive values are ignored.
func WithBudget(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.budget = seconds
		}
	}
}

// WithTicker replaces the wall-clock ticker.
func WithTicker(t TickerFunc) Option {
	return func(s *Session) { s.ticker = t }
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithHistory makes the session append results to h.
func WithHistory(h *History) Option {
	return func(s *Session) { s.history = h }
}

// Session is one quiz view: at most one active cycle, one countdown, and
// one outstanding generation at a time. All methods are safe for
// concurrent use.
type Session struct {
	gen     Generator
	history *History
	budget  int
	ticker  TickerFunc
	now     func() time.Time

	mu         sync.Mutex
	state      State
	topic      string
	set        model.QuestionSet
	selections map[int]int
	remaining  int
	epoch      uint64
	stopTick   func()
	result     *model.QuizResult
	closed     bool
}

// NewSession creates an idle session.
func NewSession(gen Generator, opts ...Option) *Session {
	s := &Session{
		gen:        gen,
		budget:     DefaultBudget,
		ticker:     WallTicker,
		now:        time.Now,
		selections: map[int]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewHistory()
	}
	s.remaining = s.budget
	return s
}

// Start begins a fresh cycle for topic. Any running cycle is discarded.
// On generation failure the session returns to Idle and the error wraps
// both ErrGenerationFailed and the underlying cause.
func (s *Session) Start(ctx context.Context, topic string, count int) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if count <= 0 {
		return fmt.Errorf("%w: question count must be positive, got %d", ErrInvalidRequest, count)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == Generating {
		s.mu.Unlock()
		return ErrGenerationInProgress
	}
	if s.state == InProgress {
		slog.Info("discarding running quiz", "topic", s.topic, "remaining", s.remaining)
	}
	s.cancelTicker()
	s.epoch++
	epoch := s.epoch
	s.state = Generating
	s.topic = topic
	s.set = model.QuestionSet{}
	s.selections = map[int]int{}
	s.remaining = s.budget
	s.result = nil
	s.mu.Unlock()

	set, err := s.gen.StudentQuiz(ctx, topic, count)
	if err == nil && set.Len() == 0 {
		err = errors.New("generator returned no questions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != epoch {
		return ErrClosed
	}
	if err != nil {
		s.state = Idle
		s.topic = ""
		slog.Warn("quiz generation failed", "topic", topic, "error", err)
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.set = set
	s.state = Ready
	s.begin(epoch)
	slog.Info("quiz started", "topic", topic, "questions", set.Len(), "requested", set.Requested)
	return nil
}

// begin moves Ready to InProgress and starts the countdown. Caller holds mu.
func (s *Session) begin(epoch uint64) {
	s.state = InProgress
	s.stopTick = s.ticker(time.Second, func() { s.tick(epoch) })
}

func (s *Session) tick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.state != InProgress {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		r := s.submitLocked()
		slog.Info("quiz auto-submitted", "topic", r.Topic, "grade", r.Grade)
	}
}

func (s *Session) cancelTicker() {
	if s.stopTick != nil {
		s.stopTick()
		s.stopTick = nil
	}
}

// SelectAnswer records or overwrites the choice for question i.
// It never mutates state when it returns an error.
func (s *Session) SelectAnswer(i, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case InProgress:
	case Submitted:
		return ErrAlreadySubmitted
	default:
		return ErrNotInProgress
	}
	if i < 0 || i >= s.set.Len() {
		return fmt.Errorf("%w: question %d does not exist", ErrInvalidSelection, i)
	}
	if option < 0 || option >= model.OptionsPerQuestion {
		return fmt.Errorf("%w: option %d out of range", ErrInvalidSelection, option)
	}
	s.selections[i] = option
	return nil
}

// Submit grades the running quiz. It requires every question to be
// answered. Once submitted, further calls return the same result.
func (s *Session) Submit() (model.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Submitted:
		return *s.result, nil
	case InProgress:
	default:
		return model.QuizResult{}, ErrNotInProgress
	}
	if n := len(s.selections); n < s.set.Len() {
		return model.QuizResult{}, fmt.Errorf("%w: %d of %d answered", ErrIncomplete, n, s.set.Len())
	}

	r := s.submitLocked()
	slog.Info("quiz submitted", "topic", r.Topic, "grade", r.Grade, "time_spent", r.TimeSpentSeconds)
	return r, nil
}

// submitLocked performs the single InProgress to Submitted transition.
func (s *Session) submitLocked() model.QuizResult {
	s.cancelTicker()
	r := Score(s.set.Questions, s.selections, s.budget, s.remaining, s.topic, s.now())
	s.result = &r
	s.state = Submitted
	s.history.Append(r)
	return r
}

// Close tears the session down and cancels its countdown.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTicker()
	s.closed = true
	s.epoch++
	if s.state != Submitted {
		s.state = Idle
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ElapsedSeconds is the number of countdown ticks consumed in this cycle.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget - s.remaining
}

// Remaining is the number of seconds left on the countdown.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// CanSubmit reports whether a manual submit would be accepted.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == InProgress && len(s.selections) == s.set.Len()
}

// Result returns the result of the current cycle once submitted.
func (s *Session) Result() (model.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.QuizResult{}, false
	}
	return *s.result, true
}

// History returns the session's result log.
func (s *Session) History() *History {
	return s.history
}

// QuestionView is a question as shown to the student. CorrectIndex is set
// only after submission.
type QuestionView struct {
	Text         string                           `json:"question"`
	Options      [model.OptionsPerQuestion]string `json:"options"`
	CorrectIndex *int                             `json:"correctAnswer,omitempty"`
}

// Snapshot is a consistent point-in-time view of a session.
type Snapshot struct {
	State      State             `json:"state"`
	Topic      string            `json:"topic,omitempty"`
	Requested  int               `json:"requested,omitempty"`
	Questions  []QuestionView    `json:"questions"`
	Selections map[int]int       `json:"selections"`
	Remaining  int               `json:"remaining"`
	Elapsed    int               `json:"elapsed"`
	CanSubmit  bool              `json:"canSubmit"`
	Result     *model.QuizResult `json:"result,omitempty"`
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:      s.state,
		Topic:      s.topic,
		Requested:  s.set.Requested,
		Questions:  make([]QuestionView, 0, s.set.Len()),
		Selections: make(map[int]int, len(s.selections)),
		Remaining:  s.remaining,
		Elapsed:    s.budget - s.remaining,
		CanSubmit:  s.state == InProgress && len(s.selections) == s.set.Len(),
	}
	for _, q := range s.set.Questions {
		v := QuestionView{Text: q.Text, Options: q.Options}
		if s.state == Submitted {
			idx := q.CorrectIndex
			v.CorrectIndex = &idx
		}
		snap.Questions = append(snap.Questions, v)
	}
	for k, v := range s.selections {
		snap.Selections[k] = v
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
