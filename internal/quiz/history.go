package quiz

import (
	"sync"

	"github.com/pavelanni/studybuddy/internal/model"
)

// History is an append-only, insertion-ordered log of quiz results.
// It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	results []model.QuizResult
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a result as the most recent entry.
func (h *History) Append(r model.QuizResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, r)
}

// All returns a copy of every result, oldest first.
func (h *History) All() []model.QuizResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.QuizResult, len(h.results))
	copy(out, h.results)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}

// Last returns the most recent result, if any.
func (h *History) Last() (model.QuizResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.results) == 0 {
		return model.QuizResult{}, false
	}
	return h.results[len(h.results)-1], true
}
