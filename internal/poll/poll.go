// Package poll implements best-effort classroom polls over an injected store.
package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Option count limits for a poll.
const (
	MinOptions = 2
	MaxOptions = 6
)

var (
	ErrNotFound      = errors.New("poll not found")
	ErrUnknownOption = errors.New("unknown poll option")
	ErrInvalidPoll   = errors.New("invalid poll")
	ErrInactive      = errors.New("poll is closed")
)

// Store persists polls. Implementations serialize writes; Increment is
// atomic with respect to other calls on the same poll.
type Store interface {
	Get(ctx context.Context, id string) (model.Poll, error)
	Put(ctx context.Context, p model.Poll) error
	Increment(ctx context.Context, id, optionID string) (model.Poll, error)
}

// Service validates poll operations before they reach the store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service backed by s.
func NewService(s Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Draft is the caller-supplied content of a new poll.
type Draft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Create stores a new active poll under id, or under a fresh UUID when id
// is empty. Blank options are ignored. An existing poll with the same id
// is replaced and its votes reset.
func (s *Service) Create(ctx context.Context, id string, d Draft) (model.Poll, error) {
	question := strings.TrimSpace(d.Question)
	if question == "" {
		return model.Poll{}, fmt.Errorf("%w: question is required", ErrInvalidPoll)
	}

	var opts []model.PollOption
	for _, text := range d.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		opts = append(opts, model.PollOption{ID: uuid.NewString(), Text: text})
	}
	if len(opts) < MinOptions || len(opts) > MaxOptions {
		return model.Poll{}, fmt.Errorf("%w: need %d to %d options, got %d", ErrInvalidPoll, MinOptions, MaxOptions, len(opts))
	}

	if id == "" {
		id = uuid.NewString()
	}
	p := model.Poll{
		ID:        id,
		Question:  question,
		Options:   opts,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, p); err != nil {
		return model.Poll{}, fmt.Errorf("store poll: %w", err)
	}
	return p, nil
}

// Get returns the poll with the given id.
func (s *Service) Get(ctx context.Context, id string) (model.Poll, error) {
	return s.store.Get(ctx, id)
}

// Vote records one vote for optionID.
func (s *Service) Vote(ctx context.Context, id, optionID string) (model.Poll, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Poll{}, err
	}
	if !p.Active {
		return model.Poll{}, ErrInactive
	}
	return s.store.Increment(ctx, id, optionID)
}

// SetActive opens or closes a poll for voting.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (model.Poll, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Poll{}, err
	}
	p.Active = active
	if err := s.store.Put(ctx, p); err != nil {
		return model.Poll{}, fmt.Errorf("store poll: %w", err)
	}
	return p, nil
}

// Percentages returns each option's share of the total vote, rounded half
// up, in option order. All shares are zero when nobody has voted.
func Percentages(p model.Poll) []int {
	out := make([]int, len(p.Options))
	if p.TotalVotes <= 0 {
		return out
	}
	for i, o := range p.Options {
		out[i] = (200*o.Votes + p.TotalVotes) / (2 * p.TotalVotes)
	}
	return out
}
