package poll

import (
	"context"
	"sync"

	"github.com/pavelanni/studybuddy/internal/model"
)

// MemoryStore keeps polls in a map for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	polls map[string]model.Poll
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{polls: make(map[string]model.Poll)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (model.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[id]
	if !ok {
		return model.Poll{}, ErrNotFound
	}
	return clone(p), nil
}

// Put stores p, recomputing TotalVotes from its options.
func (m *MemoryStore) Put(_ context.Context, p model.Poll) error {
	p = clone(p)
	p.TotalVotes = 0
	for _, o := range p.Options {
		p.TotalVotes += o.Votes
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[p.ID] = p
	return nil
}

func (m *MemoryStore) Increment(_ context.Context, id, optionID string) (model.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[id]
	if !ok {
		return model.Poll{}, ErrNotFound
	}
	p = clone(p)
	found := false
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			p.Options[i].Votes++
			found = true
			break
		}
	}
	if !found {
		return model.Poll{}, ErrUnknownOption
	}
	p.TotalVotes++
	m.polls[id] = p
	return clone(p), nil
}

func clone(p model.Poll) model.Poll {
	opts := make([]model.PollOption, len(p.Options))
	copy(opts, p.Options)
	p.Options = opts
	return p
}
