package quiz

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns the live sessions of a server process, keyed by UUID.
type Manager struct {
	gen  Generator
	opts []Option

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions share gen and opts.
// Each session gets its own History.
func NewManager(gen Generator, opts ...Option) *Manager {
	return &Manager{
		gen:      gen,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new idle session and returns its id.
func (m *Manager) Create() (string, *Session) {
	id := uuid.NewString()
	s := NewSession(m.gen, m.opts...)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return id, s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete closes and forgets a session. It reports whether the id existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
