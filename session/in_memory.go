package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/stridekit/stride/agent"
)

// Factory builds the agent for a new session. It is invoked at most once
// per session id; construction faults are surfaced to the caller of Get or
// Create, never cached.
type Factory func(sessionID string) (*agent.Agent, error)

// Session is one live conversation: a stable id, the agent serving it, and
// bookkeeping timestamps.
type Session struct {
	ID        string
	Agent     *agent.Agent
	CreatedAt time.Time
}

// Store resolves session ids to sessions.
type Store interface {
	// Get returns the session with the given id, creating it lazily.
	Get(sessionID string) (*Session, error)
	// Create forces a fresh session, replacing any existing one under the id.
	Create(sessionID string) (*Session, error)
	// Delete removes the session; deleting an absent id is a no-op.
	Delete(sessionID string)
	// Len reports the number of live sessions.
	Len() int
}

// InMemoryStore is a volatile Store keeping sessions in a process local
// map. It is safe for concurrent access and best suited for tests or
// single-node servers.
type InMemoryStore struct {
	mu       sync.Mutex
	factory  Factory
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty in-memory session store backed by
// the given agent factory.
func NewInMemoryStore(factory Factory) *InMemoryStore {
	return &InMemoryStore{factory: factory, sessions: make(map[string]*Session)}
}

// Get returns an existing session or creates a new one lazily.
func (s *InMemoryStore) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return s.createLocked(sessionID)
}

// Create forces the creation (or replacement) of a session with the given id.
func (s *InMemoryStore) Create(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(sessionID)
}

// Delete removes the session with the given id.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// createLocked allocates and stores a new session; caller must already hold
// the lock.
func (s *InMemoryStore) createLocked(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session: empty session id")
	}
	ag, err := s.factory(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess := &Session{ID: sessionID, Agent: ag, CreatedAt: time.Now()}
	s.sessions[sessionID] = sess
	return sess, nil
}
