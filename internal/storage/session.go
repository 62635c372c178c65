package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"mindguard/pkg"

	"github.com/google/uuid"
)

// SessionTTL is the default idle lifetime of a conversation (40 minutes)
const SessionTTL = 40 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// Session is one in-memory conversation. Callers hold Lock while running a
// message through the pipeline so turns of one session never interleave.
type Session struct {
	ID           string
	Conversation pkg.Conversation
	CreatedAt    time.Time
	UpdatedAt    time.Time

	sync.Mutex
}

// SessionManager keeps conversations in memory only; history is never written to disk
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a manager whose sessions expire after ttl of inactivity
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new empty session
func (m *SessionManager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session, dropping it if it has expired
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if m.expired(s) {
		delete(m.sessions, id)
		return nil, fmt.Errorf("%w: %s expired", ErrSessionNotFound, id)
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is empty, unknown or expired
func (m *SessionManager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}

// Touch marks the session as active now
func (m *SessionManager) Touch(s *Session) {
	m.mu.Lock()
	s.UpdatedAt = m.now()
	m.mu.Unlock()
}

// Delete ends a session and discards its history
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.Lock()
	s.Conversation.Reset()
	s.Unlock()
	return nil
}

// Sweep drops every expired session and returns how many were removed
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) expired(s *Session) bool {
	return m.now().Sub(s.UpdatedAt) > m.ttl
}

// SessionStats summarizes a session without exposing its content
type SessionStats struct {
	ID              string `json:"id"`
	TurnCount       int    `json:"turn_count"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
	DurationMinutes int64  `json:"duration_minutes"`
}

// Stats returns statistics for the session with id
func (m *SessionManager) Stats(id string) (SessionStats, error) {
	s, err := m.Get(id)
	if err != nil {
		return SessionStats{}, err
	}

	s.Lock()
	turns := s.Conversation.Len()
	s.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return SessionStats{
		ID:              s.ID,
		TurnCount:       turns,
		CreatedAt:       s.CreatedAt.Unix(),
		UpdatedAt:       s.UpdatedAt.Unix(),
		DurationMinutes: int64(s.UpdatedAt.Sub(s.CreatedAt).Minutes()),
	}, nil
}
