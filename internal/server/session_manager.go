package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/StephenLER/MAP/pkg/qa"
)

// SessionStatus defines the possible states of a QA session.
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// Session records one agent run: the question, its state, and once finished
// the full trace and answer.
type Session struct {
	ID        string          `json:"id"`
	Question  string          `json:"question"`
	Status    SessionStatus   `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	History   []qa.AgentStep  `json:"history,omitempty"`
	Answer    string          `json:"answer,omitempty"`
	Error     string          `json:"error,omitempty"`
	mu        sync.RWMutex
}

// SessionManager tracks agent runs so clients can retrieve a finished run
// by id.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// NewSession registers a new running session for a question.
func (sm *SessionManager) NewSession(question string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session := &Session{
		ID:        uuid.New().String(),
		Question:  question,
		Status:    SessionStatusRunning,
		StartedAt: time.Now(),
	}
	sm.sessions[session.ID] = session
	return session
}

// GetSession safely retrieves a session by its ID.
func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, found := sm.sessions[id]
	return session, found
}

// --- Methods for updating a Session ---

// Complete marks the session as finished with its trace and answer.
func (s *Session) Complete(result *qa.AgentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = SessionStatusCompleted
	s.History = result.History
	s.Answer = result.FinalAnswer
}

// Fail marks the session as failed and records the error message.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = SessionStatusFailed
	s.Error = err.Error()
}

// Snapshot returns a copy safe to serialize while the run may still be
// updating the session.
func (s *Session) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{
		ID:        s.ID,
		Question:  s.Question,
		Status:    s.Status,
		StartedAt: s.StartedAt,
		History:   s.History,
		Answer:    s.Answer,
		Error:     s.Error,
	}
}
