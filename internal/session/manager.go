package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager maps opaque session tokens to live sessions. Tokens are handed to
// the client when a session is created and presented on every request.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger
}

// NewManager creates an empty session registry.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger.With().Str("component", "session-manager").Logger(),
	}
}

// Create mints a new anonymous session and returns its token.
func (m *Manager) Create() (string, *Session) {
	token := uuid.NewString()
	sess := New()

	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()

	m.logger.Debug().Msg("session created")

	return token, sess
}

// Get resolves a token to its session.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	return sess, ok
}

// Remove drops a session from the registry.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
