package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clarityai/clarity/go-engine/internal/config"
	"github.com/clarityai/clarity/go-engine/internal/journal"
)

// #region manager-struct

// Manager creates and tracks sessions by id. Sessions share one journal
// and one base logger; each gets its own actor.
type Manager struct {
	mu       sync.Mutex
	cfg      config.Config
	jnl      *journal.Journal
	log      *zap.Logger
	sessions map[string]*Session
}

// #endregion manager-struct

// #region constructor

// NewManager creates a manager. jnl and logger may be nil.
func NewManager(cfg config.Config, jnl *journal.Journal, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		jnl:      jnl,
		log:      logger,
		sessions: make(map[string]*Session),
	}
}

// #endregion constructor

// #region lookup

// Get returns the session for id, creating it if needed. id == "" creates
// a session with a fresh uuid.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id, m.cfg, m.jnl, m.log)
	m.sessions[id] = s
	return s
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove closes and forgets the session for id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// #endregion lookup

// #region close

// Close shuts down every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// #endregion close
