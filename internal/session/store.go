package session

import (
	"sync"
	"time"

	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"

	"github.com/google/uuid"
)

// Store maps browser session ids to their State. Nothing is persisted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	auth     Authenticator
	logger   logger.Logger
	ttl      time.Duration
	now      func() time.Time
}

type entry struct {
	state    *State
	lastSeen time.Time
}

// NewStore keeps idle sessions for ttl; zero keeps them until restart.
func NewStore(auth Authenticator, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		auth:     auth,
		logger:   log,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the State for id, creating a fresh id and State when id is unknown or expired.
func (s *Store) Get(id string) (string, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.sessions[id]; ok && id != "" {
		if s.ttl == 0 || now.Sub(e.lastSeen) <= s.ttl {
			e.lastSeen = now
			return id, e.state
		}
		delete(s.sessions, id)
	}

	newID := uuid.NewString()
	st := NewState(s.auth, s.logger.WithFields(map[string]interface{}{"session": newID}))
	s.sessions[newID] = &entry{state: st, lastSeen: now}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return newID, st
}

// Sweep drops sessions idle longer than the ttl and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
