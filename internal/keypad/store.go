package keypad

import (
	"errors"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Store keeps sessions in memory. All access, including the callback given to
// Do, happens under one lock.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	maxSessions int
	ttl         time.Duration
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewStore returns an empty Store. A maxSessions or ttl of zero disables the
// corresponding limit.
func NewStore(maxSessions int, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Create opens a new session, first dropping sessions idle for longer than
// the TTL.
func (s *Store) Create() (Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return Display{}, ErrTooManySessions
	}

	id := s.newID()
	manager := calculator.NewManager(calculator.WithLogger(s.logger.With(zap.String("session_id", id))))
	sess := newSession(id, manager, now)
	s.sessions[id] = sess

	s.logger.Debug("session created", zap.String("session_id", id), zap.Int("sessions", len(s.sessions)))
	return sess.Display(), nil
}

// Get returns the current display of a session.
func (s *Store) Get(id string) (Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Display{}, ErrSessionNotFound
	}
	return sess.Display(), nil
}

// Do runs fn against a session and returns its display afterwards, whether
// or not fn failed.
func (s *Store) Do(id string, fn func(*Session) error) (Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Display{}, ErrSessionNotFound
	}

	sess.lastUsed = s.now()
	err := fn(sess)
	return sess.Display(), err
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)

	s.logger.Debug("session deleted", zap.String("session_id", id))
	return nil
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.ttl {
			delete(s.sessions, id)
			s.logger.Debug("session expired", zap.String("session_id", id))
		}
	}
}
