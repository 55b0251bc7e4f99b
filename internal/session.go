package internal

import (
	"sync"
	"time"

	"ludic-admin/internal/admin"
	"ludic-admin/internal/metrics"
)

// Session is the server-side state of one logged-in admin: both list screens
// with their pages, drafts and pending deletes.
type Session struct {
	Players *admin.Screen[admin.Player, admin.PlayerDraft]
	Matches *admin.Screen[admin.Match, admin.MatchDraft]

	expires time.Time
}

// SessionFactory builds the screens of a fresh session.
type SessionFactory func() *Session

// Sessions holds one Session per token id until the token expires.
type Sessions struct {
	mu      sync.Mutex
	byToken map[string]*Session
	factory SessionFactory
	now     func() time.Time
}

func NewSessions(factory SessionFactory) *Sessions {
	return &Sessions{
		byToken: map[string]*Session{},
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the session of jti, creating it on first use.
func (s *Sessions) Get(jti string, expires time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	if sess, ok := s.byToken[jti]; ok {
		return sess
	}
	sess := s.factory()
	sess.expires = expires
	s.byToken[jti] = sess
	metrics.ActiveSessions.Set(float64(len(s.byToken)))
	return sess
}

// Drop forgets the session of jti.
func (s *Sessions) Drop(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, jti)
	metrics.ActiveSessions.Set(float64(len(s.byToken)))
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

func (s *Sessions) sweepLocked() {
	now := s.now()
	for jti, sess := range s.byToken {
		if !sess.expires.IsZero() && !now.Before(sess.expires) {
			delete(s.byToken, jti)
		}
	}
}
