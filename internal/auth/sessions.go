package auth

import (
	"context"
	"sync"
	"time"

	"taskboard-api/internal/models"
)

// session is an open login and its absolute expiration timestamp.
type session struct {
	username  string
	role      models.Role
	expiresAt time.Time
}

// SessionStore tracks open sessions so tokens can be revoked before they
// expire. Expired entries are treated as closed on read and removed by
// PurgeExpired.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// Open records a session until expiresAt.
func (s *SessionStore) Open(id string, user *models.User, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session{
		username:  user.Username,
		role:      user.Role,
		expiresAt: expiresAt,
	}
}

// Lookup returns the username of an open, unexpired session.
func (s *SessionStore) Lookup(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || !s.now().Before(sess.expiresAt) {
		return "", false
	}
	return sess.username, true
}

// Close removes a session if present.
func (s *SessionStore) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of unexpired sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	count := 0
	for _, sess := range s.sessions {
		if now.Before(sess.expiresAt) {
			count++
		}
	}
	return count
}

// PurgeExpired removes expired sessions and reports how many were dropped.
func (s *SessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	purged := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration, onPurge func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PurgeExpired(); n > 0 && onPurge != nil {
				onPurge(n)
			}
		}
	}
}
