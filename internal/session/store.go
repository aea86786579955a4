package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Store is an in-memory session registry with idle expiry
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without requests
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the idle expiry
func (s *Store) TTL() time.Duration { return s.ttl }

// Create registers a new empty session
func (s *Store) Create() *Session {
	sess := newSession(uuid.New().String(), s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the live session with the given id
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(sess, s.now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Touch returns the live session with the given id and marks it as seen
func (s *Store) Touch(id string) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sess.touch(s.now())
	return sess, nil
}

// Delete ends a session and releases its tables
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Clear()
	}
	return ok
}

// Sweep removes every session idle since before now-ttl and returns
// the removed ids.
func (s *Store) Sweep(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			sess.Clear()
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Len returns the number of registered sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return now.Sub(sess.LastSeen()) > s.ttl
}
