package session

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	username  string
	expiresAt time.Time
}

// MemoryStore is the redis-less fallback, good for tests and single
// binary runs. Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Create(_ context.Context, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{
		username:  username,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", ErrNoSession
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", ErrNoSession
	}

	sess.expiresAt = time.Now().Add(s.ttl)
	s.sessions[token] = sess
	return sess.username, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
