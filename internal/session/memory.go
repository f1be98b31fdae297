package session

import (
	"context"
	"sync"
)

// MemoryStore holds the session for the life of the process.
type MemoryStore struct {
	mu  sync.Mutex
	cur *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sess
	s.cur = &cp
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Session{}, false, nil
	}
	return *s.cur, true, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }
