package room

import (
	"context"
	"sync"
)

// MemoryStore keeps rooms in a map. The default for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

func (s *MemoryStore) Create(_ context.Context, r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Code]; ok {
		return ErrCodeTaken
	}
	s.rooms[r.Code] = r.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, code string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Code]; !ok {
		return ErrNotFound
	}
	s.rooms[r.Code] = r.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return ErrNotFound
	}
	delete(s.rooms, code)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
