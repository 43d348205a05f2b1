// Package session maps opaque session tokens to the chef who logged in.
// Sessions never expire; a token stays valid until it is removed.
package session

import (
	"context"
	"sync"

	"github.com/iliyamo/recipe-catalog/internal/model"
)

// Store is the token registry used by the authenticator. Each operation is
// atomic with respect to the others.
type Store interface {
	Put(ctx context.Context, token string, chef model.Chef) error
	// Get reports ok=false when the token is unknown.
	Get(ctx context.Context, token string) (chef model.Chef, ok bool, err error)
	// Remove reports whether the token existed; unknown tokens are a no-op.
	Remove(ctx context.Context, token string) (removed bool, err error)
}

// MemoryStore keeps sessions in a map owned by the process. Sessions are
// lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Chef
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]model.Chef{}}
}

func (s *MemoryStore) Put(_ context.Context, token string, chef model.Chef) error {
	chef.Password = ""
	s.mu.Lock()
	s.sessions[token] = chef
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (model.Chef, bool, error) {
	s.mu.RLock()
	c, ok := s.sessions[token]
	s.mu.RUnlock()
	return c, ok, nil
}

func (s *MemoryStore) Remove(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
