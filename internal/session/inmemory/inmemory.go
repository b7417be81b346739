package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recordwizard/internal/session"
	"recordwizard/internal/wizard"
)

type entry struct {
	machine   *wizard.Machine
	expiresAt time.Time
}

// Store keeps live machines in process memory.
type Store struct {
	factory  session.Factory
	ttl      time.Duration
	sessions map[string]*entry
	mu       sync.Mutex
}

func NewStore(factory session.Factory, ttl time.Duration) *Store {
	return &Store{
		factory:  factory,
		ttl:      ttl,
		sessions: make(map[string]*entry),
	}
}

func (s *Store) Create(ctx context.Context) (string, *wizard.Machine, error) {
	m := s.factory()
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{machine: m, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id, m, nil
}

func (s *Store) Get(ctx context.Context, id string) (*wizard.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.sessions, id)
		return nil, session.ErrNotFound
	}
	return e.machine, nil
}

// Save refreshes the TTL; the machine itself is already live in memory.
func (s *Store) Save(ctx context.Context, id string, m *wizard.Machine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	e.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
