package session

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

type memoryEntry struct {
	ctrl     *quotes.Controller
	lastSeen time.Time
}

// MemoryStore keeps live controllers in process memory and drops sessions
// idle for longer than the TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	factory Factory
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(factory Factory, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*quotes.Controller, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if e, ok := s.entries[id]; ok {
		e.lastSeen = now
		return e.ctrl, nil
	}
	ctrl := s.factory(quotes.State{})
	s.entries[id] = &memoryEntry{ctrl: ctrl, lastSeen: now}
	return ctrl, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		// never drop a session mid-submit
		if now.Sub(e.lastSeen) > s.ttl && !e.ctrl.Snapshot().Submitting {
			delete(s.entries, id)
		}
	}
}
