package stats

import (
	"context"
	"sync"
)

// MemoryStore keeps counters in memory. It never expires anything.
type MemoryStore struct {
	mu       sync.Mutex
	total    Counters
	byCamera map[string]Counters
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCamera: make(map[string]Counters),
	}
}

func (s *MemoryStore) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)
	c := s.byCamera[ev.Camera]
	c.add(ev.Outcome)
	s.byCamera[ev.Camera] = c
	return nil
}

func (s *MemoryStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Camera returns the counters of one camera.
func (s *MemoryStore) Camera(name string) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCamera[name]
}

func (s *MemoryStore) ByCamera() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byCamera))
	for k, v := range s.byCamera {
		out[k] = v
	}
	return out
}
