package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps snapshots in process memory. It is meant for tests and
// for running the API without persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[name]
	if !ok {
		return nil, notFound(name)
	}
	return snap.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := prepare(snap, s.snaps[snap.Name])
	s.snaps[snap.Name] = rec
	stamp(snap, rec)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[name]; !ok {
		return notFound(name)
	}
	delete(s.snaps, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap.Summary())
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
}

var _ Store = (*MemoryStore)(nil)
