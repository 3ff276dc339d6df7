package store

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/dockspace/pkg/observability"
)

const cacheKeyType = "snapshot"

// CachedStore keeps recently read snapshots in an LRU cache in front of
// another store. Writes and deletes go straight to the backing store and
// evict the cached entry.
//
// Callers always receive copies, so mutating a returned snapshot never
// changes the cache.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, *Snapshot]

	// gen counts invalidations. A read only fills the cache if no write or
	// delete started or finished while it was reading from next.
	mu  sync.Mutex
	gen uint64
}

// NewCachedStore wraps next with an LRU cache holding up to size snapshots.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	c, err := lru.New[string, *Snapshot](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{next: next, cache: c}, nil
}

// Len returns the number of cached snapshots.
func (s *CachedStore) Len() int { return s.cache.Len() }

func (s *CachedStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	if snap, ok := s.cache.Get(name); ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return snap.Clone(), nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	snap, err := s.next.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	fill := gen == s.gen
	if fill {
		s.cache.Add(name, snap.Clone())
	}
	s.mu.Unlock()
	if fill {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(snap.Layout))
	}
	return snap, nil
}

func (s *CachedStore) Put(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return s.next.Put(ctx, snap)
	}
	s.invalidate(snap.Name)
	defer s.invalidate(snap.Name)
	return s.next.Put(ctx, snap)
}

func (s *CachedStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	defer s.invalidate(name)
	return s.next.Delete(ctx, name)
}

// invalidate evicts name and voids reads that are in flight.
func (s *CachedStore) invalidate(name string) {
	s.mu.Lock()
	s.gen++
	s.cache.Remove(name)
	s.mu.Unlock()
}

func (s *CachedStore) List(ctx context.Context) ([]Summary, error) {
	return s.next.List(ctx)
}

func (s *CachedStore) Close() error {
	s.cache.Purge()
	return s.next.Close()
}

var _ Store = (*CachedStore)(nil)
