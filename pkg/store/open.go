package store

import (
	"context"
	"time"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string
	CacheSize int
	Redis     RedisConfig
	Mongo     MongoConfig
}

// Open creates the configured backend, instruments it with the registered
// store hooks and, when CacheSize is positive, puts an LRU cache in front.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		cfg.Backend = BackendFile
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, derrors.New(derrors.ErrCodeInvalidConfig,
			"unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
	if err != nil {
		return nil, err
	}

	s = Instrument(s, cfg.Backend)
	if cfg.CacheSize > 0 {
		cached, err := NewCachedStore(s, cfg.CacheSize)
		if err != nil {
			s.Close()
			return nil, err
		}
		s = cached
	}
	return s, nil
}

// Instrument reports every Get, Put and Delete on s to the registered
// observability.StoreHooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, name string) (*Snapshot, error) {
	start := time.Now()
	snap, err := s.Store.Get(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(start), err)
	return snap, err
}

func (s *instrumented) Put(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	err := s.Store.Put(ctx, snap)
	var name string
	var size int
	if snap != nil {
		name, size = snap.Name, len(snap.Layout)
	}
	observability.Store().OnSave(ctx, s.backend, name, size, time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	err := s.Store.Delete(ctx, name)
	observability.Store().OnDelete(ctx, s.backend, name, err)
	return err
}
