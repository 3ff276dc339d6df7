package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

// DefaultRedisPrefix is the key prefix used when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "dockspace:"

// maxPutAttempts bounds the optimistic retries of RedisStore.Put.
const maxPutAttempts = 8

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each snapshot under its own key and tracks names in a set
// so List does not need SCAN.
//
// Keys:
//
//	<prefix>layout:<name>   snapshot JSON
//	<prefix>layouts         set of snapshot names
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageError(err, "connect to redis at %s", cfg.Addr)
	}
	s := NewRedisStoreFromClient(client, cfg.Prefix)
	s.owned = true
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client. Close does not close a
// client passed in this way.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string { return s.prefix + "layout:" + name }
func (s *RedisStore) indexKey() string       { return s.prefix + "layouts" }

func (s *RedisStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return s.read(ctx, s.client, name)
}

// getter is the part of a client or transaction that read needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) read(ctx context.Context, c getter, name string) (*Snapshot, error) {
	data, err := c.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "redis get %q", name)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, storageError(err, "parse layout %q", name)
	}
	return &snap, nil
}

// Put watches the snapshot key so the read of the previous snapshot and the
// write form one optimistic transaction. A conflicting write restarts it.
func (s *RedisStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	key := s.key(snap.Name)

	var rec *Snapshot
	put := func(tx *redis.Tx) error {
		prev, err := s.read(ctx, tx, snap.Name)
		if err != nil && !IsNotFound(err) {
			return err
		}
		rec = prepare(snap, prev)
		data, err := json.Marshal(rec)
		if err != nil {
			return storageError(err, "marshal layout %q", snap.Name)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, s.indexKey(), snap.Name)
			return nil
		})
		return err
	}

	for range maxPutAttempts {
		err := s.client.Watch(ctx, put, key)
		switch {
		case err == nil:
			stamp(snap, rec)
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case derrors.GetCode(err) != "":
			return err
		default:
			return storageError(err, "redis put %q", snap.Name)
		}
	}
	return storageError(redis.TxFailedErr, "redis put %q: gave up after %d conflicting writes", snap.Name, maxPutAttempts)
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(name))
		pipe.SRem(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return storageError(err, "redis delete %q", name)
	}
	if del.Val() == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, storageError(err, "redis list")
	}
	if len(names) == 0 {
		return []Summary{}, nil
	}
	slices.Sort(names)

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.key(name)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageError(err, "redis list")
	}

	out := make([]Summary, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Index entry without a value; the key expired or was removed
			// outside this store.
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(str), &snap); err != nil {
			return nil, storageError(err, "parse layout %q", names[i])
		}
		out = append(out, snap.Summary())
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
