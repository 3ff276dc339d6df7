// Package store persists named layout snapshots.
//
// A [Snapshot] wraps the layout JSON produced by [layout.Encode] together with
// its name, a stable ID, precomputed statistics and timestamps. Backends
// implement the [Store] interface:
//   - memory: in-process map for tests and ephemeral servers
//   - file: one JSON file per snapshot, the CLI default
//   - redis: one key per snapshot plus a name index set
//   - mongo: one document per snapshot keyed by name
//
// [CachedStore] adds an LRU cache in front of any backend, and [Instrument]
// reports operations to the hooks registered in package observability.
// [Open] builds a fully wired store from a [Config].
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: "file", CacheSize: 64})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	snap, err := store.NewSnapshot("workbench", l)
//	if err != nil {
//	    return err
//	}
//	if err := s.Put(ctx, snap); err != nil {
//	    return err
//	}
//
//	snap, err = s.Get(ctx, "workbench")
//	if store.IsNotFound(err) {
//	    // ...
//	}
//	l, err := snap.Decode()
package store
