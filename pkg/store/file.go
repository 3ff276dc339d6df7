package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const snapshotExt = ".json"

// FileStore keeps one JSON file per snapshot in a directory. Files are named
// by the SHA-256 of the snapshot name; the name itself lives in the file.
// Writes go through a temporary file and a rename, so readers never see a
// partially written snapshot.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store in dir.
// If dir is empty, defaults to ~/.config/dockspace/layouts/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "dockspace", "layouts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the directory snapshots are stored in.
func (s *FileStore) Path() string {
	return s.dir
}

func (s *FileStore) snapshotPath(name string) string {
	return filepath.Join(s.dir, Hash([]byte(name))+snapshotExt)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *FileStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(name)
}

func (s *FileStore) read(name string) (*Snapshot, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	snap, err := readSnapshotFile(s.snapshotPath(name))
	if os.IsNotExist(err) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "read layout %q", name)
	}
	return snap, nil
}

func readSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

func (s *FileStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read(snap.Name)
	if err != nil && !IsNotFound(err) {
		return err
	}

	rec := prepare(snap, prev)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return storageError(err, "marshal layout %q", snap.Name)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return storageError(err, "write layout %q", snap.Name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageError(err, "write layout %q", snap.Name)
	}
	if err := tmp.Close(); err != nil {
		return storageError(err, "write layout %q", snap.Name)
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath(snap.Name)); err != nil {
		return storageError(err, "write layout %q", snap.Name)
	}
	stamp(snap, rec)
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return storageError(err, "remove layout %q", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storageError(err, "read layout dir")
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != snapshotExt {
			continue
		}
		snap, err := readSnapshotFile(filepath.Join(s.dir, name))
		if err != nil || snap.Name == "" {
			// Skip files that are not snapshots.
			continue
		}
		out = append(out, snap.Summary())
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
