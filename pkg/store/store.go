package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/layout"
)

// FormatVersion is the snapshot envelope version written by this package.
// The layout JSON inside a snapshot is unversioned; the envelope version lets
// a store reject snapshots written by a newer format with a clear error.
const FormatVersion = 1

// ErrNotFound is returned (wrapped) when a named snapshot does not exist.
var ErrNotFound = errors.New("not found")

// Snapshot is a named, stored layout.
type Snapshot struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Format    int             `json:"format"`
	Layout    json.RawMessage `json:"layout"`
	Stats     layout.Stats    `json:"stats"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Summary describes a snapshot without its layout.
type Summary struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Stats     layout.Stats `json:"stats"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by name. Missing names return an error
	// wrapping ErrNotFound.
	Get(ctx context.Context, name string) (*Snapshot, error)

	// Put creates or replaces the snapshot with the same name. When one
	// exists, its ID and CreatedAt are kept. On success snap's ID, Format,
	// CreatedAt and UpdatedAt hold the stored values; the lookup of the
	// previous snapshot and the write are one atomic step, so snap.ID tells
	// concurrent writers apart from the one that created the name.
	Put(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot. Missing names return an error wrapping
	// ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns summaries of all snapshots ordered by name.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// NewSnapshot encodes l into a new snapshot called name.
func NewSnapshot(name string, l layout.Layout) (*Snapshot, error) {
	if err := derrors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	data, err := layout.Encode(l)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Format:    FormatVersion,
		Layout:    data,
		Stats:     layout.Measure(l),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode parses the stored layout.
func (s *Snapshot) Decode() (layout.Layout, error) {
	if s.Format > FormatVersion {
		return layout.Layout{}, derrors.New(derrors.ErrCodeUnsupported,
			"snapshot %q has format %d, this build reads up to %d", s.Name, s.Format, FormatVersion)
	}
	return layout.Decode(s.Layout)
}

// Summary returns the snapshot's summary.
func (s *Snapshot) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name, Stats: s.Stats, UpdatedAt: s.UpdatedAt}
}

// Clone returns a copy that shares no memory with s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Layout = bytes.Clone(s.Layout)
	return &c
}

// validate checks a snapshot before it is written.
func validate(snap *Snapshot) error {
	if snap == nil {
		return derrors.New(derrors.ErrCodeInvalidInput, "snapshot is nil")
	}
	if err := derrors.ValidateLayoutName(snap.Name); err != nil {
		return err
	}
	if !json.Valid(snap.Layout) {
		return derrors.New(derrors.ErrCodeParse, "snapshot %q layout is not valid JSON", snap.Name)
	}
	return nil
}

// prepare returns the record to write for snap, carrying over identity and
// creation time from prev when a snapshot with the same name exists.
func prepare(snap, prev *Snapshot) *Snapshot {
	out := snap.Clone()
	now := time.Now().UTC()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Format == 0 {
		out.Format = FormatVersion
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	if prev != nil {
		out.ID = prev.ID
		out.CreatedAt = prev.CreatedAt
	}
	out.UpdatedAt = now
	return out
}

// stamp copies the stored identity and timestamps of rec into snap.
func stamp(snap, rec *Snapshot) {
	snap.ID = rec.ID
	snap.Format = rec.Format
	snap.CreatedAt = rec.CreatedAt
	snap.UpdatedAt = rec.UpdatedAt
}

// IsNotFound reports whether err means a snapshot does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func validName(name string) error {
	return derrors.ValidateLayoutName(name)
}

func notFound(name string) error {
	return derrors.Wrap(derrors.ErrCodeLayoutNotFound, ErrNotFound, "layout %q", name)
}

func storageError(err error, format string, args ...any) error {
	return derrors.Wrap(derrors.ErrCodeStorage, err, format, args...)
}
