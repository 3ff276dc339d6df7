package store

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/layout"
)

func sampleLayout() layout.Layout {
	return layout.Layout{Main: &layout.SplitArea{
		Orientation: layout.Horizontal,
		Sizes:       []float64{1, 2},
		Children: []layout.Area{
			&layout.TabArea{Widgets: []layout.WidgetDescriptor{{ID: "a", Kind: "editor", Label: "main.go"}}},
			&layout.TabArea{
				Widgets: []layout.WidgetDescriptor{
					{ID: "b", Kind: "console", Closable: true},
					{ID: "c", Kind: "console"},
				},
				CurrentIndex: 1,
			},
		},
	}}
}

func mustSnapshot(t *testing.T, name string, l layout.Layout) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(name, l)
	if err != nil {
		t.Fatalf("NewSnapshot(%q): %v", name, err)
	}
	return snap
}

func TestNewSnapshot(t *testing.T) {
	snap := mustSnapshot(t, "workbench", sampleLayout())

	if _, err := uuid.Parse(snap.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", snap.ID, err)
	}
	if snap.Format != FormatVersion {
		t.Errorf("Format = %d, want %d", snap.Format, FormatVersion)
	}
	if snap.Stats.Panels != 2 || snap.Stats.Splits != 1 {
		t.Errorf("Stats = %+v, want 2 panels and 1 split", snap.Stats)
	}
	if !snap.CreatedAt.Equal(snap.UpdatedAt) {
		t.Error("new snapshot should have CreatedAt == UpdatedAt")
	}

	l, err := snap.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want, _ := layout.Encode(sampleLayout())
	got, _ := layout.Encode(l)
	if !bytes.Equal(got, want) {
		t.Errorf("decoded layout differs:\n%s\nwant:\n%s", got, want)
	}
}

func TestNewSnapshotInvalidName(t *testing.T) {
	for _, name := range []string{"", "../etc", "a/b", ".hidden"} {
		_, err := NewSnapshot(name, sampleLayout())
		if !derrors.Is(err, derrors.ErrCodeInvalidName) {
			t.Errorf("NewSnapshot(%q) error = %v, want INVALID_NAME", name, err)
		}
	}
}

func TestSnapshotDecodeNewerFormat(t *testing.T) {
	snap := mustSnapshot(t, "future", sampleLayout())
	snap.Format = FormatVersion + 1
	_, err := snap.Decode()
	if !derrors.Is(err, derrors.ErrCodeUnsupported) {
		t.Errorf("Decode error = %v, want UNSUPPORTED", err)
	}
}

func TestSnapshotClone(t *testing.T) {
	snap := mustSnapshot(t, "workbench", sampleLayout())
	c := snap.Clone()
	c.Layout[0] = 'x'
	if snap.Layout[0] == 'x' {
		t.Error("Clone should copy the layout bytes")
	}
	if (*Snapshot)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "missing")
		if !IsNotFound(err) {
			t.Fatalf("Get error = %v, want not found", err)
		}
		if !derrors.Is(err, derrors.ErrCodeLayoutNotFound) {
			t.Errorf("Get error code = %s, want LAYOUT_NOT_FOUND", derrors.GetCode(err))
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		s := newStore(t)
		snap := mustSnapshot(t, "workbench", sampleLayout())
		if err := s.Put(ctx, snap); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "workbench")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ID != snap.ID {
			t.Errorf("ID = %q, want %q", got.ID, snap.ID)
		}
		if got.Stats != snap.Stats {
			t.Errorf("Stats = %+v, want %+v", got.Stats, snap.Stats)
		}
		l, err := got.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if n := layout.CountPanels(l); n != 2 {
			t.Errorf("CountPanels = %d, want 2", n)
		}
	})

	t.Run("PutKeepsIdentity", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, mustSnapshot(t, "workbench", sampleLayout())); err != nil {
			t.Fatalf("Put: %v", err)
		}
		first, err := s.Get(ctx, "workbench")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}

		single := layout.Layout{Main: &layout.TabArea{Widgets: []layout.WidgetDescriptor{{ID: "z", Kind: "editor"}}}}
		if err := s.Put(ctx, mustSnapshot(t, "workbench", single)); err != nil {
			t.Fatalf("second Put: %v", err)
		}
		second, err := s.Get(ctx, "workbench")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("ID changed on overwrite: %q -> %q", first.ID, second.ID)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed on overwrite: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
		if second.UpdatedAt.Before(first.UpdatedAt) {
			t.Error("UpdatedAt should not go backwards")
		}
		if second.Stats.Panels != 1 {
			t.Errorf("Stats.Panels = %d, want 1 after overwrite", second.Stats.Panels)
		}
	})

	t.Run("PutStampsIdentity", func(t *testing.T) {
		s := newStore(t)
		first := mustSnapshot(t, "workbench", sampleLayout())
		id := first.ID
		if err := s.Put(ctx, first); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if first.ID != id {
			t.Errorf("first Put changed ID: %q -> %q", id, first.ID)
		}

		second := mustSnapshot(t, "workbench", sampleLayout())
		if err := s.Put(ctx, second); err != nil {
			t.Fatalf("second Put: %v", err)
		}
		if second.ID != id {
			t.Errorf("second Put ID = %q, want stored %q", second.ID, id)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("second Put CreatedAt = %v, want %v", second.CreatedAt, first.CreatedAt)
		}
	})

	t.Run("ConcurrentPutsKeepOneIdentity", func(t *testing.T) {
		s := newStore(t)
		const writers = 8
		snaps := make([]*Snapshot, writers)
		ids := make([]string, writers)
		for i := range snaps {
			snaps[i] = mustSnapshot(t, "race", sampleLayout())
			ids[i] = snaps[i].ID
		}

		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := range snaps {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.Put(ctx, snaps[i])
			}(i)
		}
		wg.Wait()

		kept := 0
		for i := range snaps {
			if errs[i] != nil {
				t.Fatalf("Put %d: %v", i, errs[i])
			}
			if snaps[i].ID == ids[i] {
				kept++
			}
		}
		if kept != 1 {
			t.Errorf("%d writers kept their own ID, want exactly 1", kept)
		}
		got, err := s.Get(ctx, "race")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		for i := range snaps {
			if snaps[i].ID != got.ID {
				t.Errorf("writer %d saw ID %q, stored ID is %q", i, snaps[i].ID, got.ID)
			}
		}
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, mustSnapshot(t, "workbench", sampleLayout())); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, _ := s.Get(ctx, "workbench")
		got.Layout[0] = 'x'
		got.Name = "changed"
		again, err := s.Get(ctx, "workbench")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if again.Layout[0] == 'x' || again.Name != "workbench" {
			t.Error("mutating a returned snapshot changed the store")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, mustSnapshot(t, "workbench", sampleLayout())); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Delete(ctx, "workbench"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "workbench"); !IsNotFound(err) {
			t.Errorf("Get after Delete error = %v, want not found", err)
		}
		if err := s.Delete(ctx, "workbench"); !IsNotFound(err) {
			t.Errorf("second Delete error = %v, want not found", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		s := newStore(t)
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("List on empty store = %v, want empty", list)
		}

		for _, name := range []string{"zeta", "alpha", "mid"} {
			if err := s.Put(ctx, mustSnapshot(t, name, sampleLayout())); err != nil {
				t.Fatalf("Put(%q): %v", name, err)
			}
		}
		list, err = s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := []string{"alpha", "mid", "zeta"}
		if len(list) != len(want) {
			t.Fatalf("List returned %d summaries, want %d", len(list), len(want))
		}
		for i, sum := range list {
			if sum.Name != want[i] {
				t.Errorf("List[%d].Name = %q, want %q", i, sum.Name, want[i])
			}
			if sum.Stats.Panels != 2 {
				t.Errorf("List[%d].Stats.Panels = %d, want 2", i, sum.Stats.Panels)
			}
		}
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, nil); !derrors.Is(err, derrors.ErrCodeInvalidInput) {
			t.Errorf("Put(nil) error = %v, want INVALID_INPUT", err)
		}
		bad := mustSnapshot(t, "workbench", sampleLayout())
		bad.Name = "../escape"
		if err := s.Put(ctx, bad); !derrors.Is(err, derrors.ErrCodeInvalidName) {
			t.Errorf("Put with bad name error = %v, want INVALID_NAME", err)
		}
		broken := mustSnapshot(t, "broken", sampleLayout())
		broken.Layout = []byte("{not json")
		if err := s.Put(ctx, broken); !derrors.Is(err, derrors.ErrCodeParse) {
			t.Errorf("Put with broken layout error = %v, want PARSE_ERROR", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestFileStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		return s
	})
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Put(ctx, mustSnapshot(t, "workbench", sampleLayout())); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(dir + "/" + Hash([]byte("workbench")) + ".json"); err != nil {
		t.Errorf("snapshot file not hash-named: %v", err)
	}
	if err := os.WriteFile(dir+"/notes.txt", []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/garbage.json", []byte("[1,2"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "workbench" {
		t.Errorf("List = %+v, want only workbench", list)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("DOCKSPACE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DOCKSPACE_TEST_REDIS_ADDR not set")
	}
	testStore(t, func(t *testing.T) Store {
		ctx := context.Background()
		prefix := "dockspace-test:" + uuid.NewString() + ":"
		s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: prefix})
		if err != nil {
			t.Fatalf("NewRedisStore: %v", err)
		}
		t.Cleanup(func() {
			keys, _ := s.client.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				s.client.Del(ctx, keys...)
			}
			s.Close()
		})
		return s
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DOCKSPACE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DOCKSPACE_TEST_MONGO_URI not set")
	}
	testStore(t, func(t *testing.T) Store {
		ctx := context.Background()
		s, err := NewMongoStore(ctx, MongoConfig{
			URI:        uri,
			Database:   "dockspace_test",
			Collection: "layouts_" + uuid.NewString()[:8],
		})
		if err != nil {
			t.Fatalf("NewMongoStore: %v", err)
		}
		t.Cleanup(func() {
			s.coll.Drop(ctx)
			s.Close()
		})
		return s
	})
}
