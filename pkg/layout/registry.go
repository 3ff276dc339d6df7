package layout

import (
	"slices"
	"sync"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

// Registry maps widget kinds to the factories that build them. It is a plain
// value the caller owns and passes around; [Registry.Factory] turns it into
// the single [Factory] that [Deserialize] expects.
//
// A Registry is safe for concurrent use.
type Registry[W any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[W]
	fallback  Factory[W]
}

// NewRegistry returns an empty registry.
func NewRegistry[W any]() *Registry[W] {
	return &Registry[W]{factories: make(map[string]Factory[W])}
}

// Register sets the factory for kind, replacing any previous one.
func (r *Registry[W]) Register(kind string, f Factory[W]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f == nil {
		delete(r.factories, kind)
		return
	}
	r.factories[kind] = f
}

// Fallback sets the factory used for kinds with no registered factory.
// A nil fallback makes unknown kinds fail.
func (r *Registry[W]) Fallback(f Factory[W]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = f
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry[W]) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Lookup returns the factory registered for kind, ignoring the fallback.
func (r *Registry[W]) Lookup(kind string) (Factory[W], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Factory returns a factory that dispatches on the descriptor kind.
// Descriptors of an unknown kind go to the fallback, or fail with
// [derrors.ErrCodeUnknownKind] when there is none.
func (r *Registry[W]) Factory() Factory[W] {
	return func(d WidgetDescriptor) (W, error) {
		r.mu.RLock()
		f, ok := r.factories[d.Kind]
		if !ok {
			f = r.fallback
		}
		r.mu.RUnlock()

		if f == nil {
			var zero W
			return zero, derrors.New(derrors.ErrCodeUnknownKind, "no factory for widget kind %q", d.Kind)
		}
		return f(d)
	}
}
