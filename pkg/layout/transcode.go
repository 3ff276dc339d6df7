package layout

import (
	"fmt"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

// Factory materializes one live widget from its descriptor.
type Factory[W any] func(WidgetDescriptor) (W, error)

// Serialize converts a live layout into its JSON-safe form.
//
// The walk is depth-first and preserves the order of children and tabs.
// Widgets go through [Extract]; current indices and orientations are copied
// verbatim without validation. Size slices are copied, so later changes to
// the live tree do not leak into the result. A nil layout or nil root
// serializes to an empty [Layout].
func Serialize[W any](l *LiveLayout[W]) Layout {
	if l == nil {
		return Layout{}
	}
	return Layout{Main: serializeArea(l.Main)}
}

func serializeArea[W any](a LiveArea[W]) Area {
	if isNilLiveArea(a) {
		return nil
	}
	switch v := a.(type) {
	case *LiveTabArea[W]:
		out := &TabArea{
			Widgets:      make([]WidgetDescriptor, len(v.Widgets)),
			CurrentIndex: v.CurrentIndex,
		}
		for i, w := range v.Widgets {
			out.Widgets[i] = Extract(w)
		}
		return out
	case *LiveSplitArea[W]:
		out := &SplitArea{
			Orientation: v.Orientation,
			Sizes:       cloneSizes(v.Sizes),
			Children:    make([]Area, len(v.Children)),
		}
		for i, c := range v.Children {
			out.Children[i] = serializeArea(c)
		}
		return out
	}
	return nil
}

// Deserialize rebuilds a live layout from its JSON-safe form.
//
// factory is invoked exactly once per widget descriptor, synchronously, in
// depth-first left-to-right order. If it fails, Deserialize stops and returns
// a [derrors.ErrCodeFactory] error wrapping the factory's error; widgets
// materialized earlier in the pass are not released, that is up to the
// caller. The shape of the tree is checked before the first factory call, so
// a malformed layout fails with [derrors.ErrCodeMalformedLayout] without
// creating any widget.
func Deserialize[W any](l Layout, factory Factory[W]) (*LiveLayout[W], error) {
	if factory == nil {
		return nil, derrors.New(derrors.ErrCodeInvalidInput, "widget factory is nil")
	}
	if err := checkShape(l.Main); err != nil {
		return nil, err
	}
	main, err := deserializeArea(l.Main, factory)
	if err != nil {
		return nil, err
	}
	return &LiveLayout[W]{Main: main}, nil
}

func deserializeArea[W any](a Area, factory Factory[W]) (LiveArea[W], error) {
	if isNilArea(a) {
		return nil, nil
	}
	switch v := a.(type) {
	case *TabArea:
		out := &LiveTabArea[W]{
			Widgets:      make([]W, len(v.Widgets)),
			CurrentIndex: v.CurrentIndex,
		}
		for i, d := range v.Widgets {
			w, err := factory(d)
			if err != nil {
				return nil, derrors.Wrap(derrors.ErrCodeFactory, err, "widget %q (kind %s)", d.ID, d.Kind)
			}
			out.Widgets[i] = w
		}
		return out, nil
	case *SplitArea:
		out := &LiveSplitArea[W]{
			Orientation: v.Orientation,
			Sizes:       cloneSizes(v.Sizes),
			Children:    make([]LiveArea[W], len(v.Children)),
		}
		for i, c := range v.Children {
			child, err := deserializeArea(c, factory)
			if err != nil {
				return nil, err
			}
			out.Children[i] = child
		}
		return out, nil
	}
	return nil, derrors.New(derrors.ErrCodeMalformedLayout, "unsupported area %T", a)
}

// checkShape rejects trees the walk cannot rebuild faithfully: missing
// children, sizes that do not line up with children, and nodes reachable
// twice.
func checkShape(root Area) error {
	seen := make(map[Area]bool)
	var walk func(a Area, path string) error
	walk = func(a Area, path string) error {
		if isNilArea(a) {
			return nil
		}
		if seen[a] {
			return derrors.New(derrors.ErrCodeMalformedLayout, "%s: area appears more than once in the tree", path)
		}
		seen[a] = true

		split, ok := a.(*SplitArea)
		if !ok {
			return nil
		}
		if split.Children == nil {
			return derrors.New(derrors.ErrCodeMalformedLayout, "%s: split area is missing children", path)
		}
		if len(split.Sizes) != len(split.Children) {
			return derrors.New(derrors.ErrCodeMalformedLayout,
				"%s: %d sizes for %d children", path, len(split.Sizes), len(split.Children))
		}
		for i, c := range split.Children {
			childPath := fmt.Sprintf("%s.children[%d]", path, i)
			if isNilArea(c) {
				return derrors.New(derrors.ErrCodeMalformedLayout, "%s: missing area", childPath)
			}
			if err := walk(c, childPath); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, "main")
}
