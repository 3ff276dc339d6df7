package layout

import (
	"errors"
	"fmt"
	"math"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

// Validate checks a layout against every structural rule a docking toolkit
// relies on and reports all problems at once. The result is nil or an
// errors.Join of [derrors.ErrCodeInvalidLayout] errors, each prefixed with
// the path of the offending area (e.g. "main.children[1]").
//
// An empty layout is valid. Unlike [Deserialize], Validate also checks
// current indices, orientations, size values and widget id uniqueness.
func Validate(l Layout) error {
	v := validator{
		seenAreas: make(map[Area]bool),
		seenIDs:   make(map[string]string),
	}
	v.area(l.Main, "main")
	return errors.Join(v.errs...)
}

type validator struct {
	errs      []error
	seenAreas map[Area]bool
	seenIDs   map[string]string
}

func (v *validator) fail(path, format string, args ...any) {
	v.errs = append(v.errs, derrors.New(derrors.ErrCodeInvalidLayout, "%s: %s", path, fmt.Sprintf(format, args...)))
}

func (v *validator) area(a Area, path string) {
	if isNilArea(a) {
		return
	}
	if v.seenAreas[a] {
		v.fail(path, "area appears more than once in the tree")
		return
	}
	v.seenAreas[a] = true

	switch t := a.(type) {
	case *TabArea:
		v.tab(t, path)
	case *SplitArea:
		v.split(t, path)
	}
}

func (v *validator) tab(t *TabArea, path string) {
	if n := len(t.Widgets); n > 0 && (t.CurrentIndex < 0 || t.CurrentIndex >= n) {
		v.fail(path, "current index %d out of range for %d widgets", t.CurrentIndex, n)
	}
	for i, w := range t.Widgets {
		wpath := fmt.Sprintf("%s.widgets[%d]", path, i)
		if w.ID == "" {
			v.fail(wpath, "widget id is empty")
			continue
		}
		if prev, ok := v.seenIDs[w.ID]; ok {
			v.fail(wpath, "duplicate widget id %q (first seen at %s)", w.ID, prev)
			continue
		}
		v.seenIDs[w.ID] = wpath
	}
}

func (v *validator) split(s *SplitArea, path string) {
	if !s.Orientation.Valid() {
		v.fail(path, "unknown orientation %q", s.Orientation)
	}
	if len(s.Children) == 0 {
		v.fail(path, "split area has no children")
	}
	if len(s.Sizes) != len(s.Children) {
		v.fail(path, "%d sizes for %d children", len(s.Sizes), len(s.Children))
	}
	for i, size := range s.Sizes {
		if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
			v.fail(path, "size[%d] = %v is not a non-negative number", i, size)
		}
	}
	for i, c := range s.Children {
		cpath := fmt.Sprintf("%s.children[%d]", path, i)
		if isNilArea(c) {
			v.fail(cpath, "missing area")
			continue
		}
		v.area(c, cpath)
	}
}
