package layout

// CountPanels returns the number of tab areas in the layout.
func CountPanels(l Layout) int {
	return countPanels(l.Main)
}

func countPanels(a Area) int {
	if isNilArea(a) {
		return 0
	}
	switch v := a.(type) {
	case *TabArea:
		return 1
	case *SplitArea:
		n := 0
		for _, c := range v.Children {
			n += countPanels(c)
		}
		return n
	}
	return 0
}

// CountSplits returns the number of split joins in the layout: every split
// area with k children contributes k-1, which is the number of resize
// handles the user sees.
func CountSplits(l Layout) int {
	return countSplits(l.Main)
}

func countSplits(a Area) int {
	split, ok := a.(*SplitArea)
	if !ok || split == nil {
		return 0
	}
	n := 0
	if len(split.Children) > 0 {
		n = len(split.Children) - 1
	}
	for _, c := range split.Children {
		n += countSplits(c)
	}
	return n
}

// Stats summarizes the shape of a layout.
type Stats struct {
	Panels     int `json:"panels"`      // tab areas
	Splits     int `json:"splits"`      // split joins, see CountSplits
	SplitAreas int `json:"split_areas"` // split area nodes
	Widgets    int `json:"widgets"`     // tabs across all panels
	Depth      int `json:"depth"`       // nodes on the longest root-to-leaf path
}

// Measure computes [Stats] for a layout in a single walk.
func Measure(l Layout) Stats {
	var s Stats
	var walk func(a Area, depth int)
	walk = func(a Area, depth int) {
		if isNilArea(a) {
			return
		}
		if depth > s.Depth {
			s.Depth = depth
		}
		switch v := a.(type) {
		case *TabArea:
			s.Panels++
			s.Widgets += len(v.Widgets)
		case *SplitArea:
			s.SplitAreas++
			if len(v.Children) > 0 {
				s.Splits += len(v.Children) - 1
			}
			for _, c := range v.Children {
				walk(c, depth+1)
			}
		}
	}
	walk(l.Main, 1)
	return s
}

// Walk visits every area of the layout in depth-first pre-order. fn receives
// the area and its depth (the root has depth 0); returning false skips the
// area's children.
func Walk(l Layout, fn func(a Area, depth int) bool) {
	var walk func(a Area, depth int)
	walk = func(a Area, depth int) {
		if isNilArea(a) {
			return
		}
		if !fn(a, depth) {
			return
		}
		if split, ok := a.(*SplitArea); ok {
			for _, c := range split.Children {
				walk(c, depth+1)
			}
		}
	}
	walk(l.Main, 0)
}
