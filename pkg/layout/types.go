package layout

// UnknownKind is the kind recorded for widgets that do not report one.
const UnknownKind = "UNKNOWN"

// AreaType is the discriminator written as the "type" field of an area.
type AreaType string

const (
	AreaTypeTab   AreaType = "tab-area"
	AreaTypeSplit AreaType = "split-area"
)

// Orientation is the axis along which a split area lays out its children.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Valid reports whether o is one of the known orientations.
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// WidgetDescriptor is the JSON-safe summary of one tab: its identity, the
// kind of factory that produced it and its display attributes.
type WidgetDescriptor struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Label    string `json:"label,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Closable bool   `json:"closable"`
}

// Layout is a serialized docking layout. A nil Main is an empty layout.
type Layout struct {
	Main Area
}

// IsEmpty reports whether the layout has no root area.
func (l Layout) IsEmpty() bool {
	return isNilArea(l.Main)
}

// Area is a node of a serialized layout tree. It is implemented only by
// [*TabArea] and [*SplitArea].
type Area interface {
	Type() AreaType
	area()
}

// TabArea is a group of tabs shown in one panel.
type TabArea struct {
	Widgets      []WidgetDescriptor
	CurrentIndex int
}

// SplitArea divides its space between child areas along one axis.
// Sizes[i] is the relative weight of Children[i].
type SplitArea struct {
	Orientation Orientation
	Sizes       []float64
	Children    []Area
}

func (*TabArea) Type() AreaType   { return AreaTypeTab }
func (*SplitArea) Type() AreaType { return AreaTypeSplit }

func (*TabArea) area()   {}
func (*SplitArea) area() {}

// isNilArea treats both a nil interface and a typed nil pointer as absent.
func isNilArea(a Area) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *TabArea:
		return v == nil
	case *SplitArea:
		return v == nil
	}
	return false
}

func cloneSizes(sizes []float64) []float64 {
	if sizes == nil {
		return nil
	}
	out := make([]float64, len(sizes))
	copy(out, sizes)
	return out
}

func cloneWidgets(widgets []WidgetDescriptor) []WidgetDescriptor {
	if widgets == nil {
		return nil
	}
	out := make([]WidgetDescriptor, len(widgets))
	copy(out, widgets)
	return out
}

// Clone returns a deep copy of the layout. Shared subtrees in the source are
// duplicated in the copy.
func (l Layout) Clone() Layout {
	return Layout{Main: cloneArea(l.Main)}
}

func cloneArea(a Area) Area {
	if isNilArea(a) {
		return nil
	}
	switch v := a.(type) {
	case *TabArea:
		return &TabArea{Widgets: cloneWidgets(v.Widgets), CurrentIndex: v.CurrentIndex}
	case *SplitArea:
		out := &SplitArea{Orientation: v.Orientation, Sizes: cloneSizes(v.Sizes)}
		if v.Children != nil {
			out.Children = make([]Area, len(v.Children))
			for i, c := range v.Children {
				out.Children[i] = cloneArea(c)
			}
		}
		return out
	}
	return nil
}
