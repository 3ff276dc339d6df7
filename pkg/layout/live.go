package layout

// LiveLayout is the layout configuration a docking toolkit works with: the
// same tree shape as [Layout], but with live widget handles of type W at the
// tab leaves. A nil Main means no root area is attached.
type LiveLayout[W any] struct {
	Main LiveArea[W]
}

// LiveArea is a node of a live layout tree. It is implemented only by
// [*LiveTabArea] and [*LiveSplitArea].
type LiveArea[W any] interface {
	Type() AreaType
	liveArea(W)
}

// LiveTabArea holds live widgets in tab order.
type LiveTabArea[W any] struct {
	Widgets      []W
	CurrentIndex int
}

// LiveSplitArea divides its space between live child areas.
type LiveSplitArea[W any] struct {
	Orientation Orientation
	Sizes       []float64
	Children    []LiveArea[W]
}

func (*LiveTabArea[W]) Type() AreaType   { return AreaTypeTab }
func (*LiveSplitArea[W]) Type() AreaType { return AreaTypeSplit }

func (*LiveTabArea[W]) liveArea(W)   {}
func (*LiveSplitArea[W]) liveArea(W) {}

func isNilLiveArea[W any](a LiveArea[W]) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *LiveTabArea[W]:
		return v == nil
	case *LiveSplitArea[W]:
		return v == nil
	}
	return false
}

// Title is the display metadata a toolkit attaches to a widget.
type Title struct {
	Label     string
	Icon      string
	ClassName string
}

// Node is the display node a widget is mounted on.
type Node struct {
	ID string
}

// The optional capabilities [Extract] looks for on a widget handle. A handle
// may implement any subset of them.
type (
	// Identifier exposes an explicit widget identifier.
	Identifier interface{ WidgetID() string }

	// NodeHolder exposes the display node the widget is mounted on. Its ID
	// is used when the widget has no identifier of its own.
	NodeHolder interface{ DisplayNode() *Node }

	// Kinded exposes the tag of the factory that produced the widget.
	Kinded interface{ WidgetKind() string }

	// Titled exposes the widget's title metadata.
	Titled interface{ WidgetTitle() *Title }
)

// Handle is a plain widget handle implementing every optional capability.
// It is what [HandleFactory] materializes and is convenient for tests and
// tools that have no real toolkit behind them.
type Handle struct {
	ID    string
	Kind  string
	Title *Title
	Node  *Node
}

func (h *Handle) WidgetID() string {
	if h == nil {
		return ""
	}
	return h.ID
}

func (h *Handle) WidgetKind() string {
	if h == nil {
		return ""
	}
	return h.Kind
}

func (h *Handle) WidgetTitle() *Title {
	if h == nil {
		return nil
	}
	return h.Title
}

func (h *Handle) DisplayNode() *Node {
	if h == nil {
		return nil
	}
	return h.Node
}

// NewHandle builds a handle whose extracted descriptor equals d.
func NewHandle(d WidgetDescriptor) *Handle {
	h := &Handle{ID: d.ID, Kind: d.Kind}
	if d.Label != "" || d.Icon != "" || d.Closable {
		h.Title = &Title{Label: d.Label, Icon: d.Icon}
		if d.Closable {
			h.Title.ClassName = "lm-" + ClosableMarker
		}
	}
	return h
}

// HandleFactory materializes descriptors as [*Handle] values. It never fails.
func HandleFactory(d WidgetDescriptor) (*Handle, error) {
	return NewHandle(d), nil
}
