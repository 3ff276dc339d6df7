package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

// Wire types. Areas carry their discriminator in "type"; the tab and split
// fields are only written for the matching variant.
type (
	layoutJSON struct {
		Main json.RawMessage `json:"main"`
	}

	tabJSON struct {
		Type         AreaType           `json:"type"`
		Widgets      []WidgetDescriptor `json:"widgets"`
		CurrentIndex int                `json:"currentIndex"`
	}

	splitJSON struct {
		Type        AreaType          `json:"type"`
		Orientation Orientation       `json:"orientation"`
		Sizes       []float64         `json:"sizes"`
		Children    []json.RawMessage `json:"children"`
	}

	splitOutJSON struct {
		Type        AreaType    `json:"type"`
		Orientation Orientation `json:"orientation"`
		Sizes       []float64   `json:"sizes"`
		Children    []Area      `json:"children"`
	}
)

var nullJSON = []byte("null")

// MarshalJSON encodes the layout as {"main": ...}.
func (l Layout) MarshalJSON() ([]byte, error) {
	if l.IsEmpty() {
		return []byte(`{"main":null}`), nil
	}
	main, err := json.Marshal(l.Main)
	if err != nil {
		return nil, err
	}
	return json.Marshal(layoutJSON{Main: main})
}

// UnmarshalJSON decodes {"main": ...}. A missing or null main is an empty
// layout.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var raw layoutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	main, err := decodeArea(raw.Main, "main")
	if err != nil {
		return err
	}
	l.Main = main
	return nil
}

// MarshalJSON encodes a tab area with its "type" tag.
func (a *TabArea) MarshalJSON() ([]byte, error) {
	widgets := a.Widgets
	if widgets == nil {
		widgets = []WidgetDescriptor{}
	}
	return json.Marshal(tabJSON{Type: AreaTypeTab, Widgets: widgets, CurrentIndex: a.CurrentIndex})
}

// MarshalJSON encodes a split area with its "type" tag.
func (a *SplitArea) MarshalJSON() ([]byte, error) {
	out := splitOutJSON{Type: AreaTypeSplit, Orientation: a.Orientation, Sizes: a.Sizes, Children: a.Children}
	if out.Sizes == nil {
		out.Sizes = []float64{}
	}
	if out.Children == nil {
		out.Children = []Area{}
	}
	return json.Marshal(out)
}

func decodeArea(raw json.RawMessage, path string) (Area, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullJSON) {
		return nil, nil
	}

	var head struct {
		Type AreaType `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch head.Type {
	case AreaTypeTab:
		var t tabJSON
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for i := range t.Widgets {
			if t.Widgets[i].Kind == "" {
				t.Widgets[i].Kind = UnknownKind
			}
		}
		return &TabArea{Widgets: t.Widgets, CurrentIndex: t.CurrentIndex}, nil
	case AreaTypeSplit:
		var s splitJSON
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out := &SplitArea{Orientation: s.Orientation, Sizes: s.Sizes}
		if s.Children != nil {
			out.Children = make([]Area, len(s.Children))
			for i, c := range s.Children {
				child, err := decodeArea(c, fmt.Sprintf("%s.children[%d]", path, i))
				if err != nil {
					return nil, err
				}
				out.Children[i] = child
			}
		}
		return out, nil
	case "":
		return nil, fmt.Errorf("%s: missing area type", path)
	default:
		return nil, fmt.Errorf("%s: unknown area type %q", path, head.Type)
	}
}

// Encode renders a layout as indented JSON (two spaces) without a trailing
// newline.
func Encode(l Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

// Decode parses layout JSON. Text that is not valid JSON fails with
// [derrors.ErrCodeParse]; valid JSON that does not fit the layout shape fails
// with [derrors.ErrCodeMalformedLayout]. Missing fields are not an error:
// a tab area without widgets decodes as empty, and a split area without
// children decodes and is rejected later by [Deserialize] or [Validate].
func Decode(data []byte) (Layout, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return Layout{}, derrors.Wrap(derrors.ErrCodeParse, err, "layout is not valid JSON")
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, derrors.Wrap(derrors.ErrCodeMalformedLayout, err, "decode layout")
	}
	return l, nil
}

// ToJSON serializes a live layout and encodes it as indented JSON.
func ToJSON[W any](l *LiveLayout[W]) (string, error) {
	data, err := Encode(Serialize(l))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a JSON string into a serialized layout; see [Decode].
func FromJSON(s string) (Layout, error) {
	return Decode([]byte(s))
}

// WriteJSON encodes l as indented JSON followed by a newline and writes it
// to w.
func WriteJSON(l Layout, w io.Writer) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ReadJSON reads all of r and decodes it with [Decode]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read: %w", err)
	}
	return Decode(data)
}

// ExportJSON writes a layout to a JSON file at path.
func ExportJSON(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads the layout stored in the JSON file at path.
func ImportJSON(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, derrors.Wrap(derrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
