package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(Layout{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := "{\n  \"main\": null\n}"
	if string(data) != want {
		t.Errorf("Encode() = %q, want %q", data, want)
	}
}

func TestEncodeShape(t *testing.T) {
	l := Layout{Main: &SplitArea{
		Orientation: Vertical,
		Sizes:       []float64{1, 2},
		Children: []Area{
			&TabArea{Widgets: []WidgetDescriptor{{ID: "a", Kind: "k", Label: "A", Closable: true}}},
			&TabArea{},
		},
	}}

	data, err := Encode(l)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	want := `{
  "main": {
    "type": "split-area",
    "orientation": "vertical",
    "sizes": [
      1,
      2
    ],
    "children": [
      {
        "type": "tab-area",
        "widgets": [
          {
            "id": "a",
            "kind": "k",
            "label": "A",
            "closable": true
          }
        ],
        "currentIndex": 0
      },
      {
        "type": "tab-area",
        "widgets": [],
        "currentIndex": 0
      }
    ]
  }
}`
	if string(data) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", data, want)
	}
}

func TestFromJSON(t *testing.T) {
	input := `{"main":{"type":"split-area","orientation":"horizontal","sizes":[0.5,0.5],"children":[
		{"type":"tab-area","widgets":[{"id":"a","kind":"editor","icon":"i"}],"currentIndex":0},
		{"type":"tab-area","widgets":[{"id":"b"}],"currentIndex":0}
	]}}`

	got, err := FromJSON(input)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}

	want := Layout{Main: &SplitArea{
		Orientation: Horizontal,
		Sizes:       []float64{0.5, 0.5},
		Children: []Area{
			&TabArea{Widgets: []WidgetDescriptor{{ID: "a", Kind: "editor", Icon: "i"}}},
			&TabArea{Widgets: []WidgetDescriptor{{ID: "b", Kind: UnknownKind}}},
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromJSON() = %#v, want %#v", got, want)
	}
}

func TestFromJSONEmpty(t *testing.T) {
	for _, input := range []string{`{"main":null}`, `{}`, `null`} {
		l, err := FromJSON(input)
		if err != nil {
			t.Errorf("FromJSON(%s) error: %v", input, err)
			continue
		}
		if !l.IsEmpty() {
			t.Errorf("FromJSON(%s) = %#v, want empty", input, l.Main)
		}
	}
}

func TestFromJSONParseError(t *testing.T) {
	for _, input := range []string{"{not json", "", `{"main":`, `{"main":{}} trailing`} {
		_, err := FromJSON(input)
		if !derrors.Is(err, derrors.ErrCodeParse) {
			t.Errorf("FromJSON(%q) error = %v, want %v", input, err, derrors.ErrCodeParse)
		}
	}
}

func TestFromJSONMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown type", `{"main":{"type":"grid-area"}}`},
		{"missing type", `{"main":{"widgets":[]}}`},
		{"nested unknown type", `{"main":{"type":"split-area","sizes":[1],"children":[{"type":"x"}]}}`},
		{"wrong sizes type", `{"main":{"type":"split-area","sizes":"wide"}}`},
		{"area is not an object", `{"main":"tab-area"}`},
		{"top level array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON(tt.input)
			if !derrors.Is(err, derrors.ErrCodeMalformedLayout) {
				t.Errorf("FromJSON() error = %v, want %v", err, derrors.ErrCodeMalformedLayout)
			}
		})
	}
}

func TestFromJSONMissingFieldsAccepted(t *testing.T) {
	l, err := FromJSON(`{"main":{"type":"tab-area"}}`)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	tab, ok := l.Main.(*TabArea)
	if !ok {
		t.Fatalf("Main = %T, want *TabArea", l.Main)
	}
	if len(tab.Widgets) != 0 {
		t.Errorf("widgets = %v, want none", tab.Widgets)
	}

	l, err = FromJSON(`{"main":{"type":"split-area","orientation":"horizontal","sizes":[1,1]}}`)
	if err != nil {
		t.Fatalf("FromJSON() split without children error: %v", err)
	}
	if _, err := Deserialize[*Handle](l, HandleFactory); !derrors.Is(err, derrors.ErrCodeMalformedLayout) {
		t.Errorf("Deserialize() error = %v, want %v", err, derrors.ErrCodeMalformedLayout)
	}

	for _, in := range []string{
		`{"main":{"type":"split-area","orientation":"horizontal"}}`,
		`{"main":{"type":"split-area"}}`,
	} {
		l, err := FromJSON(in)
		if err != nil {
			t.Fatalf("FromJSON(%s) error: %v", in, err)
		}
		live, err := Deserialize[*Handle](l, HandleFactory)
		if !derrors.Is(err, derrors.ErrCodeMalformedLayout) {
			t.Errorf("Deserialize(%s) error = %v, want %v", in, err, derrors.ErrCodeMalformedLayout)
		}
		if live != nil {
			t.Errorf("Deserialize(%s) returned a layout", in)
		}
	}
}

func TestReadWriteJSON(t *testing.T) {
	l := Serialize(sampleLive())

	var buf bytes.Buffer
	if err := WriteJSON(l, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Error("WriteJSON() output should end with a newline")
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("ReadJSON(WriteJSON(l)) != l")
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := Serialize(sampleLive())

	if err := ExportJSON(l, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("ImportJSON(ExportJSON(l)) != l")
	}

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !derrors.Is(err, derrors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want %v", err, derrors.ErrCodeFileNotFound)
	}
}

func TestImportJSONTestdata(t *testing.T) {
	entries, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		t.Run(e.Name(), func(t *testing.T) {
			l, err := ImportJSON(filepath.Join("testdata", e.Name()))
			if err != nil {
				t.Fatalf("ImportJSON() error: %v", err)
			}
			if err := Validate(l); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if _, err := Deserialize[*Handle](l, HandleFactory); err != nil {
				t.Errorf("Deserialize() error: %v", err)
			}
		})
	}
}
