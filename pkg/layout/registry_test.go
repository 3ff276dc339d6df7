package layout

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
)

type editorWidget struct{ path string }
type terminalWidget struct{ id string }

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry[any]()
	r.Register("editor", func(d WidgetDescriptor) (any, error) {
		return &editorWidget{path: d.Label}, nil
	})
	r.Register("terminal", func(d WidgetDescriptor) (any, error) {
		return &terminalWidget{id: d.ID}, nil
	})

	l := Layout{Main: &TabArea{Widgets: []WidgetDescriptor{
		{ID: "e1", Kind: "editor", Label: "main.go"},
		{ID: "t1", Kind: "terminal"},
	}}}

	live, err := Deserialize(l, r.Factory())
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}

	widgets := live.Main.(*LiveTabArea[any]).Widgets
	if e, ok := widgets[0].(*editorWidget); !ok || e.path != "main.go" {
		t.Errorf("widgets[0] = %#v, want editor for main.go", widgets[0])
	}
	if term, ok := widgets[1].(*terminalWidget); !ok || term.id != "t1" {
		t.Errorf("widgets[1] = %#v, want terminal t1", widgets[1])
	}

	if got, want := r.Kinds(), []string{"editor", "terminal"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry[*Handle]()
	r.Register("editor", HandleFactory)

	l := Layout{Main: &TabArea{Widgets: []WidgetDescriptor{
		{ID: "e1", Kind: "editor"},
		{ID: "x1", Kind: "mystery"},
	}}}

	_, err := Deserialize(l, r.Factory())
	if !derrors.Is(err, derrors.ErrCodeFactory) {
		t.Fatalf("Deserialize() error = %v, want %v", err, derrors.ErrCodeFactory)
	}
	var inner *derrors.Error
	if !errors.As(errors.Unwrap(err), &inner) || inner.Code != derrors.ErrCodeUnknownKind {
		t.Errorf("cause = %v, want %v", errors.Unwrap(err), derrors.ErrCodeUnknownKind)
	}

	r.Fallback(HandleFactory)
	if _, err := Deserialize(l, r.Factory()); err != nil {
		t.Errorf("Deserialize() with fallback error: %v", err)
	}
}

func TestRegistryRegisterNilRemoves(t *testing.T) {
	r := NewRegistry[*Handle]()
	r.Register("editor", HandleFactory)
	r.Register("editor", nil)

	if _, ok := r.Lookup("editor"); ok {
		t.Error("Lookup() found a removed kind")
	}
	if len(r.Kinds()) != 0 {
		t.Errorf("Kinds() = %v, want none", r.Kinds())
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry[*Handle]()
	r.Fallback(HandleFactory)
	factory := r.Factory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("editor", HandleFactory)
		}()
		go func() {
			defer wg.Done()
			if _, err := factory(WidgetDescriptor{ID: "x", Kind: "editor"}); err != nil {
				t.Errorf("factory() error: %v", err)
			}
		}()
	}
	wg.Wait()
}
