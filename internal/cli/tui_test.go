package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dockspace/pkg/layout"
)

func press(m TreeModel, keys ...tea.KeyMsg) TreeModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(TreeModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestTreeModelNavigation(t *testing.T) {
	l, err := layout.ImportJSON(workbench)
	if err != nil {
		t.Fatal(err)
	}
	m := NewTreeModel("workbench", l)
	if m.Rows() != 6 {
		t.Fatalf("Rows = %d, want 6", m.Rows())
	}

	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor)
	}
	m = press(m, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown)
	if m.Cursor != 5 {
		t.Errorf("cursor = %d, want 5 (last row)", m.Cursor)
	}

	view := m.View()
	for _, want := range []string{"workbench", "main.children[2]", "Outline", "[6/6]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTreeModelFold(t *testing.T) {
	l, err := layout.ImportJSON(workbench)
	if err != nil {
		t.Fatal(err)
	}
	m := NewTreeModel("workbench", l)

	// Row 2 is the nested vertical split.
	m = press(m, keyDown, keyDown, keyEnter)
	if m.Rows() != 4 {
		t.Fatalf("Rows after fold = %d, want 4", m.Rows())
	}
	if strings.Contains(m.View(), "layout.go") {
		t.Error("folded split should hide its tabs")
	}

	m = press(m, keyEnter)
	if m.Rows() != 6 {
		t.Errorf("Rows after unfold = %d, want 6", m.Rows())
	}

	// Enter on a tab row does nothing.
	m = press(m, keyDown, keyEnter)
	if m.Rows() != 6 {
		t.Errorf("Rows after enter on tabs = %d, want 6", m.Rows())
	}
}

func TestTreeModelQuit(t *testing.T) {
	m := NewTreeModel("empty", layout.Layout{})
	if m.Rows() != 0 {
		t.Errorf("Rows = %d, want 0", m.Rows())
	}
	if !strings.Contains(m.View(), "empty layout") {
		t.Errorf("view should mention the empty layout:\n%s", m.View())
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestTreeModelScroll(t *testing.T) {
	l, err := layout.ImportJSON(workbench)
	if err != nil {
		t.Fatal(err)
	}
	m := NewTreeModel("workbench", l)
	m.Height = 2
	m = press(m, keyDown, keyDown, keyDown)
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m = press(m, keyUp, keyUp, keyUp)
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestTreeModelOwnsLayout(t *testing.T) {
	l, err := layout.ImportJSON(workbench)
	if err != nil {
		t.Fatal(err)
	}
	m := NewTreeModel("workbench", l)
	l.Main.(*layout.SplitArea).Children[0].(*layout.TabArea).Widgets[0].Label = "changed"

	if strings.Contains(m.View(), "changed") {
		t.Error("model should not see changes to the caller's layout")
	}
}
