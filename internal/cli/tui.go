package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockspace/pkg/layout"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	treeFooterStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "view [layout.json]",
		Short: "Browse a layout tree interactively",
		Long: `Browse a layout tree interactively.

Keys: up/down (k/j) move, enter or space folds a split, q quits.
Use --name to browse a stored layout instead of a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				l     layout.Layout
				title string
				err   error
			)
			if name != "" {
				l, err = c.loadStored(cmd, name)
				title = name
			} else {
				l, title, err = readLayoutArg(cmd, args)
			}
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewTreeModel(title, l),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "browse a stored layout")
	_ = cmd.RegisterFlagCompletionFunc("name", c.completeLayoutNames)
	return cmd
}

// loadStored reads and decodes a stored snapshot.
func (c *CLI) loadStored(cmd *cobra.Command, name string) (layout.Layout, error) {
	s, err := c.openStore(cmd.Context())
	if err != nil {
		return layout.Layout{}, err
	}
	defer s.Close()

	snap, err := s.Get(cmd.Context(), name)
	if err != nil {
		return layout.Layout{}, err
	}
	return snap.Decode()
}

// treeRow is one visible line of the tree.
type treeRow struct {
	path  string
	depth int
	area  layout.Area
}

// TreeModel is the bubbletea model for browsing a layout tree.
type TreeModel struct {
	Title     string
	Layout    layout.Layout
	Cursor    int
	Height    int
	Offset    int
	Collapsed map[string]bool

	rows []treeRow
}

// NewTreeModel creates a tree model with every split expanded. The model
// keeps its own copy of l.
func NewTreeModel(title string, l layout.Layout) TreeModel {
	m := TreeModel{
		Title:     title,
		Layout:    l.Clone(),
		Height:    20,
		Collapsed: map[string]bool{},
	}
	m.rows = m.flatten()
	return m
}

// flatten lists the visible areas in pre-order, skipping children of
// collapsed splits.
func (m TreeModel) flatten() []treeRow {
	var rows []treeRow
	var walk func(a layout.Area, path string, depth int)
	walk = func(a layout.Area, path string, depth int) {
		rows = append(rows, treeRow{path: path, depth: depth, area: a})
		s, ok := a.(*layout.SplitArea)
		if !ok || s == nil || m.Collapsed[path] {
			return
		}
		for i, child := range s.Children {
			walk(child, path+".children["+strconv.Itoa(i)+"]", depth+1)
		}
	}
	if !m.Layout.IsEmpty() {
		walk(m.Layout.Main, "main", 0)
	}
	return rows
}

// Rows returns the number of visible rows.
func (m TreeModel) Rows() int { return len(m.rows) }

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter", " ":
			if m.Cursor < len(m.rows) {
				row := m.rows[m.Cursor]
				if _, ok := row.area.(*layout.SplitArea); ok {
					m.Collapsed = copyCollapsed(m.Collapsed)
					m.Collapsed[row.path] = !m.Collapsed[row.path]
					m.rows = m.flatten()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *TreeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func copyCollapsed(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ fold  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(treeDimStyle.Render("  (empty layout)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + strings.Repeat("  ", row.depth) + m.rowLabel(row)
		if i == m.Cursor {
			b.WriteString(treeSelectedStyle.Render(line))
		} else {
			b.WriteString(treeNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(treeFooterStyle.Render(m.detail(m.rows[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	return b.String()
}

func (m TreeModel) rowLabel(row treeRow) string {
	switch a := row.area.(type) {
	case *layout.SplitArea:
		fold := "▾"
		if m.Collapsed[row.path] {
			fold = "▸"
		}
		return fmt.Sprintf("%s %s split (%d)", fold, a.Orientation, len(a.Children))
	case *layout.TabArea:
		if len(a.Widgets) == 0 {
			return "tabs: none"
		}
		labels := make([]string, len(a.Widgets))
		for i, d := range a.Widgets {
			labels[i] = descriptorLabel(d)
			if i == a.CurrentIndex {
				labels[i] = "[" + labels[i] + "]"
			}
		}
		return "tabs: " + strings.Join(labels, " ")
	default:
		return "missing"
	}
}

// detail describes the selected area for the footer.
func (m TreeModel) detail(row treeRow) string {
	lines := []string{StyleDim.Render(row.path)}
	switch a := row.area.(type) {
	case *layout.SplitArea:
		sizes := make([]string, len(a.Sizes))
		for i, s := range a.Sizes {
			sizes[i] = strconv.FormatFloat(s, 'g', -1, 64)
		}
		lines = append(lines, "sizes "+strings.Join(sizes, " : "))
	case *layout.TabArea:
		if a.CurrentIndex >= 0 && a.CurrentIndex < len(a.Widgets) {
			d := a.Widgets[a.CurrentIndex]
			lines = append(lines,
				"active "+descriptorLabel(d),
				"id     "+d.ID,
				"kind   "+d.Kind,
			)
			if d.Icon != "" {
				lines = append(lines, "icon   "+d.Icon)
			}
			if d.Closable {
				lines = append(lines, "closable")
			}
		} else {
			lines = append(lines, "no active tab")
		}
	}
	return strings.Join(lines, "\n")
}

func descriptorLabel(d layout.WidgetDescriptor) string {
	if d.Label != "" {
		return d.Label
	}
	return d.ID
}
