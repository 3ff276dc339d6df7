package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/layout"
)

const maxDemoPanels = 64

var demoKinds = []struct {
	kind, label, icon string
	closable          bool
}{
	{"explorer", "Explorer", "folder", false},
	{"editor", "main.go", "file-code", true},
	{"terminal", "Terminal", "terminal", true},
	{"preview", "Preview", "eye", true},
}

// demoCommand creates the demo command.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		panels int
		output string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a sample layout",
		Long: `Generate a sample layout with the given number of panels.

Panels are split in halves, alternating between horizontal and vertical
splits. Widget ids are random UUIDs, so each run produces a new layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if panels < 1 || panels > maxDemoPanels {
				return derrors.New(derrors.ErrCodeInvalidInput, "--panels must be between 1 and %d, got %d", maxDemoPanels, panels)
			}
			live := demoLayout(panels)
			if output == "" {
				s, err := layout.ToJSON(live)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
				return err
			}
			if err := layout.ExportJSON(layout.Serialize(live), output); err != nil {
				return err
			}
			w := cmd.ErrOrStderr()
			printSuccess(w, "Generated %s", plural(panels, "panel"))
			printFile(w, output)
			printNextStep(w, "Inspect", appName+" view "+output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&panels, "panels", "n", 4, "number of panels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// demoLayout builds a live tree of reference handles with n panels.
func demoLayout(n int) *layout.LiveLayout[*layout.Handle] {
	next := 0
	var build func(n, depth int) layout.LiveArea[*layout.Handle]
	build = func(n, depth int) layout.LiveArea[*layout.Handle] {
		if n == 1 {
			tabs := &layout.LiveTabArea[*layout.Handle]{}
			for range next%3 + 1 {
				k := demoKinds[next%len(demoKinds)]
				tabs.Widgets = append(tabs.Widgets, layout.NewHandle(layout.WidgetDescriptor{
					ID:       uuid.NewString(),
					Kind:     k.kind,
					Label:    k.label,
					Icon:     k.icon,
					Closable: k.closable,
				}))
				next++
			}
			tabs.CurrentIndex = len(tabs.Widgets) - 1
			return tabs
		}
		orientation := layout.Horizontal
		if depth%2 == 1 {
			orientation = layout.Vertical
		}
		left := n / 2
		return &layout.LiveSplitArea[*layout.Handle]{
			Orientation: orientation,
			Sizes:       []float64{float64(left), float64(n - left)},
			Children: []layout.LiveArea[*layout.Handle]{
				build(left, depth+1),
				build(n-left, depth+1),
			},
		}
	}
	return &layout.LiveLayout[*layout.Handle]{Main: build(n, 0)}
}
