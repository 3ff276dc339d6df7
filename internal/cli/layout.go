package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/layout"
	"github.com/matzehuels/dockspace/pkg/render/treeviz"
)

// stdinArg names standard input in file arguments.
const stdinArg = "-"

// readLayoutArg reads the layout named by the first argument, or stdin when
// there is none. It returns the layout and a display name for messages.
func readLayoutArg(cmd *cobra.Command, args []string) (layout.Layout, string, error) {
	if len(args) == 0 || args[0] == stdinArg {
		l, err := layout.ReadJSON(cmd.InOrStdin())
		return l, "stdin", err
	}
	l, err := layout.ImportJSON(args[0])
	return l, args[0], err
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [layout.json]",
		Short: "Count panels, splits and widgets in a layout",
		Long: `Count panels, splits and widgets in a layout.

Splits are counted as divisions: a split area with k children adds k-1.
Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := readLayoutArg(cmd, args)
			if err != nil {
				return err
			}
			st := layout.Measure(l)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printKeyValue(w, "panels", strconv.Itoa(st.Panels))
			printKeyValue(w, "splits", strconv.Itoa(st.Splits))
			printKeyValue(w, "split areas", strconv.Itoa(st.SplitAreas))
			printKeyValue(w, "widgets", strconv.Itoa(st.Widgets))
			printKeyValue(w, "depth", strconv.Itoa(st.Depth))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [layout.json...]",
		Short: "Check layouts for structural problems",
		Long: `Check layouts for structural problems.

Reports every problem found: mismatched sizes and children, empty splits,
invalid sizes, unknown orientations, current indices out of range, empty or
duplicate widget ids. Exits non-zero if any layout is invalid. Reads stdin
when no file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinArg}
			}
			w := cmd.OutOrStdout()
			invalid := 0
			for _, arg := range args {
				l, name, err := readLayoutArg(cmd, []string{arg})
				if err == nil {
					err = layout.Validate(l)
				}
				if err != nil {
					invalid++
					printError(w, "%s", name)
					for _, p := range derrors.Split(err) {
						printDetail(w, "%s", derrors.UserMessage(p))
					}
					continue
				}
				printSuccess(w, "%s", name)
				printStats(w, layout.Measure(l))
			}
			if invalid > 0 {
				return derrors.New(derrors.ErrCodeInvalidLayout, "%d of %d layouts invalid", invalid, len(args))
			}
			return nil
		},
	}
}

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		output string
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [layout.json]",
		Short: "Rewrite a layout in canonical form",
		Long: `Rewrite a layout in canonical form: two-space indentation, fields in a
fixed order, missing kinds set to UNKNOWN and empty lists written as [].`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, name, err := readLayoutArg(cmd, args)
			if err != nil {
				return err
			}
			switch {
			case write:
				if name == "stdin" {
					return derrors.New(derrors.ErrCodeInvalidInput, "--write needs a file argument")
				}
				output = name
			case output == "":
				return layout.WriteJSON(l, cmd.OutOrStdout())
			}
			if err := layout.ExportJSON(l, output); err != nil {
				return err
			}
			c.Logger.Debug("formatted", "input", name, "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the input file in place")
	return cmd
}

// restoreCommand creates the restore command.
func (c *CLI) restoreCommand() *cobra.Command {
	var (
		kinds  []string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "restore [layout.json]",
		Short: "Rebuild a layout through a widget factory and check the round trip",
		Long: `Rebuild a layout through a widget factory and check the round trip.

Every widget is recreated from its descriptor by a reference handle factory,
the live tree is printed, and the tree is serialized again and compared with
the input. With --strict, only kinds named by --kind can be created and any
other kind fails the restore.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, name, err := readLayoutArg(cmd, args)
			if err != nil {
				return err
			}
			return c.runRestore(cmd.OutOrStdout(), name, l, kinds, strict)
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "widget kind the factory can create (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on kinds not named by --kind")
	return cmd
}

func (c *CLI) runRestore(w io.Writer, name string, l layout.Layout, kinds []string, strict bool) error {
	reg := layout.NewRegistry[*layout.Handle]()
	for _, k := range kinds {
		reg.Register(k, layout.HandleFactory)
	}
	if !strict {
		reg.Fallback(layout.HandleFactory)
	}

	prog := newProgress(c.Logger)
	live, err := layout.Deserialize(l, reg.Factory())
	if err != nil {
		return err
	}
	prog.debug("Restored " + name)

	printLiveTree(w, live)

	want, err := layout.Encode(l)
	if err != nil {
		return err
	}
	got, err := layout.ToJSON(live)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, []byte(got)) {
		return derrors.New(derrors.ErrCodeInternal, "%s: serialized tree differs from input", name)
	}

	fmt.Fprintln(w)
	printSuccess(w, "Restored %s", name)
	printStats(w, layout.Measure(l))
	return nil
}

// printLiveTree prints an indented outline of a restored tree.
func printLiveTree(w io.Writer, l *layout.LiveLayout[*layout.Handle]) {
	if l == nil || l.Main == nil {
		printDetail(w, "(empty layout)")
		return
	}
	var walk func(a layout.LiveArea[*layout.Handle], indent string)
	walk = func(a layout.LiveArea[*layout.Handle], indent string) {
		switch a := a.(type) {
		case *layout.LiveSplitArea[*layout.Handle]:
			sizes := make([]string, len(a.Sizes))
			for i, s := range a.Sizes {
				sizes[i] = strconv.FormatFloat(s, 'g', -1, 64)
			}
			fmt.Fprintf(w, "%s%s %s\n", indent, StyleHighlight.Render(string(a.Orientation)), StyleDim.Render("["+strings.Join(sizes, " ")+"]"))
			for _, child := range a.Children {
				walk(child, indent+"  ")
			}
		case *layout.LiveTabArea[*layout.Handle]:
			tabs := make([]string, len(a.Widgets))
			for i, h := range a.Widgets {
				tabs[i] = handleLabel(h)
				if i == a.CurrentIndex {
					tabs[i] = StyleValue.Bold(true).Render(tabs[i] + "*")
				}
			}
			fmt.Fprintf(w, "%s%s %s\n", indent, StyleDim.Render("tabs"), strings.Join(tabs, ", "))
		}
	}
	walk(l.Main, "")
}

func handleLabel(h *layout.Handle) string {
	if t := h.WidgetTitle(); t != nil && t.Label != "" {
		return t.Label
	}
	return h.WidgetID()
}

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot [layout.json]",
		Short: "Draw a layout tree as a Graphviz diagram",
		Long: `Draw a layout tree as a Graphviz diagram.

Prints DOT source by default. With --svg, renders the diagram with the
bundled Graphviz and writes SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, name, err := readLayoutArg(cmd, args)
			if err != nil {
				return err
			}
			return c.runDOT(cmd, name, l, output, svg, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT source")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include widget ids and kinds")
	return cmd
}

func (c *CLI) runDOT(cmd *cobra.Command, name string, l layout.Layout, output string, svg, detailed bool) error {
	data, err := renderDOT(cmd, l, svg, detailed)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	w := cmd.ErrOrStderr()
	printSuccess(w, "Rendered %s", name)
	printFile(w, output)
	return nil
}

// renderDOT returns DOT source, or rendered SVG when svg is set.
func renderDOT(cmd *cobra.Command, l layout.Layout, svg, detailed bool) ([]byte, error) {
	dot := treeviz.ToDOT(l, treeviz.Options{Detailed: detailed})
	if !svg {
		return []byte(dot), nil
	}

	ctx := cmd.Context()
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
	spinner.Start()
	out, err := treeviz.RenderSVG(ctx, dot)
	if err != nil {
		spinner.StopWithError("Render failed")
		if spinner.Cancelled() {
			return nil, ctx.Err()
		}
		return nil, err
	}
	spinner.Stop()
	return out, nil
}
