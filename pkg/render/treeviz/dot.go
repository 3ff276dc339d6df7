package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dockspace/pkg/layout"
)

// Options configures layout tree rendering.
type Options struct {
	// Detailed adds widget ids and kinds to tab labels. When false, each tab
	// shows only its label, or its id if it has none.
	Detailed bool
}

// ActiveMarker prefixes the current tab in a tab area label.
const ActiveMarker = "* "

// ToDOT converts a layout to Graphviz DOT format. Each area becomes one node
// named by its path ("main", "main.children[1]", ...) and each split has an
// edge to every child in order.
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if l.IsEmpty() {
		buf.WriteString("  \"main\" [label=\"empty layout\", style=\"rounded,dashed\"];\n")
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges []string
	var visit func(a layout.Area, path string)
	visit = func(a layout.Area, path string) {
		switch a := a.(type) {
		case *layout.TabArea:
			fmt.Fprintf(&buf, "  %q [%s];\n", path, strings.Join(tabAttrs(a, opts.Detailed), ", "))
		case *layout.SplitArea:
			fmt.Fprintf(&buf, "  %q [%s];\n", path, strings.Join(splitAttrs(a), ", "))
			for i, child := range a.Children {
				childPath := fmt.Sprintf("%s.children[%d]", path, i)
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", path, childPath))
				if child == nil {
					fmt.Fprintf(&buf, "  %q [label=\"missing\", style=\"rounded,dashed\", color=red];\n", childPath)
					continue
				}
				visit(child, childPath)
			}
		}
	}
	visit(l.Main, "main")

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func tabAttrs(t *layout.TabArea, detailed bool) []string {
	lines := make([]string, 0, len(t.Widgets))
	for i, w := range t.Widgets {
		line := w.Label
		if line == "" {
			line = w.ID
		}
		if detailed {
			line = fmt.Sprintf("%s [%s %s]", line, w.Kind, w.ID)
		}
		if i == t.CurrentIndex {
			line = ActiveMarker + line
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{"label=\"no tabs\"", "style=\"rounded,dashed\""}
	}
	return []string{fmt.Sprintf("label=%q", strings.Join(lines, "\n"))}
}

func splitAttrs(s *layout.SplitArea) []string {
	sizes := make([]string, len(s.Sizes))
	for i, v := range s.Sizes {
		sizes[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	label := fmt.Sprintf("%s split\n%s", s.Orientation, strings.Join(sizes, " : "))
	return []string{fmt.Sprintf("label=%q", label), "fillcolor=\"#dde6f0\"", "shape=box3d"}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the image scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
