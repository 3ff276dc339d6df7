// Package pkg provides the core libraries for dockspace.
//
// # Overview
//
// Dockspace converts docking layouts between two forms: a live tree of split
// areas and tab areas holding real widgets, and a JSON document that can be
// stored and restored. The pkg directory is organized as follows:
//
//  1. [layout] - layout types, the transcoder and the JSON codec
//  2. [store] - named layout snapshots in memory, files, Redis or MongoDB
//  3. [render/treeviz] - Graphviz diagrams of layout trees
//  4. [errors] - coded errors shared by every package
//  5. [observability] - hooks for store, cache and HTTP events
//  6. [buildinfo] - version information injected at build time
//
// # Data Flow
//
//	live tree ([layout.LiveLayout])
//	         ↓ Serialize
//	[layout.Layout]  ←→  JSON (Encode / Decode)
//	         ↓ Deserialize + widget factory
//	live tree
//
// # Quick Start
//
//	l := layout.Serialize(live)
//	data, err := layout.Encode(l)
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := layout.Decode(data)
//	if err != nil {
//	    return err
//	}
//	restored, err := layout.Deserialize(decoded, myFactory)
//
// Widgets describe themselves through optional methods (WidgetID,
// WidgetKind, WidgetTitle, DisplayNode); see [layout.Extract].
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/layout
// [store]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/store
// [render/treeviz]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/render/treeviz
// [errors]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dockspace/pkg/buildinfo
package pkg
