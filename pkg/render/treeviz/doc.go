// Package treeviz draws layout trees as Graphviz diagrams.
//
// Split areas become boxes labeled with their orientation and sizes, tab
// areas list their tabs with the active one prefixed by [ActiveMarker].
// Edges run from each split to its children in order.
//
//	dot := treeviz.ToDOT(l, treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(ctx, dot)
//
// ToDOT is deterministic and needs no Graphviz installation; RenderSVG uses
// the WebAssembly build bundled with go-graphviz.
package treeviz
