// Package layout converts docking layouts between the live tree a docking
// toolkit works with and a JSON-safe tree suitable for persistence.
//
// # Overview
//
// A docking layout is a tree of areas. A [TabArea] is a leaf holding an
// ordered group of tabs and the index of the active one; a [SplitArea]
// divides its space between child areas along one [Orientation], giving each
// child a relative size. The live tree ([LiveLayout]) holds the toolkit's
// widget handles at the leaves; the serialized tree ([Layout]) holds
// [WidgetDescriptor] values instead.
//
// # JSON Format
//
//	{
//	  "main": {
//	    "type": "split-area",
//	    "orientation": "horizontal",
//	    "sizes": [0.3, 0.7],
//	    "children": [
//	      {
//	        "type": "tab-area",
//	        "widgets": [
//	          {"id": "files", "kind": "explorer", "label": "Files", "closable": false}
//	        ],
//	        "currentIndex": 0
//	      },
//	      {
//	        "type": "tab-area",
//	        "widgets": [
//	          {"id": "main.go", "kind": "editor", "label": "main.go", "icon": "icon-go", "closable": true}
//	        ],
//	        "currentIndex": 0
//	      }
//	    ]
//	  }
//	}
//
// An empty layout is {"main": null}. The format carries no version field.
//
// # Saving
//
// [Serialize] walks a live layout and runs every widget through [Extract].
// Widgets expose their attributes through small optional interfaces
// ([Identifier], [NodeHolder], [Kinded], [Titled]); whatever a widget does
// not expose falls back to a default. [ToJSON] serializes and encodes in one
// step.
//
// # Restoring
//
// [FromJSON] (or [Decode], [ReadJSON], [ImportJSON]) parses the text and
// [Deserialize] rebuilds the live tree, calling the caller's [Factory] once
// per widget in depth-first order:
//
//	l, err := layout.FromJSON(saved)
//	if err != nil {
//	    return err
//	}
//	live, err := layout.Deserialize(l, registry.Factory())
//
// A [Registry] composes per-kind factories into one.
//
// # Errors
//
// Parse failures carry [errors.ErrCodeParse], shape mismatches
// [errors.ErrCodeMalformedLayout] and factory failures
// [errors.ErrCodeFactory]. [Validate] reports every structural problem of a
// layout with [errors.ErrCodeInvalidLayout].
//
// # Concurrency
//
// All functions are pure transforms over their arguments and are safe to
// call concurrently on distinct inputs. Results never share slices with
// their input.
//
// [errors.ErrCodeParse]: github.com/matzehuels/dockspace/pkg/errors.ErrCodeParse
// [errors.ErrCodeMalformedLayout]: github.com/matzehuels/dockspace/pkg/errors.ErrCodeMalformedLayout
// [errors.ErrCodeFactory]: github.com/matzehuels/dockspace/pkg/errors.ErrCodeFactory
// [errors.ErrCodeInvalidLayout]: github.com/matzehuels/dockspace/pkg/errors.ErrCodeInvalidLayout
package layout
