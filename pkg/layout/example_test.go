package layout_test

import (
	"fmt"

	"github.com/matzehuels/dockspace/pkg/layout"
)

func ExampleToJSON() {
	live := &layout.LiveLayout[*layout.Handle]{
		Main: &layout.LiveTabArea[*layout.Handle]{
			Widgets: []*layout.Handle{
				{ID: "readme", Kind: "markdown", Title: &layout.Title{Label: "README.md", ClassName: "lm-mod-closable"}},
			},
		},
	}

	text, err := layout.ToJSON(live)
	if err != nil {
		panic(err)
	}
	fmt.Println(text)
	// Output:
	// {
	//   "main": {
	//     "type": "tab-area",
	//     "widgets": [
	//       {
	//         "id": "readme",
	//         "kind": "markdown",
	//         "label": "README.md",
	//         "closable": true
	//       }
	//     ],
	//     "currentIndex": 0
	//   }
	// }
}

func ExampleDeserialize() {
	l, err := layout.FromJSON(`{"main": {
		"type": "split-area", "orientation": "horizontal", "sizes": [1, 2, 1],
		"children": [
			{"type": "tab-area", "widgets": [{"id": "files", "kind": "explorer"}], "currentIndex": 0},
			{"type": "split-area", "orientation": "vertical", "sizes": [3, 1], "children": [
				{"type": "tab-area", "widgets": [{"id": "main.go", "kind": "editor"}], "currentIndex": 0},
				{"type": "tab-area", "widgets": [{"id": "shell", "kind": "terminal"}], "currentIndex": 0}
			]},
			{"type": "tab-area", "widgets": [{"id": "outline", "kind": "outline"}], "currentIndex": 0}
		]
	}}`)
	if err != nil {
		panic(err)
	}

	live, err := layout.Deserialize(l, func(d layout.WidgetDescriptor) (string, error) {
		return d.Kind + ":" + d.ID, nil
	})
	if err != nil {
		panic(err)
	}

	root := live.Main.(*layout.LiveSplitArea[string])
	fmt.Println(root.Orientation, len(root.Children))
	fmt.Println("panels:", layout.CountPanels(l))
	fmt.Println("splits:", layout.CountSplits(l))
	// Output:
	// horizontal 3
	// panels: 4
	// splits: 3
}

func ExampleValidate() {
	l, _ := layout.FromJSON(`{"main": {"type": "tab-area", "widgets": [{"id": "a"}, {"id": "a"}], "currentIndex": 2}}`)
	fmt.Println(layout.Validate(l))
	// Output:
	// INVALID_LAYOUT: main: current index 2 out of range for 2 widgets
	// INVALID_LAYOUT: main.widgets[1]: duplicate widget id "a" (first seen at main.widgets[0])
}
