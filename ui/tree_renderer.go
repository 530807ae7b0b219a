// ui/tree_renderer.go
package ui

import (
	"image/color"

	"craftcalc/calculator"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

//
// This file knows how to take a []LineInfo (from tree_formatter.go) and turn it into
// a Fyne container full of colored canvas.Text segments. Guides are colored by
// depth, node text by how the node was satisfied.
//

// palette is the set of distinct colors to cycle through for different depths.
var palette = []color.Color{
	color.RGBA{R: 255, G: 102, B: 102, A: 255}, // Light Red
	color.RGBA{R: 102, G: 255, B: 102, A: 255}, // Light Green
	color.RGBA{R: 102, G: 178, B: 255, A: 255}, // Light Blue
	color.RGBA{R: 255, G: 255, B: 102, A: 255}, // Light Yellow
	color.RGBA{R: 255, G: 153, B: 255, A: 255}, // Light Pink
	color.RGBA{R: 153, G: 255, B: 255, A: 255}, // Light Cyan
}

var sourceColors = map[calculator.SourceKind]color.Color{
	calculator.SourceStock:  color.RGBA{R: 153, G: 255, B: 153, A: 255},
	calculator.SourceBase:   color.RGBA{R: 255, G: 204, B: 102, A: 255},
	calculator.SourceRecipe: color.White,
}

func monoText(s string, c color.Color) *canvas.Text {
	txt := canvas.NewText(s, c)
	txt.TextStyle = fyne.TextStyle{Monospace: true}
	return txt
}

// RenderLines accepts a slice of LineInfo and returns a *fyne.Container (VBox)
// that lays out each line as an HBox of canvas.Text segments.
//
// Each line is composed of:
//  1. “│   ” or “    ” segments for each ancestor level
//  2. “├── ” or “└── ” branch symbol at the current depth
//  3. The node text itself.
func RenderLines(lines []LineInfo) *fyne.Container {
	box := container.NewVBox()

	for _, ln := range lines {
		var segments []fyne.CanvasObject
		depth := ln.Depth()

		for lvl := 0; lvl < depth; lvl++ {
			if ln.PrefixParts[lvl] {
				segments = append(segments, monoText("    ", color.White))
			} else {
				segments = append(segments, monoText("│   ", palette[lvl%len(palette)]))
			}
		}

		branchSymbol := "├── "
		if ln.IsLast {
			branchSymbol = "└── "
		}
		segments = append(segments, monoText(branchSymbol, palette[depth%len(palette)]))

		textColor, ok := sourceColors[ln.Source]
		if !ok {
			textColor = palette[depth%len(palette)]
		}
		segments = append(segments, monoText(ln.Text, textColor))

		box.Add(container.NewHBox(segments...))
	}

	return box
}
