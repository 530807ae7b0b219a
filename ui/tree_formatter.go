package ui

import (
	"fmt"
	"sort"
	"strings"

	"craftcalc/calculator"
	"craftcalc/input"
)

//
// This file contains “pure” logic for flattening crafting trees into a slice
// of LineInfo structs. It does not create any Fyne widgets, so the console
// and the desktop window share it.
//
// - NodeLabel, SortedChildren
// - LineInfo, collectLines, FormatForest
//

// sourcePriority orders siblings: stock first, then base, then crafted.
func sourcePriority(s calculator.SourceKind) int {
	switch s {
	case calculator.SourceStock:
		return 0
	case calculator.SourceBase:
		return 1
	case calculator.SourceRecipe:
		return 2
	default:
		return 3
	}
}

// SortedChildren returns n's children ordered by source, then by name. The
// node itself keeps declared order.
func SortedChildren(n *calculator.Node) []*calculator.Node {
	kids := append([]*calculator.Node(nil), n.Children...)
	sort.SliceStable(kids, func(i, j int) bool {
		pi, pj := sourcePriority(kids[i].Source), sourcePriority(kids[j].Source)
		if pi != pj {
			return pi < pj
		}
		return kids[i].Item < kids[j].Item
	})
	return kids
}

// NodeLabel renders one node, e.g. “Stick (Needed: 7, Produced by recipe: 8) [recipe]”.
func NodeLabel(n *calculator.Node) string {
	parts := []string{"Needed: " + input.FormatQuantity(n.Needed)}
	if n.Source == calculator.SourceRecipe && n.Produced > calculator.Epsilon {
		parts = append(parts, "Produced by recipe: "+input.FormatQuantity(n.Produced))
	}
	if n.FromStock > calculator.Epsilon {
		parts = append(parts, "Used from Stock: "+input.FormatQuantity(n.FromStock))
	}
	return fmt.Sprintf("%s (%s) [%s]", n.Item, strings.Join(parts, ", "), n.Source)
}

// LineInfo holds everything needed to render one ASCII‐tree line:
//
//   - PrefixParts: for each ancestor level, true=that ancestor was the last child, so we print spaces.
//   - IsLast: is this node the last among its siblings (so we choose “└── ” vs. “├── ”).
//   - Text: e.g. “Planks (Needed: 4, Produced by recipe: 4) [recipe]”.
type LineInfo struct {
	PrefixParts []bool // PrefixParts[i] == true ⇒ at depth i, ancestor was last ⇒ print spaces
	IsLast      bool   // Is this node the last child at its level?
	Text        string
	Source      calculator.SourceKind
}

// Depth is 0 for a root line.
func (l LineInfo) Depth() int { return len(l.PrefixParts) - 1 }

// collectLines recursively walks nodes and appends LineInfo entries.
// prefixParts is passed down so that each child inherits which ancestors were “last”.
func collectLines(nodes []*calculator.Node, prefixParts []bool, out *[]LineInfo) {
	for i, node := range nodes {
		isLast := i == len(nodes)-1
		parts := append(append([]bool{}, prefixParts...), isLast)
		*out = append(*out, LineInfo{
			PrefixParts: parts,
			IsLast:      isLast,
			Text:        NodeLabel(node),
			Source:      node.Source,
		})
		if len(node.Children) > 0 {
			collectLines(SortedChildren(node), parts, out)
		}
	}
}

// FormatForest takes one or more root nodes and returns a flat slice of LineInfo
// representing the entire forest, roots in request order.
func FormatForest(roots []*calculator.Node) []LineInfo {
	var lines []LineInfo
	for idx, root := range roots {
		if root == nil {
			continue
		}
		isLastRoot := idx == len(roots)-1
		lines = append(lines, LineInfo{
			PrefixParts: []bool{isLastRoot}, // top‐level depth uses only one boolean
			IsLast:      isLastRoot,
			Text:        NodeLabel(root),
			Source:      root.Source,
		})
		if len(root.Children) > 0 {
			collectLines(SortedChildren(root), []bool{isLastRoot}, &lines)
		}
	}
	return lines
}
