package ui

import (
	"testing"

	"craftcalc/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stickTree is the tree for 4 Stick from an empty inventory, with a spare
// stock leaf added under the root.
func stickTree() *calculator.Node {
	return &calculator.Node{
		Item: "Stick", Needed: 4, Source: calculator.SourceRecipe, Crafts: 1, Produced: 4,
		Children: []*calculator.Node{
			{
				Item: "Planks", Needed: 2, Depth: 1, Source: calculator.SourceRecipe, Crafts: 1, Produced: 4, Excess: 2,
				Children: []*calculator.Node{
					{Item: "Log", Needed: 1, Depth: 2, Source: calculator.SourceBase},
				},
			},
			{Item: "Twine", Needed: 1, Depth: 1, Source: calculator.SourceStock, FromStock: 1},
		},
	}
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		name string
		node *calculator.Node
		want string
	}{
		{
			name: "crafted",
			node: &calculator.Node{Item: "Stick", Needed: 7, Source: calculator.SourceRecipe, Produced: 8},
			want: "Stick (Needed: 7, Produced by recipe: 8) [recipe]",
		},
		{
			name: "partly from stock",
			node: &calculator.Node{Item: "Planks", Needed: 6, Source: calculator.SourceRecipe, Produced: 4, FromStock: 2},
			want: "Planks (Needed: 6, Produced by recipe: 4, Used from Stock: 2) [recipe]",
		},
		{
			name: "base",
			node: &calculator.Node{Item: "Log", Needed: 0.5, Source: calculator.SourceBase},
			want: "Log (Needed: 0.5) [base]",
		},
		{
			name: "stock",
			node: &calculator.Node{Item: "Twine", Needed: 1, Source: calculator.SourceStock, FromStock: 1},
			want: "Twine (Needed: 1, Used from Stock: 1) [stock]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeLabel(tt.node))
		})
	}
}

func TestSortedChildren(t *testing.T) {
	n := &calculator.Node{Children: []*calculator.Node{
		{Item: "A", Source: calculator.SourceRecipe},
		{Item: "D", Source: calculator.SourceBase},
		{Item: "B", Source: calculator.SourceBase},
		{Item: "C", Source: calculator.SourceStock},
	}}

	var got []string
	for _, c := range SortedChildren(n) {
		got = append(got, c.Item)
	}
	assert.Equal(t, []string{"C", "B", "D", "A"}, got)
	assert.Equal(t, "A", n.Children[0].Item, "node keeps declared order")
}

func TestFormatForest(t *testing.T) {
	lines := FormatForest([]*calculator.Node{stickTree()})
	require.Len(t, lines, 4)

	assert.Equal(t, 0, lines[0].Depth())
	assert.Equal(t, "Twine (Needed: 1, Used from Stock: 1) [stock]", lines[1].Text)
	assert.False(t, lines[1].IsLast)
	assert.Equal(t, "Planks (Needed: 2, Produced by recipe: 4) [recipe]", lines[2].Text)
	assert.True(t, lines[2].IsLast)
	assert.Equal(t, 2, lines[3].Depth())
	assert.Equal(t, []bool{true, true, true}, lines[3].PrefixParts)
	assert.Equal(t, calculator.SourceBase, lines[3].Source)
}

func TestFormatForest_SkipsNilRoots(t *testing.T) {
	lines := FormatForest([]*calculator.Node{nil, {Item: "Log", Needed: 1, Source: calculator.SourceBase}})
	require.Len(t, lines, 1)
	assert.Equal(t, "Log (Needed: 1) [base]", lines[0].Text)
}
