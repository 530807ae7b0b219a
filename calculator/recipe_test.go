package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipe_Invalid(t *testing.T) {
	cases := map[string]struct {
		in, out []Ingredient
	}{
		"no outputs":       {in: []Ingredient{i("Ore", 1)}},
		"zero output":      {out: []Ingredient{i("Gem", 0)}},
		"negative input":   {in: []Ingredient{i("Ore", -1)}, out: []Ingredient{i("Gem", 1)}},
		"nan input":        {in: []Ingredient{i("Ore", math.NaN())}, out: []Ingredient{i("Gem", 1)}},
		"inf output":       {out: []Ingredient{i("Gem", math.Inf(1))}},
		"empty name":       {in: []Ingredient{i("", 1)}, out: []Ingredient{i("Gem", 1)}},
		"duplicate output": {out: []Ingredient{i("Gem", 1), i("Gem", 2)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRecipe(tc.in, tc.out)
			assert.ErrorIs(t, err, ErrInvalidRecipe)
		})
	}
}

func TestNewRecipe_CopiesAndKeepsOrder(t *testing.T) {
	in := []Ingredient{i("Wood", 2), i("Stone", 1)}
	rec, err := NewRecipe(in, []Ingredient{i("Tool", 1)})
	require.NoError(t, err)

	in[0].Quantity = 99
	assert.Equal(t, []Ingredient{i("Wood", 2), i("Stone", 1)}, rec.Inputs())
	assert.InDelta(t, 1, rec.Output("Tool"), tol)
	assert.InDelta(t, 0, rec.Output("Wood"), tol)
}

func TestRecipeIndex(t *testing.T) {
	idx := newIndex(t,
		r([]Ingredient{i("Ore", 10)}, []Ingredient{i("Gem", 1)}),
		r([]Ingredient{i("Ore", 1), i("Dust", 1)}, []Ingredient{i("Gem", 1), i("Slag", 1)}),
	)

	assert.Len(t, idx.Candidates("Gem"), 2)
	assert.Len(t, idx.Candidates("Slag"), 1)
	assert.True(t, idx.IsBase("Ore"))
	assert.False(t, idx.IsBase("Gem"))
	assert.True(t, idx.IsBase("Unknown"))
	assert.Equal(t, []string{"Dust", "Gem", "Ore", "Slag"}, idx.Items())
	assert.Equal(t, []string{"Dust", "Ore"}, idx.BaseItems())

	removed, err := idx.Remove(0)
	require.NoError(t, err)
	assert.InDelta(t, 10, removed.Inputs()[0].Quantity, tol)
	assert.Len(t, idx.Candidates("Gem"), 1)
	assert.Equal(t, 1, idx.Len())

	_, err = idx.Remove(5)
	assert.Error(t, err)
}

func TestInventory(t *testing.T) {
	inv := NewInventory(ing{"Ore": 5, "Junk": 0})
	assert.Equal(t, 1, inv.Len())

	assert.InDelta(t, 3, inv.Consume("Ore", 3), tol)
	assert.InDelta(t, 2, inv.Consume("Ore", 10), tol)
	assert.InDelta(t, 0, inv.Available("Ore"), tol)
	assert.Equal(t, 0, inv.Len())
	assert.InDelta(t, 0, inv.Consume("Missing", 1), tol)

	inv.Add("Gem", 2)
	inv.Add("Gem", -1)
	clone := inv.Clone()
	clone.Add("Gem", 5)
	assert.InDelta(t, 2, inv.Available("Gem"), tol)

	snap := inv.Snapshot()
	inv.ClearAll()
	assert.Empty(t, inv.Items())
	inv.Restore(snap)
	assert.Equal(t, []string{"Gem"}, inv.Items())
}
