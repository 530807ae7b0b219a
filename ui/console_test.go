package ui

import (
	"bytes"
	"testing"

	"craftcalc/calculator"

	"github.com/stretchr/testify/assert"
)

func TestConsole_PrintTrees(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).PrintTrees([]*calculator.Node{stickTree()})

	want := "\n--- Recipe Tree ---\n" +
		"\nTree for: Stick (Needed: 4, Produced by recipe: 4) [recipe]\n" +
		"├─ Twine (Needed: 1, Used from Stock: 1) [stock]\n" +
		"└─ Planks (Needed: 2, Produced by recipe: 4) [recipe]\n" +
		"    └─ Log (Needed: 1) [base]\n"
	assert.Equal(t, want, buf.String())
}

func TestConsole_PrintTrees_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).PrintTrees(nil)
	assert.Contains(t, buf.String(), "(No tree generated)")
}

func TestConsole_PrintSummary(t *testing.T) {
	var buf bytes.Buffer
	res := &calculator.Result{
		Inventory: map[string]float64{"Planks": 2},
		Failures: []calculator.Failure{
			{Request: calculator.Request{Item: "Gem", Quantity: 1}, Err: calculator.ErrCircularDependency},
		},
	}
	p := calculator.Products{
		Finished:     map[string]float64{"Stick": 4},
		Intermediate: map[string]float64{"Planks": 2},
		Byproduct:    map[string]float64{"Planks": 2},
		Base:         map[string]float64{"Log": 0.5},
	}
	NewConsole(&buf).PrintSummary(res, p)
	out := buf.String()

	assert.Contains(t, out, "Total base resources needed for this request:\n  Log: 1\n")
	assert.Contains(t, out, "  Finished products (Requested & Produced):\n    Stick: 4\n")
	assert.Contains(t, out, "  Intermediate products (Crafted & Consumed):\n    Planks: 2\n")
	assert.Contains(t, out, "  Byproducts / Excess (Remaining non-base items):\n    Planks: 2\n")
	assert.Contains(t, out, "Failed requests (rolled back):\n  Gem, 1:")
	assert.Contains(t, out, "(includes byproducts/excess from this run):\n  Planks: 2\n")
}

func TestConsole_PrintSummary_NothingNeeded(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).PrintSummary(&calculator.Result{}, calculator.Products{})
	out := buf.String()

	assert.Contains(t, out, "Total base resources needed for this request:\n  None\n")
	assert.Contains(t, out, "No specific products generated")
	assert.Contains(t, out, "(includes byproducts/excess from this run):\n  None\n")
}

func TestConsole_Listings(t *testing.T) {
	wood, err := calculator.NewRecipe(
		[]calculator.Ingredient{{Item: "Wood", Quantity: 2}, {Item: "Stone", Quantity: 1}},
		[]calculator.Ingredient{{Item: "Advanced Tool", Quantity: 1}},
	)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.PrintStock(map[string]float64{"Rich Air": 4, "Gone": 0})
	c.PrintRecipes([]*calculator.Recipe{wood})
	c.PrintItems([]string{"Advanced Tool", "Stone", "Wood"}, []string{"Stone", "Wood"})
	c.PrintCraftable("Mana Crystal", 2)
	c.PrintAllCraftable(map[string]int{"Weak Mana Gem": 10, "Mana Crystal": 30})

	want := "--- Current Available Resources ---\n" +
		"  Rich Air: 4\n" +
		"--- Available Recipes ---\n" +
		"  1. 2 Wood + 1 Stone -> 1 Advanced Tool\n" +
		"--- Available Items for Calculation ---\n" +
		"Available items: Advanced Tool, Stone, Wood\n" +
		"Base resources: Stone, Wood\n" +
		"You can craft 2 of 'Mana Crystal'\n" +
		"--- Craftable Items From Current Stock ---\n" +
		"  Mana Crystal: 30\n" +
		"  Weak Mana Gem: 10\n"
	assert.Equal(t, want, buf.String())
}

func TestConsole_EmptyListings(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.PrintStock(nil)
	c.PrintRecipes(nil)
	c.PrintAllCraftable(nil)

	assert.Equal(t, "--- Current Available Resources ---\n  (None)\n"+
		"--- Available Recipes ---\n  (None)\n"+
		"--- Craftable Items From Current Stock ---\n  (Nothing can be crafted from current stock)\n",
		buf.String())
}

func TestRows(t *testing.T) {
	p := calculator.Products{
		Finished: map[string]float64{"Stick": 4},
		Base:     map[string]float64{"Log": 0.25, "Stone": 2},
	}
	assert.Equal(t, [][]string{
		{"Base", "Log", "1"},
		{"Base", "Stone", "2"},
		{"Finished", "Stick", "4"},
	}, SummaryRows(p))

	assert.Equal(t, [][]string{{"A", "1.5"}, {"B", "2"}}, StockRows(map[string]float64{"B": 2, "A": 1.5}))
	assert.Equal(t, [][]string{{"X", "3"}}, CraftableRows(map[string]int{"X": 3}))
	assert.Empty(t, SummaryRows(calculator.Products{}))
}
