package ui

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"craftcalc/calculator"
	"craftcalc/input"
)

// Console prints results as plain text.
type Console struct {
	w io.Writer
}

// NewConsole returns a console writing to w.
func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// PrintLines draws lines from FormatForest. Root lines get a “Tree for:”
// header; deeper lines get box-drawing prefixes.
func (c *Console) PrintLines(lines []LineInfo) {
	c.printf("\n--- Recipe Tree ---\n")
	if len(lines) == 0 {
		c.printf("  (No tree generated)\n")
		return
	}
	for _, ln := range lines {
		depth := ln.Depth()
		if depth == 0 {
			c.printf("\nTree for: %s\n", ln.Text)
			continue
		}
		var b strings.Builder
		// PrefixParts[0] belongs to the root, which has no connector.
		for lvl := 1; lvl < depth; lvl++ {
			if ln.PrefixParts[lvl] {
				b.WriteString("    ")
			} else {
				b.WriteString("│   ")
			}
		}
		if ln.IsLast {
			b.WriteString("└─ ")
		} else {
			b.WriteString("├─ ")
		}
		b.WriteString(ln.Text)
		c.printf("%s\n", b.String())
	}
}

// PrintTrees formats and prints the forest.
func (c *Console) PrintTrees(roots []*calculator.Node) {
	c.PrintLines(FormatForest(roots))
}

// PrintSummary prints base demand, the product breakdown and the inventory
// left after the run.
func (c *Console) PrintSummary(res *calculator.Result, p calculator.Products) {
	c.printf("\n--- Calculation Summary ---\n")

	c.printf("\nTotal base resources needed for this request:\n")
	if len(p.Base) == 0 {
		c.printf("  None\n")
	}
	for _, item := range sortedKeys(p.Base) {
		c.printf("  %s: %s\n", item, input.FormatQuantity(math.Ceil(p.Base[item]-calculator.Epsilon)))
	}

	c.printf("\nProducts Breakdown:\n")
	printed := c.printSection("  Finished products (Requested & Produced):", p.Finished)
	printed = c.printSection("  Intermediate products (Crafted & Consumed):", p.Intermediate) || printed
	printed = c.printSection("  Byproducts / Excess (Remaining non-base items):", p.Byproduct) || printed
	if !printed {
		if len(p.Base) == 0 {
			c.printf("  No specific products generated or resources needed/remaining from this request.\n")
		} else {
			c.printf("  Only base inputs were consumed; no complex products generated or remaining.\n")
		}
	}

	if res != nil && len(res.Failures) > 0 {
		c.printf("\nFailed requests (rolled back):\n")
		for _, f := range res.Failures {
			c.printf("  %s, %s: %v\n", f.Request.Item, input.FormatQuantity(f.Request.Quantity), f.Err)
		}
	}

	c.printf("\nUpdated available resources for next calculation (includes byproducts/excess from this run):\n")
	var stock map[string]float64
	if res != nil {
		stock = res.Inventory
	}
	c.printQuantities(stock, "  None")
}

func (c *Console) printSection(title string, m map[string]float64) bool {
	if len(m) == 0 {
		return false
	}
	c.printf("%s\n", title)
	for _, item := range sortedKeys(m) {
		c.printf("    %s: %s\n", item, input.FormatQuantity(m[item]))
	}
	return true
}

func (c *Console) printQuantities(m map[string]float64, empty string) {
	shown := false
	for _, item := range sortedKeys(m) {
		if m[item] > calculator.Epsilon {
			c.printf("  %s: %s\n", item, input.FormatQuantity(m[item]))
			shown = true
		}
	}
	if !shown {
		c.printf("%s\n", empty)
	}
}

// PrintStock lists the inventory.
func (c *Console) PrintStock(stock map[string]float64) {
	c.printf("--- Current Available Resources ---\n")
	c.printQuantities(stock, "  (None)")
}

// PrintRecipes lists the catalog with 1-based positions.
func (c *Console) PrintRecipes(recipes []*calculator.Recipe) {
	c.printf("--- Available Recipes ---\n")
	if len(recipes) == 0 {
		c.printf("  (None)\n")
		return
	}
	for n, r := range recipes {
		c.printf("  %d. %s\n", n+1, input.FormatRecipe(r))
	}
}

// PrintItems lists what can be requested.
func (c *Console) PrintItems(items, base []string) {
	c.printf("--- Available Items for Calculation ---\n")
	c.printf("Available items: %s\n", strings.Join(items, ", "))
	c.printf("Base resources: %s\n", strings.Join(base, ", "))
}

// PrintCraftable reports the reverse calculation for one item.
func (c *Console) PrintCraftable(item string, n int) {
	c.printf("You can craft %d of '%s'\n", n, item)
}

// PrintAllCraftable reports the reverse calculation for every item.
func (c *Console) PrintAllCraftable(all map[string]int) {
	c.printf("--- Craftable Items From Current Stock ---\n")
	if len(all) == 0 {
		c.printf("  (Nothing can be crafted from current stock)\n")
		return
	}
	for _, row := range CraftableRows(all) {
		c.printf("  %s: %s\n", row[0], row[1])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
