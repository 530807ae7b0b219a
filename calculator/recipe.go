package calculator

import (
	"fmt"
	"math"
	"sort"
)

// Epsilon is the tolerance used for every quantity comparison.
const Epsilon = 1e-9

// Ingredient is one (item, quantity) entry on either side of a recipe.
type Ingredient struct {
	Item     string
	Quantity float64
}

// Recipe is an immutable transformation of inputs into outputs. Both sides
// keep their declared order: inputs are resolved in that order.
type Recipe struct {
	inputs  []Ingredient
	outputs []Ingredient
}

// NewRecipe validates and builds a recipe. It rejects an empty output list,
// any quantity that is not a positive finite number, and duplicate names on
// the same side. An empty input list is allowed.
func NewRecipe(inputs, outputs []Ingredient) (*Recipe, error) {
	if len(outputs) == 0 {
		return nil, &InvalidRecipeError{Reason: "recipe has no outputs"}
	}
	if err := validateSide("input", inputs); err != nil {
		return nil, err
	}
	if err := validateSide("output", outputs); err != nil {
		return nil, err
	}
	return &Recipe{
		inputs:  append([]Ingredient(nil), inputs...),
		outputs: append([]Ingredient(nil), outputs...),
	}, nil
}

func validateSide(side string, list []Ingredient) error {
	seen := make(map[string]bool, len(list))
	for _, ing := range list {
		if ing.Item == "" {
			return &InvalidRecipeError{Reason: fmt.Sprintf("%s with empty item name", side)}
		}
		if seen[ing.Item] {
			return &InvalidRecipeError{Item: ing.Item, Reason: fmt.Sprintf("duplicate %s", side)}
		}
		seen[ing.Item] = true
		if math.IsNaN(ing.Quantity) || math.IsInf(ing.Quantity, 0) || ing.Quantity <= 0 {
			return &InvalidRecipeError{Item: ing.Item, Reason: fmt.Sprintf("%s quantity %v is not positive", side, ing.Quantity)}
		}
	}
	return nil
}

// Inputs returns a copy of the recipe inputs in declared order.
func (r *Recipe) Inputs() []Ingredient { return append([]Ingredient(nil), r.inputs...) }

// Outputs returns a copy of the recipe outputs in declared order.
func (r *Recipe) Outputs() []Ingredient { return append([]Ingredient(nil), r.outputs...) }

// Output returns how much of item one craft produces (0 if none).
func (r *Recipe) Output(item string) float64 {
	for _, out := range r.outputs {
		if out.Item == item {
			return out.Quantity
		}
	}
	return 0
}

// RecipeIndex maps output names to the recipes producing them. Candidate
// order is registration order and is the route tie-break.
type RecipeIndex struct {
	recipes  []*Recipe
	byOutput map[string][]*Recipe
}

// NewRecipeIndex returns an empty index.
func NewRecipeIndex() *RecipeIndex {
	return &RecipeIndex{byOutput: make(map[string][]*Recipe)}
}

// Register appends the recipe under each of its output names.
func (x *RecipeIndex) Register(r *Recipe) error {
	if r == nil {
		return &InvalidRecipeError{Reason: "nil recipe"}
	}
	// Recipes built as struct literals bypass NewRecipe, so check again here.
	if len(r.outputs) == 0 {
		return &InvalidRecipeError{Reason: "recipe has no outputs"}
	}
	if err := validateSide("input", r.inputs); err != nil {
		return err
	}
	if err := validateSide("output", r.outputs); err != nil {
		return err
	}
	x.recipes = append(x.recipes, r)
	for _, out := range r.outputs {
		x.byOutput[out.Item] = append(x.byOutput[out.Item], r)
	}
	return nil
}

// Candidates returns the recipes producing item, in registration order.
// The result is empty for a base item.
func (x *RecipeIndex) Candidates(item string) []*Recipe {
	return x.byOutput[item]
}

// IsBase reports whether no recipe produces item.
func (x *RecipeIndex) IsBase(item string) bool {
	return len(x.byOutput[item]) == 0
}

// Recipes returns every registered recipe in registration order.
func (x *RecipeIndex) Recipes() []*Recipe {
	return append([]*Recipe(nil), x.recipes...)
}

// Len returns the number of registered recipes.
func (x *RecipeIndex) Len() int { return len(x.recipes) }

// Remove deletes the recipe at pos (0-based registration position) and
// rebuilds the output map so the remaining order is unchanged.
func (x *RecipeIndex) Remove(pos int) (*Recipe, error) {
	if pos < 0 || pos >= len(x.recipes) {
		return nil, fmt.Errorf("recipe position %d out of range (have %d)", pos+1, len(x.recipes))
	}
	removed := x.recipes[pos]
	rest := append(append([]*Recipe(nil), x.recipes[:pos]...), x.recipes[pos+1:]...)
	x.recipes = nil
	x.byOutput = make(map[string][]*Recipe)
	for _, r := range rest {
		// Already validated on the way in.
		_ = x.Register(r)
	}
	return removed, nil
}

// Items returns the sorted set of every name mentioned by any recipe.
func (x *RecipeIndex) Items() []string {
	set := make(map[string]bool)
	for _, r := range x.recipes {
		for _, in := range r.inputs {
			set[in.Item] = true
		}
		for _, out := range r.outputs {
			set[out.Item] = true
		}
	}
	return sortedKeys(set)
}

// BaseItems returns the sorted names that appear as inputs but are never
// produced by any recipe.
func (x *RecipeIndex) BaseItems() []string {
	set := make(map[string]bool)
	for _, r := range x.recipes {
		for _, in := range r.inputs {
			if x.IsBase(in.Item) {
				set[in.Item] = true
			}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
