// craftcalc/data/recipes.go
package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"craftcalc/calculator"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ItemQty is one entry of a recipe side as persisted.
type ItemQty struct {
	Item     string  `validate:"required"`
	Quantity float64 `validate:"gt=0"`
}

// RecipeDef is a persisted recipe. Both sides are JSON objects on disk, but
// their key order is the crafting order, so they are kept as slices.
type RecipeDef struct {
	Inputs  []ItemQty `validate:"dive"`
	Outputs []ItemQty `validate:"required,min=1,dive"`
}

// Validate checks field tags and then the recipe rules themselves.
func (d RecipeDef) Validate() error {
	if err := validate.Struct(d); err != nil {
		return &calculator.InvalidRecipeError{Reason: err.Error()}
	}
	_, err := d.Recipe()
	return err
}

// Recipe builds the calculator recipe for d.
func (d RecipeDef) Recipe() (*calculator.Recipe, error) {
	return calculator.NewRecipe(toIngredients(d.Inputs), toIngredients(d.Outputs))
}

// DefFromRecipe converts a calculator recipe back to its persisted form.
func DefFromRecipe(r *calculator.Recipe) RecipeDef {
	return RecipeDef{
		Inputs:  fromIngredients(r.Inputs()),
		Outputs: fromIngredients(r.Outputs()),
	}
}

func toIngredients(list []ItemQty) []calculator.Ingredient {
	out := make([]calculator.Ingredient, 0, len(list))
	for _, e := range list {
		out = append(out, calculator.Ingredient{Item: e.Item, Quantity: e.Quantity})
	}
	return out
}

func fromIngredients(list []calculator.Ingredient) []ItemQty {
	out := make([]ItemQty, 0, len(list))
	for _, in := range list {
		out = append(out, ItemQty{Item: in.Item, Quantity: in.Quantity})
	}
	return out
}

type recipeJSON struct {
	Inputs  orderedQty `json:"inputs"`
	Outputs orderedQty `json:"outputs"`
}

// orderedQty is a JSON object of name -> quantity that remembers key order.
type orderedQty []ItemQty

func (o orderedQty) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Item)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Quantity)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *orderedQty) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object of item quantities, got %v", tok)
	}
	var list orderedQty
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", keyTok)
		}
		var qty float64
		if err := dec.Decode(&qty); err != nil {
			return fmt.Errorf("quantity for %q: %w", key, err)
		}
		list = append(list, ItemQty{Item: key, Quantity: qty})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = list
	return nil
}

// DecodeRecipes parses a recipe catalog and validates every entry. The first
// invalid entry aborts decoding.
func DecodeRecipes(r io.Reader) ([]RecipeDef, error) {
	var raw []recipeJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	defs := make([]RecipeDef, 0, len(raw))
	for n, rj := range raw {
		def := RecipeDef{Inputs: rj.Inputs, Outputs: rj.Outputs}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", n+1, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// EncodeRecipes writes defs as an indented JSON array.
func EncodeRecipes(w io.Writer, defs []RecipeDef) error {
	raw := make([]recipeJSON, 0, len(defs))
	for _, d := range defs {
		raw = append(raw, recipeJSON{Inputs: d.Inputs, Outputs: d.Outputs})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// LoadRecipeFile reads the catalog at path. A missing file is an empty catalog.
func LoadRecipeFile(path string) ([]RecipeDef, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open recipes: %w", err)
	}
	defer f.Close()
	return DecodeRecipes(f)
}

// SaveRecipeFile writes the catalog to path.
func SaveRecipeFile(path string, defs []RecipeDef) error {
	var buf bytes.Buffer
	if err := EncodeRecipes(&buf, defs); err != nil {
		return fmt.Errorf("failed to encode recipes: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// BuildIndex registers defs in order.
func BuildIndex(defs []RecipeDef) (*calculator.RecipeIndex, error) {
	idx := calculator.NewRecipeIndex()
	for n, d := range defs {
		r, err := d.Recipe()
		if err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", n+1, err)
		}
		if err := idx.Register(r); err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", n+1, err)
		}
	}
	return idx, nil
}

// IndexDefs returns the persisted form of every recipe in idx.
func IndexDefs(idx *calculator.RecipeIndex) []RecipeDef {
	recipes := idx.Recipes()
	defs := make([]RecipeDef, 0, len(recipes))
	for _, r := range recipes {
		defs = append(defs, DefFromRecipe(r))
	}
	return defs
}

// writeFile replaces path through a temp file and rename.
func writeFile(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
