// Package input parses the text forms users type: item requests and recipe
// definitions.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"craftcalc/calculator"
)

// Entry is one requested item as typed, before name resolution.
type Entry struct {
	Name     string
	Quantity float64
}

// ParseRequests parses "Name, Qty; Name; ..." into entries. A missing
// quantity means 1. Empty parts between semicolons are skipped.
func ParseRequests(s string) ([]Entry, error) {
	var entries []Entry
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		e, err := parseEntry(part)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, &calculator.InvalidInputError{Reason: "no valid items entered for calculation"}
	}
	return entries, nil
}

func parseEntry(part string) (Entry, error) {
	fields := strings.Split(part, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	name := fields[0]
	if name == "" {
		return Entry{}, &calculator.InvalidInputError{Reason: fmt.Sprintf("missing item name in '%s'", part)}
	}
	switch len(fields) {
	case 1:
		return Entry{Name: name, Quantity: 1}, nil
	case 2:
		qty, err := ParseQuantity(fields[1])
		if err != nil {
			return Entry{}, &calculator.InvalidInputError{Item: name, Reason: err.Error()}
		}
		return Entry{Name: name, Quantity: qty}, nil
	default:
		return Entry{}, &calculator.InvalidInputError{
			Reason: fmt.Sprintf("invalid format for item entry '%s', expected 'Item, Quantity' or 'Item'", part),
		}
	}
}

// MaxQuantity is the largest quantity a user may type.
const MaxQuantity = 1e12

// ParseQuantity parses a positive finite number no larger than MaxQuantity.
func ParseQuantity(s string) (float64, error) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity '%s'", s)
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got '%s'", s)
	}
	if qty > MaxQuantity {
		return 0, fmt.Errorf("quantity '%s' is larger than %g", s, MaxQuantity)
	}
	return qty, nil
}

// ParseRecipe parses "Wood,2;Stone,1 -> Advanced Tool,1". Each side uses the
// request syntax; quantities default to 1. The input side may be empty.
func ParseRecipe(s string) (*calculator.Recipe, error) {
	lhs, rhs, ok := strings.Cut(s, "->")
	if !ok {
		return nil, &calculator.InvalidRecipeError{Reason: "expected 'inputs -> outputs'"}
	}
	inputs, err := parseSide(lhs, true)
	if err != nil {
		return nil, err
	}
	outputs, err := parseSide(rhs, false)
	if err != nil {
		return nil, err
	}
	return calculator.NewRecipe(inputs, outputs)
}

func parseSide(s string, allowEmpty bool) ([]calculator.Ingredient, error) {
	if strings.TrimSpace(s) == "" {
		if allowEmpty {
			return nil, nil
		}
		return nil, &calculator.InvalidRecipeError{Reason: "recipe has no outputs"}
	}
	entries, err := ParseRequests(s)
	if err != nil {
		return nil, &calculator.InvalidRecipeError{Reason: err.Error()}
	}
	out := make([]calculator.Ingredient, 0, len(entries))
	for _, e := range entries {
		out = append(out, calculator.Ingredient{Item: e.Name, Quantity: e.Quantity})
	}
	return out, nil
}

// FormatRecipe renders r as "2 Wood + 1 Stone -> 1 Advanced Tool".
func FormatRecipe(r *calculator.Recipe) string {
	return formatSide(r.Inputs()) + " -> " + formatSide(r.Outputs())
}

func formatSide(list []calculator.Ingredient) string {
	if len(list) == 0 {
		return "(nothing)"
	}
	parts := make([]string, 0, len(list))
	for _, in := range list {
		parts = append(parts, FormatQuantity(in.Quantity)+" "+in.Item)
	}
	return strings.Join(parts, " + ")
}

// FormatQuantity prints whole numbers without decimals and anything else
// with up to four decimals, trailing zeros dropped.
func FormatQuantity(v float64) string {
	if math.Abs(v) < calculator.Epsilon {
		return "0"
	}
	if r := math.Round(v); math.Abs(v-r) < calculator.Epsilon {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
