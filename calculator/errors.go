package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. The typed errors below match these through errors.Is,
// so callers can branch on the category without a type switch.
var (
	ErrInvalidRecipe      = errors.New("invalid recipe")
	ErrItemNotFound       = errors.New("item not found")
	ErrCircularDependency = errors.New("circular dependency")
	ErrInvalidInput       = errors.New("invalid input")
)

// InvalidRecipeError reports a malformed catalog entry. It is raised when a
// recipe is built or registered, never while resolving.
type InvalidRecipeError struct {
	Item   string // offending item name, empty when the recipe as a whole is malformed
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("invalid recipe: %s", e.Reason)
	}
	return fmt.Sprintf("invalid recipe: %s: %s", e.Item, e.Reason)
}

func (e *InvalidRecipeError) Is(target error) bool { return target == ErrInvalidRecipe }

// ItemNotFoundError means free text could not be mapped to any catalog or
// inventory name. A base item is not "not found".
type ItemNotFoundError struct {
	Item        string
	Suggestions []string
}

func (e *ItemNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("item '%s' not found (did you mean %s?)", e.Item, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("item '%s' not found, and no close matches found", e.Item)
}

func (e *ItemNotFoundError) Is(target error) bool { return target == ErrItemNotFound }

// CircularDependencyError carries the expansion path that revisited an item,
// first and last elements being the same item.
type CircularDependencyError struct {
	Cycle []string
}

// Item returns the item that closed the cycle.
func (e *CircularDependencyError) Item() string {
	if len(e.Cycle) == 0 {
		return ""
	}
	return e.Cycle[len(e.Cycle)-1]
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency for '%s': %s", e.Item(), strings.Join(e.Cycle, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// InvalidInputError reports a non-positive or unparsable requested quantity
// or a malformed request string.
type InvalidInputError struct {
	Item   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input for '%s': %s", e.Item, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// newCycleError builds the cycle path from the ancestry stack: the part of
// the stack starting at the first occurrence of item, closed by item again.
func newCycleError(ancestry []string, item string) *CircularDependencyError {
	start := 0
	for i, name := range ancestry {
		if name == item {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(ancestry)-start+1)
	cycle = append(cycle, ancestry[start:]...)
	cycle = append(cycle, item)
	return &CircularDependencyError{Cycle: cycle}
}
