package calculator

import (
	"errors"
	"log/slog"
)

// maxReverseQuantity caps the search so a cycle of positive-yield recipes
// cannot make it run forever.
const maxReverseQuantity = 1 << 30

// MaxCraftable reports how many additional units of item can be crafted from
// the current inventory without any raw-material demand. Stock already held
// is not counted. The inventory is not modified.
func (c *Calculator) MaxCraftable(item string) (int, error) {
	if item == "" {
		return 0, &InvalidInputError{Reason: "empty item name"}
	}
	if c.index.IsBase(item) {
		return 0, nil
	}
	have := c.inv.Available(item)

	feasible := func(q int) (bool, error) {
		sim := NewCalculator(c.index, c.inv.Clone(), WithBaseWeight(c.weight), WithLogger(discardLogger))
		_, err := sim.Resolve(item, have+float64(q))
		if err != nil {
			var cycle *CircularDependencyError
			if errors.As(err, &cycle) || errors.Is(err, ErrInvalidInput) {
				return false, nil
			}
			return false, err
		}
		return sim.Totals().BaseSum() <= Epsilon, nil
	}

	lo, hi := 0, 1
	for hi <= maxReverseQuantity {
		ok, err := feasible(hi)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		lo, hi = hi, hi*2
	}
	if hi > maxReverseQuantity {
		return lo, nil
	}
	// lo is feasible (or zero), hi is not.
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ok, err := feasible(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// AllCraftable runs MaxCraftable for every item that has a recipe and
// returns those with a positive result.
func (c *Calculator) AllCraftable() (map[string]int, error) {
	out := make(map[string]int)
	for _, item := range c.index.Items() {
		if c.index.IsBase(item) {
			continue
		}
		n, err := c.MaxCraftable(item)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out[item] = n
		}
	}
	return out, nil
}

var discardLogger = slog.New(slog.DiscardHandler)
