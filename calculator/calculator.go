// Package calculator contains the core logic for resolving crafting requests
// into a crafting tree, base-material demand and byproducts.
package calculator

import (
	"fmt"
	"log/slog"
	"math"
)

// DefaultBaseWeight makes one unit of raw material outweigh any realistic
// number of crafting steps when scoring alternative routes.
const DefaultBaseWeight = 1000

// MaxCrafts is the most invocations one recipe node may need.
const MaxCrafts = math.MaxInt32

// Calculator expands requested items against a recipe index and a shared,
// mutating inventory. Requests resolved by the same Calculator see each
// other's stock draws and byproduct credits.
type Calculator struct {
	index  *RecipeIndex
	inv    *Inventory
	totals *Totals
	weight float64
	policy Policy
	log    *slog.Logger
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithBaseWeight overrides the raw-material weight used in route scores.
func WithBaseWeight(w float64) Option {
	return func(c *Calculator) { c.weight = w }
}

// WithPolicy sets the batch failure policy used by Calculate.
func WithPolicy(p Policy) Option {
	return func(c *Calculator) { c.policy = p }
}

// WithLogger sets the logger used when no context logger is available.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.log = l }
}

// NewCalculator creates a Calculator over index that draws from and credits
// to inv. inv is mutated in place.
func NewCalculator(index *RecipeIndex, inv *Inventory, opts ...Option) *Calculator {
	c := &Calculator{
		index:  index,
		inv:    inv,
		totals: NewTotals(),
		weight: DefaultBaseWeight,
		policy: PolicyAtomic,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Inventory returns the live inventory.
func (c *Calculator) Inventory() *Inventory { return c.inv }

// Totals returns the running totals since the last batch started.
func (c *Calculator) Totals() *Totals { return c.totals }

// Index returns the recipe index.
func (c *Calculator) Index() *RecipeIndex { return c.index }

// state is what a resolution reads and mutates. The live state wraps the
// calculator's inventory and totals; route scoring uses scratch copies.
type state struct {
	inv    *Inventory
	totals *Totals
}

// Resolve expands item against the live inventory and running totals.
// A zero quantity returns a childless node and changes nothing. On error the
// inventory and totals are restored to what they were before the call.
func (c *Calculator) Resolve(item string, quantity float64) (*Node, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return nil, &InvalidInputError{Item: item, Reason: "quantity must be a positive number"}
	}
	if item == "" {
		return nil, &InvalidInputError{Reason: "empty item name"}
	}
	if quantity <= Epsilon {
		return &Node{Item: item, Source: SourceNone}, nil
	}

	snap := c.inv.Snapshot()
	before := c.totals.Clone()
	live := &state{inv: c.inv, totals: c.totals}
	node, err := c.expand(live, item, quantity, 0, nil)
	if err != nil {
		c.inv.Restore(snap)
		c.totals = before
		return nil, err
	}
	return node, nil
}

// expand resolves (item, needed) on st: stock first, then base or the best
// scoring recipe. ancestry is the chain of items being expanded above this one.
func (c *Calculator) expand(st *state, item string, needed float64, depth int, ancestry []string) (*Node, error) {
	for _, a := range ancestry {
		if a == item {
			return nil, newCycleError(ancestry, item)
		}
	}

	node := &Node{Item: item, Needed: needed, Depth: depth}
	node.FromStock = st.inv.Consume(item, needed)
	remainder := needed - node.FromStock
	if remainder <= Epsilon {
		node.Source = SourceStock
		return node, nil
	}

	if c.index.IsBase(item) {
		node.Source = SourceBase
		st.totals.Base[item] += remainder
		return node, nil
	}

	route, err := c.selectRoute(st, item, remainder, depth, ancestry)
	if err != nil {
		return nil, err
	}

	// The winner was evaluated on a copy of st; adopt its outcome.
	*st.inv = *route.scratch.inv
	st.totals.Merge(route.scratch.totals)

	node.Source = SourceRecipe
	node.Recipe = route.recipe
	node.Crafts = route.crafts
	node.Produced = route.produced
	node.Excess = route.excess
	node.Children = route.children
	return node, nil
}

// routeEval is the simulated outcome of crafting remainder with one candidate.
type routeEval struct {
	recipe   *Recipe
	pos      int
	score    float64
	crafts   int
	produced float64
	excess   float64
	children []*Node
	scratch  *state
}

// selectRoute scores every candidate on a scratch copy of st and returns the
// lowest score; ties keep the earliest candidate. A candidate whose expansion
// loops back on itself is skipped. If every candidate loops, the first cycle
// error is returned.
func (c *Calculator) selectRoute(st *state, item string, remainder float64, depth int, ancestry []string) (*routeEval, error) {
	var best *routeEval
	var cycleErr error
	for pos, r := range c.index.Candidates(item) {
		ev, err := c.evaluate(st, r, item, remainder, depth, ancestry)
		if err != nil {
			if _, ok := err.(*CircularDependencyError); ok {
				c.log.Warn("Route skipped", "item", item, "candidate", pos, "error", err)
				if cycleErr == nil {
					cycleErr = err
				}
				continue
			}
			return nil, err
		}
		ev.pos = pos
		c.log.Debug("route scored", "item", item, "candidate", pos, "score", ev.score, "crafts", ev.crafts)
		if best == nil || ev.score < best.score {
			best = ev
		}
	}
	if best == nil {
		return nil, cycleErr
	}
	c.log.Debug("route selected", "item", item, "candidate", best.pos, "score", best.score)
	return best, nil
}

// evaluate simulates recipe r for remainder of item on a clone of st. The
// mutation order matches a live resolution: inputs are drawn and expanded in
// declared order, then excess and byproducts are credited.
func (c *Calculator) evaluate(st *state, r *Recipe, item string, remainder float64, depth int, ancestry []string) (*routeEval, error) {
	perCraft := r.Output(item)
	n := math.Ceil(remainder/perCraft - Epsilon)
	if math.IsNaN(n) || math.IsInf(n, 0) || n > MaxCrafts {
		return nil, &InvalidInputError{
			Item:   item,
			Reason: fmt.Sprintf("%v needed would take more than %d crafts", remainder, MaxCrafts),
		}
	}
	crafts := int(n)
	if crafts < 1 {
		// remainder is tiny next to one craft's output
		crafts = 1
	}

	scratch := &state{inv: st.inv.Clone(), totals: NewTotals()}
	path := make([]string, len(ancestry), len(ancestry)+1)
	copy(path, ancestry)
	path = append(path, item)

	children := make([]*Node, 0, len(r.inputs))
	for _, in := range r.inputs {
		child, err := c.expand(scratch, in.Item, in.Quantity*float64(crafts), depth+1, path)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	produced := perCraft * float64(crafts)
	excess := produced - remainder
	if excess > Epsilon {
		scratch.inv.Add(item, excess)
		scratch.totals.Byproduct[item] += excess
	} else {
		excess = 0
	}
	for _, out := range r.outputs {
		if out.Item == item {
			continue
		}
		qty := out.Quantity * float64(crafts)
		scratch.inv.Add(out.Item, qty)
		scratch.totals.Byproduct[out.Item] += qty
	}

	scratch.totals.Steps++
	if depth > 0 {
		scratch.totals.Intermediate[item] += remainder
	}

	return &routeEval{
		recipe:   r,
		score:    scratch.totals.BaseSum()*c.weight + float64(scratch.totals.Steps),
		crafts:   crafts,
		produced: produced,
		excess:   excess,
		children: children,
		scratch:  scratch,
	}, nil
}
