// Package session holds the state of one running program: the recipe index,
// the live inventory and the store they are persisted to. The CLI and the
// desktop window both drive it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"craftcalc/calculator"
	"craftcalc/data"
	"craftcalc/input"
	"craftcalc/logger"
	"craftcalc/naming"
)

// Options tune calculations.
type Options struct {
	FuzzyCutoff float64
	Policy      calculator.Policy
}

// Notice records that a typed name was replaced by a known one.
type Notice struct {
	Input string
	Name  string
}

func (n Notice) String() string {
	return fmt.Sprintf("Notice: '%s' not found. Assuming you meant '%s'.", n.Input, n.Name)
}

// Outcome is everything a calculation produced.
type Outcome struct {
	Result   *calculator.Result
	Products calculator.Products
	Notices  []Notice
}

// Session is safe for use from multiple goroutines.
type Session struct {
	mu    sync.Mutex
	store data.Store
	opts  Options
	index *calculator.RecipeIndex
	inv   *calculator.Inventory

	// names is rebuilt only when the known item names change, so its
	// suggestion memo survives between requests.
	names     *naming.Resolver
	nameIndex []string
}

// Open loads the catalog and inventory from store.
func Open(ctx context.Context, store data.Store, opts Options) (*Session, error) {
	defs, err := store.LoadRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	index, err := data.BuildIndex(defs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	stock, err := store.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if opts.Policy == "" {
		opts.Policy = calculator.PolicyAtomic
	}
	slog.Debug("Session opened", "recipes", index.Len(), "stock_items", len(stock))
	return &Session{
		store: store,
		opts:  opts,
		index: index,
		inv:   calculator.NewInventory(stock),
	}, nil
}

// SetPolicy changes how later batches handle a failing request.
func (s *Session) SetPolicy(p calculator.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Policy = p
}

// Close releases the store.
func (s *Session) Close() error { return s.store.Close() }

// resolver must be called with mu held.
func (s *Session) resolver() *naming.Resolver {
	names := append(s.index.Items(), s.inv.Items()...)
	if s.names == nil || !slices.Equal(names, s.nameIndex) {
		slog.Debug("Rebuilding name resolver", "names", len(names))
		s.names = naming.NewResolver(names, s.opts.FuzzyCutoff)
		s.nameIndex = names
	}
	return s.names
}

// resolve must be called with mu held.
func (s *Session) resolve(r *naming.Resolver, text string, notices *[]Notice) (string, error) {
	m, err := r.Resolve(text)
	if err != nil {
		return "", err
	}
	if m.Corrected {
		*notices = append(*notices, Notice{Input: m.Input, Name: m.Name})
	}
	return m.Name, nil
}

// CalculateText parses "Name, Qty; ..." and calculates it.
func (s *Session) CalculateText(ctx context.Context, text string) (*Outcome, error) {
	entries, err := input.ParseRequests(text)
	if err != nil {
		return nil, err
	}
	return s.Calculate(ctx, entries)
}

// Calculate resolves names, runs the batch against the live inventory and
// persists the inventory if anything was committed. Notices are returned
// even when the calculation fails.
func (s *Session) Calculate(ctx context.Context, entries []input.Entry) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &Outcome{}
	r := s.resolver()
	reqs := make([]calculator.Request, 0, len(entries))
	for _, e := range entries {
		name, err := s.resolve(r, e.Name, &out.Notices)
		if err != nil {
			return out, err
		}
		reqs = append(reqs, calculator.Request{Item: name, Quantity: e.Quantity})
	}

	ctx = logger.WithBatchID(ctx, logger.GenerateBatchID())
	calc := calculator.NewCalculator(s.index, s.inv, calculator.WithPolicy(s.opts.Policy))
	res, calcErr := calc.Calculate(ctx, reqs)
	if res == nil {
		return out, calcErr
	}
	out.Result = res
	out.Products = calculator.Classify(res)

	if err := s.store.SaveInventory(ctx, s.inv.Snapshot()); err != nil {
		return out, errors.Join(calcErr, err)
	}
	return out, calcErr
}

// Stock returns a copy of the inventory.
func (s *Session) Stock() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Snapshot()
}

// AddStock adds qty of item to the inventory. The name is taken as typed so
// new materials can be stocked.
func (s *Session) AddStock(ctx context.Context, item string, qty float64) error {
	if item == "" {
		return &calculator.InvalidInputError{Reason: "empty item name"}
	}
	if qty <= 0 {
		return &calculator.InvalidInputError{Item: item, Reason: "quantity must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Add(item, qty)
	return s.store.SaveInventory(ctx, s.inv.Snapshot())
}

// ClearStock removes one item, matched against what is in stock.
func (s *Session) ClearStock(ctx context.Context, item string) (string, []Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notices []Notice
	name, err := s.resolve(naming.NewResolver(s.inv.Items(), s.opts.FuzzyCutoff), item, &notices)
	if err != nil {
		return "", notices, err
	}
	s.inv.Clear(name)
	return name, notices, s.store.SaveInventory(ctx, s.inv.Snapshot())
}

// ClearAllStock empties the inventory.
func (s *Session) ClearAllStock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.ClearAll()
	return s.store.SaveInventory(ctx, s.inv.Snapshot())
}

// Recipes returns the catalog in registration order.
func (s *Session) Recipes() []*calculator.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Recipes()
}

// Items returns every name any recipe mentions, sorted.
func (s *Session) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Items()
}

// BaseItems returns the names no recipe produces, sorted.
func (s *Session) BaseItems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.BaseItems()
}

// AddRecipe appends r to the catalog and persists it.
func (s *Session) AddRecipe(ctx context.Context, r *calculator.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.index.Register(r); err != nil {
		return err
	}
	if err := s.store.SaveRecipes(ctx, data.IndexDefs(s.index)); err != nil {
		// Keep memory and storage in agreement.
		_, _ = s.index.Remove(s.index.Len() - 1)
		return err
	}
	return nil
}

// DeleteRecipe removes the recipe at 1-based position n and persists the
// catalog.
func (s *Session) DeleteRecipe(ctx context.Context, n int) (*calculator.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.index.Remove(n - 1)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRecipes(ctx, data.IndexDefs(s.index)); err != nil {
		return nil, err
	}
	return removed, nil
}

// MaxCraftable resolves item and reports how many more can be crafted from
// stock alone.
func (s *Session) MaxCraftable(item string) (string, int, []Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notices []Notice
	name, err := s.resolve(s.resolver(), item, &notices)
	if err != nil {
		return "", 0, notices, err
	}
	n, err := calculator.NewCalculator(s.index, s.inv).MaxCraftable(name)
	return name, n, notices, err
}

// AllCraftable reports every item that can be crafted from stock alone.
func (s *Session) AllCraftable() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculator.NewCalculator(s.index, s.inv).AllCraftable()
}
