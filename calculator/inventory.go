package calculator

import "sort"

// Inventory is the stock of already-available items. An absent key means
// zero; stored quantities are never negative. It is not safe for concurrent
// use: one calculation owns it at a time.
type Inventory struct {
	stock map[string]float64
}

// NewInventory builds an inventory from persisted quantities. Non-positive
// entries are ignored.
func NewInventory(initial map[string]float64) *Inventory {
	inv := &Inventory{stock: make(map[string]float64, len(initial))}
	for item, qty := range initial {
		inv.Add(item, qty)
	}
	return inv
}

// Available returns the quantity in stock for item.
func (inv *Inventory) Available(item string) float64 {
	return inv.stock[item]
}

// Consume removes up to amount of item and returns how much was actually
// taken, which is min(amount, available).
func (inv *Inventory) Consume(item string, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	have := inv.stock[item]
	taken := amount
	if have < taken {
		taken = have
	}
	if taken <= 0 {
		return 0
	}
	left := have - taken
	if left <= Epsilon {
		delete(inv.stock, item)
	} else {
		inv.stock[item] = left
	}
	return taken
}

// Add increases the stock of item. Non-positive amounts are a no-op.
func (inv *Inventory) Add(item string, amount float64) {
	if amount <= Epsilon || item == "" {
		return
	}
	inv.stock[item] += amount
}

// Clear removes item from stock.
func (inv *Inventory) Clear(item string) {
	delete(inv.stock, item)
}

// ClearAll empties the inventory.
func (inv *Inventory) ClearAll() {
	inv.stock = make(map[string]float64)
}

// Snapshot returns a copy of the stock map, safe to persist or to Restore.
func (inv *Inventory) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(inv.stock))
	for item, qty := range inv.stock {
		out[item] = qty
	}
	return out
}

// Restore replaces the whole stock with snap.
func (inv *Inventory) Restore(snap map[string]float64) {
	inv.stock = make(map[string]float64, len(snap))
	for item, qty := range snap {
		if qty > Epsilon {
			inv.stock[item] = qty
		}
	}
}

// Clone returns an independent copy. Route scoring resolves against clones
// so a losing candidate never touches the live stock.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{stock: inv.Snapshot()}
}

// Items returns the names in stock, sorted.
func (inv *Inventory) Items() []string {
	names := make([]string, 0, len(inv.stock))
	for item := range inv.stock {
		names = append(names, item)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct items in stock.
func (inv *Inventory) Len() int { return len(inv.stock) }
