package calculator

// SourceKind tells how a node's requirement was satisfied.
type SourceKind string

const (
	SourceRecipe SourceKind = "recipe" // crafted with Node.Recipe (possibly after a partial stock draw)
	SourceStock  SourceKind = "stock"  // fully drawn from inventory
	SourceBase   SourceKind = "base"   // no recipe exists; the remainder is raw-material demand
	SourceNone   SourceKind = "none"   // zero quantity requested
)

// Node is one element of a crafting tree. Children are owned by their parent
// and there are no back-pointers; ancestry is tracked on the resolve stack.
type Node struct {
	Item      string
	Needed    float64
	Depth     int
	Source    SourceKind
	Recipe    *Recipe // set when Source == SourceRecipe
	FromStock float64 // part of Needed drawn from inventory
	Crafts    int     // recipe invocations
	Produced  float64 // Crafts * output quantity of Item
	Excess    float64 // Produced beyond the remainder, credited to inventory
	Children  []*Node // one per recipe input, in declared order
}

// Remainder is the part of Needed not covered by stock.
func (n *Node) Remainder() float64 {
	r := n.Needed - n.FromStock
	if r < Epsilon {
		return 0
	}
	return r
}

// Walk visits n and its descendants depth-first, preorder.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Totals are the running aggregates of one calculation.
type Totals struct {
	Base         map[string]float64 // raw-material demand
	Byproduct    map[string]float64 // excess and non-primary outputs credited to inventory
	Intermediate map[string]float64 // crafted below a root and consumed by the parent
	Steps        int                // recipe nodes created
}

// NewTotals returns empty totals.
func NewTotals() *Totals {
	return &Totals{
		Base:         make(map[string]float64),
		Byproduct:    make(map[string]float64),
		Intermediate: make(map[string]float64),
	}
}

// BaseSum is the total raw-material quantity across all base items.
func (t *Totals) BaseSum() float64 {
	sum := 0.0
	for _, v := range t.Base {
		sum += v
	}
	return sum
}

// Clone returns a deep copy.
func (t *Totals) Clone() *Totals {
	c := NewTotals()
	c.Merge(t)
	return c
}

// Merge adds other into t.
func (t *Totals) Merge(other *Totals) {
	addAll(t.Base, other.Base)
	addAll(t.Byproduct, other.Byproduct)
	addAll(t.Intermediate, other.Intermediate)
	t.Steps += other.Steps
}

func addAll(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] += v
	}
}
