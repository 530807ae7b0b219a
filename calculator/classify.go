package calculator

// Products is the four-bucket breakdown shown to users. A name may appear
// in more than one bucket.
type Products struct {
	Finished     map[string]float64 // requested items
	Intermediate map[string]float64 // crafted below a root and fully consumed by the parent
	Byproduct    map[string]float64 // excess and non-primary outputs
	Base         map[string]float64 // raw-material demand
}

// Classify buckets a finished batch. Finished and base quantities come from
// the trees, byproducts from the credited totals.
func Classify(res *Result) Products {
	p := Products{
		Finished:     make(map[string]float64),
		Intermediate: make(map[string]float64),
		Byproduct:    make(map[string]float64),
		Base:         make(map[string]float64),
	}
	if res == nil {
		return p
	}
	for _, root := range res.Roots {
		if root == nil || root.Source == SourceNone {
			continue
		}
		p.Finished[root.Item] += root.Needed
		root.Walk(func(n *Node) {
			switch n.Source {
			case SourceBase:
				p.Base[n.Item] += n.Remainder()
			case SourceRecipe:
				if n.Depth > 0 {
					p.Intermediate[n.Item] += n.Remainder()
				}
			}
		})
	}
	if res.Totals != nil {
		addAll(p.Byproduct, res.Totals.Byproduct)
	}
	prune(p.Finished)
	prune(p.Intermediate)
	prune(p.Byproduct)
	prune(p.Base)
	return p
}

func prune(m map[string]float64) {
	for k, v := range m {
		if v <= Epsilon {
			delete(m, k)
		}
	}
}
