// Package naming maps free-text item names typed by a user to the canonical
// names known to the catalog and inventory.
package naming

import (
	"sort"
	"strings"
	"unicode/utf8"

	"craftcalc/calculator"

	"github.com/agnivade/levenshtein"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCutoff is the minimum similarity a fuzzy suggestion needs.
const DefaultCutoff = 0.6

// maxSuggestions is how many fuzzy candidates are kept.
const maxSuggestions = 3

const memoSize = 256

// Match is the outcome of resolving one name.
type Match struct {
	Input       string
	Name        string   // canonical name
	Corrected   bool     // Name differs from Input
	Suggestions []string // fuzzy candidates, best first; Suggestions[0] == Name when fuzzy
}

// Resolver matches text against a fixed set of known names: exact, then
// case-insensitive, then by edit-distance similarity.
type Resolver struct {
	names   map[string]bool
	byLower map[string]string
	sorted  []string
	cutoff  float64
	memo    *expirable.LRU[string, []string]
}

// NewResolver builds a resolver over names. A cutoff outside (0, 1] falls
// back to DefaultCutoff.
func NewResolver(names []string, cutoff float64) *Resolver {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	r := &Resolver{
		names:   make(map[string]bool, len(names)),
		byLower: make(map[string]string, len(names)),
		cutoff:  cutoff,
		memo:    expirable.NewLRU[string, []string](memoSize, nil, 0),
	}
	for _, n := range names {
		if n == "" || r.names[n] {
			continue
		}
		r.names[n] = true
		r.sorted = append(r.sorted, n)
	}
	sort.Strings(r.sorted)
	// First name in sorted order wins a case-insensitive collision.
	for _, n := range r.sorted {
		low := strings.ToLower(n)
		if _, ok := r.byLower[low]; !ok {
			r.byLower[low] = n
		}
	}
	return r
}

// Names returns the known names, sorted.
func (r *Resolver) Names() []string {
	return append([]string(nil), r.sorted...)
}

// Resolve maps text to a known name. It returns *calculator.ItemNotFoundError
// when nothing is close enough.
func (r *Resolver) Resolve(text string) (Match, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Match{}, &calculator.InvalidInputError{Reason: "empty item name"}
	}
	if r.names[text] {
		return Match{Input: text, Name: text}, nil
	}
	if name, ok := r.byLower[strings.ToLower(text)]; ok {
		return Match{Input: text, Name: name, Corrected: true, Suggestions: []string{name}}, nil
	}
	sugg := r.Suggest(text)
	if len(sugg) == 0 {
		return Match{}, &calculator.ItemNotFoundError{Item: text}
	}
	return Match{Input: text, Name: sugg[0], Corrected: true, Suggestions: sugg}, nil
}

// Suggest returns up to three known names whose similarity to text is at
// least the cutoff, best first. Equal scores are ordered by name.
func (r *Resolver) Suggest(text string) []string {
	key := strings.ToLower(strings.TrimSpace(text))
	if cached, ok := r.memo.Get(key); ok {
		return append([]string(nil), cached...)
	}

	type scored struct {
		name  string
		score float64
	}
	var cands []scored
	for _, n := range r.sorted {
		s := Similarity(key, strings.ToLower(n))
		if s >= r.cutoff {
			cands = append(cands, scored{name: n, score: s})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})
	if len(cands) > maxSuggestions {
		cands = cands[:maxSuggestions]
	}
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.name)
	}
	r.memo.Add(key, out)
	return append([]string(nil), out...)
}

// Similarity is 1 - distance/longer length, in [0, 1].
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
