package naming

import (
	"testing"

	"craftcalc/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var names = []string{"Mana Crystal", "Mana Dust", "Pure Mana Gem", "Weak Mana Gem", "Rich Air", "Stick"}

func TestResolve_Exact(t *testing.T) {
	r := NewResolver(names, DefaultCutoff)

	m, err := r.Resolve("  Mana Dust ")
	require.NoError(t, err)
	assert.Equal(t, "Mana Dust", m.Name)
	assert.False(t, m.Corrected)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := NewResolver(names, DefaultCutoff)

	m, err := r.Resolve("rich air")
	require.NoError(t, err)
	assert.Equal(t, "Rich Air", m.Name)
	assert.True(t, m.Corrected)
}

func TestResolve_Fuzzy(t *testing.T) {
	r := NewResolver(names, DefaultCutoff)

	m, err := r.Resolve("Mana rystal")
	require.NoError(t, err)
	assert.Equal(t, "Mana Crystal", m.Name)
	assert.True(t, m.Corrected)
	assert.Equal(t, "Mana rystal", m.Input)
	assert.LessOrEqual(t, len(m.Suggestions), 3)

	// Second lookup is served from the memo and must agree.
	again, err := r.Resolve("Mana rystal")
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(names, DefaultCutoff)

	_, err := r.Resolve("Dragon Scale")
	require.Error(t, err)
	assert.ErrorIs(t, err, calculator.ErrItemNotFound)
	assert.Equal(t, "item 'Dragon Scale' not found, and no close matches found", err.Error())

	_, err = r.Resolve("   ")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestSuggest_RankAndLimit(t *testing.T) {
	r := NewResolver([]string{"Gem A", "Gem B", "Gem C", "Gem D"}, 0.5)

	got := r.Suggest("Gem")
	assert.Equal(t, []string{"Gem A", "Gem B", "Gem C"}, got)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("abcd", "abce"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}
