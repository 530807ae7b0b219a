// craftcalc/data/data_test.go
package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"craftcalc/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB is the live MySQL store, set only when CRAFTCALC_TEST_MYSQL_DSN is.
var testDB *MySQLStore

func TestMain(m *testing.M) {
	if dsn := os.Getenv("CRAFTCALC_TEST_MYSQL_DSN"); dsn != "" {
		store, err := OpenMySQL(context.Background(), dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize DB: %v\n", err)
			os.Exit(1)
		}
		testDB = store
	}
	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

const catalogJSON = `[
  {"inputs": {"Wood": 2, "Stone": 1}, "outputs": {"Advanced Tool": 1}},
  {"inputs": {"Mana Crystal": 3}, "outputs": {"Mana Dust": 2, "Liquid Curse": 1, "Silica Powder": 1}}
]`

func TestDecodeRecipes_KeepsKeyOrder(t *testing.T) {
	defs, err := DecodeRecipes(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, []ItemQty{{"Wood", 2}, {"Stone", 1}}, defs[0].Inputs)
	assert.Equal(t, []ItemQty{{"Mana Dust", 2}, {"Liquid Curse", 1}, {"Silica Powder", 1}}, defs[1].Outputs)
}

func TestDecodeRecipes_Invalid(t *testing.T) {
	cases := map[string]string{
		"no outputs":     `[{"inputs": {"Wood": 1}, "outputs": {}}]`,
		"zero quantity":  `[{"inputs": {"Wood": 0}, "outputs": {"Plank": 1}}]`,
		"negative":       `[{"inputs": {"Wood": 1}, "outputs": {"Plank": -2}}]`,
		"empty name":     `[{"inputs": {"": 1}, "outputs": {"Plank": 1}}]`,
		"duplicate name": `[{"inputs": {"Wood": 1, "Wood": 2}, "outputs": {"Plank": 1}}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecipes(strings.NewReader(src))
			require.Error(t, err)
			assert.ErrorIs(t, err, calculator.ErrInvalidRecipe)
			assert.Contains(t, err.Error(), "recipe #1")
		})
	}

	_, err := DecodeRecipes(strings.NewReader(`{"not": "a list"}`))
	assert.Error(t, err)
}

func TestRecipeFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")

	defs, err := LoadRecipeFile(path)
	require.NoError(t, err)
	assert.Empty(t, defs)

	want, err := DecodeRecipes(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	require.NoError(t, SaveRecipeFile(path, want))

	got, err := LoadRecipeFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(raw), "Wood"), strings.Index(string(raw), "Stone"))
}

func TestBuildIndex(t *testing.T) {
	defs, err := DecodeRecipes(strings.NewReader(catalogJSON))
	require.NoError(t, err)

	idx, err := BuildIndex(defs)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.False(t, idx.IsBase("Silica Powder"))
	assert.True(t, idx.IsBase("Wood"))
	assert.Equal(t, defs, IndexDefs(idx))
}

func TestInventoryFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	stock, err := LoadInventoryFile(path)
	require.NoError(t, err)
	assert.Empty(t, stock)

	require.NoError(t, SaveInventoryFile(path, map[string]float64{"Wood": 3, "Stone": 0.5}))
	stock, err = LoadInventoryFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Wood": 3, "Stone": 0.5}, stock)

	require.NoError(t, os.WriteFile(path, []byte(`{"Wood": -1, "Gem": 2}`), 0o644))
	stock, err = LoadInventoryFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Gem": 2}, stock)

	require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0o644))
	_, err = LoadInventoryFile(path)
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	var store Store = NewFileStore(filepath.Join(dir, "recipes.json"), filepath.Join(dir, "inventory.json"))
	defer store.Close()
	ctx := context.Background()

	defs := []RecipeDef{{
		Inputs:  []ItemQty{{"Log", 1}},
		Outputs: []ItemQty{{"Planks", 4}},
	}}
	require.NoError(t, store.SaveRecipes(ctx, defs))
	require.NoError(t, store.SaveInventory(ctx, map[string]float64{"Log": 2}))

	gotDefs, err := store.LoadRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, defs, gotDefs)

	stock, err := store.LoadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Log": 2}, stock)
}

func TestMySQLStore(t *testing.T) {
	if testDB == nil {
		t.Skip("CRAFTCALC_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()

	defs, err := DecodeRecipes(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	require.NoError(t, testDB.SaveRecipes(ctx, defs))

	// Bypass the cache to read what was written.
	fresh := &MySQLStore{db: testDB.db}
	got, err := fresh.LoadRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, defs, got)

	require.NoError(t, testDB.SaveInventory(ctx, map[string]float64{"Wood": 4, "Stone": 1.25}))
	stock, err := testDB.LoadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Wood": 4, "Stone": 1.25}, stock)
}
