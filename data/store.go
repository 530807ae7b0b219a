// craftcalc/data/store.go
package data

import "context"

// Store persists the recipe catalog and the inventory between sessions.
type Store interface {
	LoadRecipes(ctx context.Context) ([]RecipeDef, error)
	SaveRecipes(ctx context.Context, defs []RecipeDef) error
	LoadInventory(ctx context.Context) (map[string]float64, error)
	SaveInventory(ctx context.Context, stock map[string]float64) error
	Close() error
}

// FileStore keeps the catalog and inventory in two JSON files.
type FileStore struct {
	RecipesPath   string
	InventoryPath string
}

// NewFileStore returns a store over the given files. Neither needs to exist.
func NewFileStore(recipesPath, inventoryPath string) *FileStore {
	return &FileStore{RecipesPath: recipesPath, InventoryPath: inventoryPath}
}

func (s *FileStore) LoadRecipes(ctx context.Context) ([]RecipeDef, error) {
	return LoadRecipeFile(s.RecipesPath)
}

func (s *FileStore) SaveRecipes(ctx context.Context, defs []RecipeDef) error {
	return SaveRecipeFile(s.RecipesPath, defs)
}

func (s *FileStore) LoadInventory(ctx context.Context) (map[string]float64, error) {
	return LoadInventoryFile(s.InventoryPath)
}

func (s *FileStore) SaveInventory(ctx context.Context, stock map[string]float64) error {
	return SaveInventoryFile(s.InventoryPath, stock)
}

func (s *FileStore) Close() error { return nil }
