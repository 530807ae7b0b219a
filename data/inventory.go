// craftcalc/data/inventory.go
package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LoadInventoryFile reads a name -> quantity object. A missing file is an
// empty inventory. Non-positive quantities are dropped.
func LoadInventoryFile(path string) (map[string]float64, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return map[string]float64{}, nil
	}
	stock := make(map[string]float64)
	if err := json.Unmarshal(b, &stock); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	for item, qty := range stock {
		if qty <= 0 {
			delete(stock, item)
		}
	}
	return stock, nil
}

// SaveInventoryFile writes stock as an indented JSON object with sorted keys.
func SaveInventoryFile(path string, stock map[string]float64) error {
	if stock == nil {
		stock = map[string]float64{}
	}
	b, err := json.MarshalIndent(stock, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	return writeFile(path, append(b, '\n'))
}
