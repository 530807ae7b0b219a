// craftcalc/data/db.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id       INT AUTO_INCREMENT PRIMARY KEY,
	position INT NOT NULL
);
CREATE TABLE IF NOT EXISTS recipe_items (
	recipe_id INT NOT NULL,
	side      ENUM('input', 'output') NOT NULL,
	position  INT NOT NULL,
	item      VARCHAR(255) NOT NULL,
	quantity  DOUBLE NOT NULL,
	PRIMARY KEY (recipe_id, side, position),
	FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS inventory (
	item     VARCHAR(255) PRIMARY KEY,
	quantity DOUBLE NOT NULL
);`

// MySQLStore keeps the catalog and inventory in MySQL. The catalog is cached
// after the first load and the cache is replaced on every save.
type MySQLStore struct {
	db *sql.DB

	cacheLock sync.RWMutex
	cache     []RecipeDef
	cached    bool
}

// OpenMySQL opens a connection using dsn, pings it and creates the tables
// if they do not exist. dsn must allow multi statements.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening MySQL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot ping MySQL: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error { return s.db.Close() }

// LoadRecipes returns the catalog in stored position order.
func (s *MySQLStore) LoadRecipes(ctx context.Context) ([]RecipeDef, error) {
	s.cacheLock.RLock()
	if s.cached {
		defs := cloneDefs(s.cache)
		s.cacheLock.RUnlock()
		return defs, nil
	}
	s.cacheLock.RUnlock()

	query := `
		SELECT r.id, i.side, i.item, i.quantity
		FROM recipes r
		JOIN recipe_items i ON i.recipe_id = r.id
		ORDER BY r.position, r.id, i.side, i.position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var defs []RecipeDef
	lastID := -1
	for rows.Next() {
		var (
			id   int
			side string
			e    ItemQty
		)
		if err := rows.Scan(&id, &side, &e.Item, &e.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if id != lastID {
			defs = append(defs, RecipeDef{})
			lastID = id
		}
		d := &defs[len(defs)-1]
		if side == "input" {
			d.Inputs = append(d.Inputs, e)
		} else {
			d.Outputs = append(d.Outputs, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}
	for n, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", n+1, err)
		}
	}

	s.cacheLock.Lock()
	s.cache = cloneDefs(defs)
	s.cached = true
	s.cacheLock.Unlock()
	return defs, nil
}

// SaveRecipes replaces the whole catalog in one transaction.
func (s *MySQLStore) SaveRecipes(ctx context.Context, defs []RecipeDef) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
			return err
		}
		for pos, d := range defs {
			res, err := tx.ExecContext(ctx, `INSERT INTO recipes (position) VALUES (?)`, pos)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if err := insertItems(ctx, tx, id, "input", d.Inputs); err != nil {
				return err
			}
			if err := insertItems(ctx, tx, id, "output", d.Outputs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}

	s.cacheLock.Lock()
	s.cache = cloneDefs(defs)
	s.cached = true
	s.cacheLock.Unlock()
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, id int64, side string, list []ItemQty) error {
	for pos, e := range list {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_items (recipe_id, side, position, item, quantity) VALUES (?, ?, ?, ?, ?)`,
			id, side, pos, e.Item, e.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadInventory returns every stored quantity above zero.
func (s *MySQLStore) LoadInventory(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item, quantity FROM inventory WHERE quantity > 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	stock := make(map[string]float64)
	for rows.Next() {
		var item string
		var qty float64
		if err := rows.Scan(&item, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		stock[item] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return stock, nil
}

// SaveInventory replaces the stored inventory in one transaction.
func (s *MySQLStore) SaveInventory(ctx context.Context, stock map[string]float64) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
			return err
		}
		for item, qty := range stock {
			if qty <= 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO inventory (item, quantity) VALUES (?, ?)`, item, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

func (s *MySQLStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("Error rolling back transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func cloneDefs(defs []RecipeDef) []RecipeDef {
	out := make([]RecipeDef, len(defs))
	for n, d := range defs {
		out[n] = RecipeDef{
			Inputs:  append([]ItemQty(nil), d.Inputs...),
			Outputs: append([]ItemQty(nil), d.Outputs...),
		}
	}
	return out
}
