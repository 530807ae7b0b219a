// Package config loads application settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMySQL = "mysql"
)

// Config holds the application configuration
type Config struct {
	RecipesPath   string  `validate:"required"`
	InventoryPath string  `validate:"required"`
	Store         string  `validate:"oneof=file mysql"`
	DBUser        string  `validate:"required_if=Store mysql"`
	DBPassword    string  `validate:"omitempty"`
	DBHost        string  `validate:"required_if=Store mysql"`
	DBPort        string  `validate:"omitempty,numeric"`
	DBName        string  `validate:"required_if=Store mysql"`
	LogLevel      string  `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat     string  `validate:"oneof=text json"`
	Environment   string  `validate:"required"`
	FuzzyCutoff   float64 `validate:"gt=0,lte=1"`
	BatchPolicy   string  `validate:"oneof=atomic per-item"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		RecipesPath:   getEnv("CRAFTCALC_RECIPES_PATH", "recipes.json"),
		InventoryPath: getEnv("CRAFTCALC_INVENTORY_PATH", "inventory.json"),
		Store:         getEnv("CRAFTCALC_STORE", StoreFile),
		DBUser:        getEnv("DB_USER", "craftcalc"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "craftcalc"),
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		Environment:   getEnv("ENVIRONMENT", "dev"),
		BatchPolicy:   getEnv("CRAFTCALC_BATCH_POLICY", "atomic"),
	}

	cutoffStr := getEnv("CRAFTCALC_FUZZY_CUTOFF", "0.6")
	cutoff, err := strconv.ParseFloat(cutoffStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CRAFTCALC_FUZZY_CUTOFF value: %w", err)
	}
	cfg.FuzzyCutoff = cutoff

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// MySQLDSN returns the go-sql-driver connection string. Multi statements are
// enabled so the schema can be created in one call.
func (c *Config) MySQLDSN() string {
	m := mysql.NewConfig()
	m.User = c.DBUser
	m.Passwd = c.DBPassword
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	m.DBName = c.DBName
	m.ParseTime = true
	m.MultiStatements = true
	m.Params = map[string]string{"charset": "utf8mb4"}
	return m.FormatDSN()
}
