package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings of the command line tool. Values come from the
// environment, a .env file is loaded first if present. Global flags override
// them.
type Config struct {
	Ledger   string `env:"LEDGER" envDefault:"transactions.jsonl"` // JSONL ledger file
	Database string `env:"DATABASE"`                               // SQLite store, replaces the ledger file when set
	Currency string `env:"CURRENCY" envDefault:"EUR"`              // reporting currency
	CacheDir string `env:"CACHE_DIR"`                              // quotes cache, disabled when empty
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	Pretty   bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// envPrefix is prepended to every variable name.
const envPrefix = "COSTBASIS_"

// LoadConfig reads the configuration from the environment, after loading the
// given .env files (".env" when none).
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load env file: %w", err)
	}
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
