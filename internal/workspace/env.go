package workspace

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override config.toml values.
const (
	EnvPGConfig  = "PGEXT_PG_CONFIG"
	EnvPGData    = "PGEXT_PG_DATA"
	EnvPGContrib = "PGEXT_PG_CONTRIB"
	EnvDatabase  = "PGEXT_DATABASE"
)

// LoadEnv loads KEY=VALUE files into the process environment. Variables
// already set win. Missing files are skipped; an empty list tries ".env".
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv returns cfg with PGEXT_* overrides applied.
func ApplyEnv(cfg Config) Config {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&cfg.PGConfig, EnvPGConfig)
	override(&cfg.PGData, EnvPGData)
	override(&cfg.PGContrib, EnvPGContrib)
	override(&cfg.Database, EnvDatabase)
	return cfg
}
