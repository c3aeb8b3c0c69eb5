// Package workspace manages the pgext work directory: the config.toml that
// points at a server installation and edits to that server's
// postgresql.conf.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DirName is the work directory created under the project root.
	DirName = "pgextworkdir"
	// ConfigFile is the config file name inside DirName.
	ConfigFile = "config.toml"
	// PGConfFile is the server config file inside the data directory.
	PGConfFile = "postgresql.conf"
)

// ErrNotInitialized is returned when no workspace config exists.
var ErrNotInitialized = errors.New("cannot find workspace config, did you run init?")

// Config is the persisted workspace configuration.
type Config struct {
	PGConfig  string `toml:"pg_config"`
	PGData    string `toml:"pg_data"`
	PGContrib string `toml:"pg_contrib"`
	Database  string `toml:"database,omitempty"`
}

// ParseError reports a malformed config file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PGConfPath returns the postgresql.conf inside the data directory.
func (c Config) PGConfPath() string {
	return filepath.Join(c.PGData, PGConfFile)
}

// Validate checks that the configured paths exist.
func (c Config) Validate() error {
	if _, err := os.Stat(c.PGConfPath()); err != nil {
		return fmt.Errorf("%s does not exist in data directory %s", PGConfFile, c.PGData)
	}
	if _, err := os.Stat(c.PGConfig); err != nil {
		return fmt.Errorf("pg_config %s does not exist", c.PGConfig)
	}
	return nil
}

// Path returns the config.toml path for a project root.
func Path(root string) string {
	return filepath.Join(root, DirName, ConfigFile)
}

// Init validates cfg and writes it under root, creating the work directory.
func Init(root string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(root, DirName), 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	return Save(root, cfg)
}

// Save writes cfg to root's config.toml.
func Save(root string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads root's config.toml.
func Load(root string) (Config, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, ErrNotInitialized
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}
