// Package config loads ytl settings from JSONC files and command line overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// AppName names the XDG subdirectories used for data and config
const AppName = "ytl"

// DefaultDeadlineDays is the window used when listing upcoming deadlines
const DefaultDeadlineDays = 7

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDBPathEmpty        = errors.New("db_path cannot be empty")
	ErrDeadlineDays       = errors.New("deadline_days cannot be negative")
	ErrNoHome             = errors.New("cannot determine home directory (set HOME or XDG_DATA_HOME)")
)

// Config holds all configuration options.
type Config struct {
	DBPath       string `json:"db_path"`
	DeadlineDays int    `json:"deadline_days"`
	Plain        bool   `json:"plain"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global   string // Path to global config if loaded, empty otherwise
	Explicit string // Path to --config file if given
}

// fileConfig mirrors Config with pointers so absent keys can be told apart
// from keys explicitly set to their zero value.
type fileConfig struct {
	DBPath       *string `json:"db_path"`
	DeadlineDays *int    `json:"deadline_days"`
	Plain        *bool   `json:"plain"`
}

// Overrides are values given on the command line. Zero values mean "not set".
type Overrides struct {
	DBPath string
	Plain  bool
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	ConfigPath string            // --config flag value
	Overrides  Overrides         // remaining CLI flags
	Env        map[string]string // environment variables
}

// DefaultDBPath returns $XDG_DATA_HOME/ytl/ytl.db, falling back to
// ~/.local/share/ytl/ytl.db.
func DefaultDBPath(env map[string]string) (string, error) {
	dataDir := env["XDG_DATA_HOME"]
	if dataDir == "" {
		home := env["HOME"]
		if home == "" {
			return "", ErrNoHome
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName, AppName+".db"), nil
}

// GlobalPath returns $XDG_CONFIG_HOME/ytl/config.json or ~/.config/ytl/config.json.
// Returns "" when neither variable is set.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, AppName, "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", AppName, "config.json")
	}
	return ""
}

// Load builds the effective configuration. Precedence, highest wins:
// 1. Defaults
// 2. Global user config (if it exists)
// 3. Explicit config file (must exist)
// 4. CLI overrides
func Load(in LoadInput) (Config, error) {
	cfg := Config{DeadlineDays: DefaultDeadlineDays}

	if globalPath := GlobalPath(in.Env); globalPath != "" {
		fc, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = merge(cfg, fc)
			cfg.Sources.Global = globalPath
		}
	}

	if in.ConfigPath != "" {
		fc, _, err := loadFile(in.ConfigPath, true)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fc)
		cfg.Sources.Explicit = in.ConfigPath
	}

	if in.Overrides.DBPath != "" {
		cfg.DBPath = in.Overrides.DBPath
	}
	if in.Overrides.Plain {
		cfg.Plain = true
	}

	if cfg.DBPath == "" {
		path, err := DefaultDBPath(in.Env)
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}

	cfg.DBPath = expandHome(cfg.DBPath, in.Env)

	return cfg, nil
}

// loadFile reads and parses one JSONC file. If mustExist is false, a missing
// file is not an error and loaded is false.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return fileConfig{}, false, nil
		}
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if fc.DBPath != nil && strings.TrimSpace(*fc.DBPath) == "" {
		return fileConfig{}, ErrDBPathEmpty
	}
	if fc.DeadlineDays != nil && *fc.DeadlineDays < 0 {
		return fileConfig{}, ErrDeadlineDays
	}
	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.DBPath != nil {
		base.DBPath = *overlay.DBPath
	}
	if overlay.DeadlineDays != nil {
		base.DeadlineDays = *overlay.DeadlineDays
	}
	if overlay.Plain != nil {
		base.Plain = *overlay.Plain
	}
	return base
}

func expandHome(path string, env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}

// Write stores cfg as indented JSON at path, replacing any existing file atomically.
func Write(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
