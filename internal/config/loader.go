package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "QUILL_"

// Load reads configuration from a TOML file, applies environment
// overrides, and normalizes the result. A missing file is not an error:
// defaults (plus env) are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	applyEnv(cfg, os.Getenv)
	cfg.Normalize()
	return cfg, nil
}

// Parse reads configuration from raw TOML, without env overrides.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: "<data>", Err: err}
	}
	cfg.Normalize()
	return cfg, nil
}

// ParseError wraps a TOML decode failure with its source path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// applyEnv overlays QUILL_* environment variables onto cfg. Unknown or
// malformed values are ignored; env overrides must never break startup.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := getenv(EnvPrefix + "LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if n, ok := envInt(getenv, "TAB_WIDTH"); ok {
		cfg.Editor.TabWidth = n
	}
	if n, ok := envInt(getenv, "GROUP_TIMEOUT_MS"); ok {
		cfg.History.GroupTimeoutMS = n
	}
	if n, ok := envInt(getenv, "MAX_UNDO_GROUPS"); ok {
		cfg.History.MaxGroups = n
	}
	if n, ok := envInt(getenv, "IDLE_FINALIZE_MS"); ok {
		cfg.Editor.IdleFinalizeMS = n
	}
}

func envInt(getenv func(string) string, key string) (int, bool) {
	v := getenv(EnvPrefix + key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
