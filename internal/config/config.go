package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configurable jutsu settings. Detection thresholds here
// override the catalog file's own settings block when set.
type Config struct {
	CatalogPath         string   `json:"catalog_path"`           // path to jutsus.json; empty = built-in catalog
	ConfidenceThreshold *float64 `json:"confidence_threshold"`   // nil = catalog value
	GestureHoldTimeMS   *int64   `json:"gesture_hold_time_ms"`   // nil = catalog value
	ResetOnInvalid      *bool    `json:"reset_on_invalid"`       // nil = catalog value
	DefaultTimeWindowMS *int64   `json:"default_time_window_ms"` // nil = catalog value
	DefaultFormat       string   `json:"default_format"`         // "markdown" | "json"
	EffectCooldownMS    int64    `json:"effect_cooldown_ms"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		DefaultFormat:    "markdown",
		EffectCooldownMS: 3000,
	}
}

// EffectCooldown returns the effect retrigger cooldown as a duration.
func (c Config) EffectCooldown() time.Duration {
	return time.Duration(c.EffectCooldownMS) * time.Millisecond
}

// LoadGlobal reads ~/.config/jutsu/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "jutsu", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .jutsurc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".jutsurc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.CatalogPath != "" {
			result.CatalogPath = c.CatalogPath
		}
		if c.ConfidenceThreshold != nil {
			result.ConfidenceThreshold = c.ConfidenceThreshold
		}
		if c.GestureHoldTimeMS != nil {
			result.GestureHoldTimeMS = c.GestureHoldTimeMS
		}
		if c.ResetOnInvalid != nil {
			result.ResetOnInvalid = c.ResetOnInvalid
		}
		if c.DefaultTimeWindowMS != nil {
			result.DefaultTimeWindowMS = c.DefaultTimeWindowMS
		}
		if c.DefaultFormat != "" {
			result.DefaultFormat = c.DefaultFormat
		}
		if c.EffectCooldownMS > 0 {
			result.EffectCooldownMS = c.EffectCooldownMS
		}
	}

	// Apply global values over defaults, then project values over global.
	apply(global)
	apply(project)

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
