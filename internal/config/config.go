// Package config loads engine configuration.
// Precedence, lowest to highest: built-in defaults, YAML config file,
// CLARITY_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// #region config-struct

// Config holds every tunable of the adaptive mode engine.
type Config struct {
	// IntentThreshold: classifier confidence must exceed this to transition.
	IntentThreshold float64 `yaml:"intent_threshold"`
	// PredictionThreshold: predictor confidence must exceed this to transition.
	PredictionThreshold float64 `yaml:"prediction_threshold"`
	// MinTimeInModeMs: predictions may not fire before this dwell time.
	MinTimeInModeMs int64 `yaml:"min_time_in_mode_ms"`
	// TransitionLogCap bounds the in-memory transition ring per session.
	TransitionLogCap int `yaml:"transition_log_cap"`
	// CommandQueueCap bounds the pending command queue per session.
	CommandQueueCap int `yaml:"command_queue_cap"`
	// JournalPath is the SQLite audit journal path. Empty disables journaling.
	JournalPath string `yaml:"journal_path"`
	// LogLevel: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

// #endregion config-struct

// #region defaults

// Default returns the reference configuration.
func Default() Config {
	return Config{
		IntentThreshold:     0.4,
		PredictionThreshold: 0.6,
		MinTimeInModeMs:     10_000,
		TransitionLogCap:    256,
		CommandQueueCap:     64,
		LogLevel:            "info",
	}
}

// #endregion defaults

// #region load

// Load builds a Config from defaults, an optional YAML file, and the
// environment. path == "" skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion load

// #region env

func (c *Config) applyEnv() error {
	if v := os.Getenv("CLARITY_INTENT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CLARITY_INTENT_THRESHOLD: %w", err)
		}
		c.IntentThreshold = f
	}
	if v := os.Getenv("CLARITY_PREDICTION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CLARITY_PREDICTION_THRESHOLD: %w", err)
		}
		c.PredictionThreshold = f
	}
	if v := os.Getenv("CLARITY_MIN_TIME_IN_MODE_MS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CLARITY_MIN_TIME_IN_MODE_MS: %w", err)
		}
		c.MinTimeInModeMs = n
	}
	if v := os.Getenv("CLARITY_JOURNAL_PATH"); v != "" {
		c.JournalPath = v
	}
	if v := os.Getenv("CLARITY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// #endregion env
