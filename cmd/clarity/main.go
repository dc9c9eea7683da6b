// Command clarity drives the ClarityAI adaptive mode engine from the
// terminal: an interactive repl, a journal inspector, and a transcript
// replay runner.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clarityai/clarity/go-engine/internal/config"
)

// #region root

var (
	flagConfig  string
	flagJournal string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "clarity",
		Short:         "ClarityAI adaptive UI mode engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&flagJournal, "db", "", "path to SQLite audit journal (overrides config)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newReplCmd(), newInspectCmd(), newReplayCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion root

// #region helpers

// loadConfig builds the effective config from flags, file, and env.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagJournal != "" {
		cfg.JournalPath = flagJournal
	}
	return cfg, nil
}

// newLogger builds a console logger honoring --verbose and the config level.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	if flagVerbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// #endregion helpers
