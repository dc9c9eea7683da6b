package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.IntentThreshold != 0.4 {
		t.Fatalf("IntentThreshold = %f, want 0.4", cfg.IntentThreshold)
	}
	if cfg.PredictionThreshold != 0.6 {
		t.Fatalf("PredictionThreshold = %f, want 0.6", cfg.PredictionThreshold)
	}
	if cfg.MinTimeInModeMs != 10_000 {
		t.Fatalf("MinTimeInModeMs = %d, want 10000", cfg.MinTimeInModeMs)
	}
	if cfg.JournalPath != "" {
		t.Fatal("journaling must default to disabled")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clarity.yaml")
	body := "intent_threshold: 0.55\njournal_path: /tmp/clarity.db\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IntentThreshold != 0.55 {
		t.Fatalf("IntentThreshold = %f, want 0.55 (file)", cfg.IntentThreshold)
	}
	if cfg.JournalPath != "/tmp/clarity.db" {
		t.Fatalf("JournalPath = %q", cfg.JournalPath)
	}
	// Untouched keys keep defaults.
	if cfg.PredictionThreshold != 0.6 {
		t.Fatalf("PredictionThreshold = %f, want default 0.6", cfg.PredictionThreshold)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clarity.yaml")
	if err := os.WriteFile(path, []byte("intent_threshold: 0.55\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLARITY_INTENT_THRESHOLD", "0.7")
	t.Setenv("CLARITY_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IntentThreshold != 0.7 {
		t.Fatalf("IntentThreshold = %f, want env 0.7", cfg.IntentThreshold)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	t.Setenv("CLARITY_PREDICTION_THRESHOLD", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad env value")
	}
}
