package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.UI.LastTempo != 120 {
		t.Errorf("got tempo %d, want 120", cfg.UI.LastTempo)
	}
	if cfg.OutputPort != "" {
		t.Errorf("got output port %q, want empty", cfg.OutputPort)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil || cfg.UI.LastTempo != 120 {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"outputPort": "Synth Out 1",
		"ui": {
			"lastTempo": 96,
			"lastSong": "demo"
		}
	}`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.OutputPort != "Synth Out 1" {
		t.Errorf("got port %q, want 'Synth Out 1'", cfg.OutputPort)
	}
	if cfg.UI.LastTempo != 96 {
		t.Errorf("got tempo %d, want 96", cfg.UI.LastTempo)
	}
	if cfg.UI.LastSong != "demo" {
		t.Errorf("got song %q, want 'demo'", cfg.UI.LastSong)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error on invalid JSON")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	cfg.OutputPort = "IAC Bus 1"
	cfg.UI.LastSong = "take-3"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.OutputPort != "IAC Bus 1" || loaded.UI.LastSong != "take-3" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
