package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPPER_BACKEND_URL", "")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend.URL != "http://127.0.0.1:5000" {
		t.Errorf("Backend.URL = %q, want default", cfg.Backend.URL)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0 (none)", cfg.Timeout())
	}
	if cfg.HintDelay() != 1200*time.Millisecond {
		t.Errorf("HintDelay() = %v, want 1.2s", cfg.HintDelay())
	}
	if cfg.DBPath() != filepath.Join(dir, "shopper.db") {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPPER_BACKEND_URL", "")
	t.Setenv("SHOPPER_LOCALE", "")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cfg.Backend.URL = "http://shop.internal:8080"
	cfg.UI.Locale = "de-DE"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config.json mode = %v, want 0600", info.Mode().Perm())
	}

	again, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Backend.URL != "http://shop.internal:8080" || again.UI.Locale != "de-DE" {
		t.Errorf("reloaded = %+v", again)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPPER_BACKEND_URL", "http://env:9000")
	t.Setenv("SHOPPER_TIMEOUT_MS", "2500")
	t.Setenv("SHOPPER_HINT_DELAY_MS", "abc")
	t.Setenv("SHOPPER_ALT_SCREEN", "false")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend.URL != "http://env:9000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Timeout() != 2500*time.Millisecond {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.UI.HintDelayMs != 1200 {
		t.Errorf("non-numeric override should keep default, got %d", cfg.UI.HintDelayMs)
	}
	if cfg.UI.AltScreen {
		t.Error("SHOPPER_ALT_SCREEN=false should disable alt screen")
	}
}

func TestBrokenConfigIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "SHOPPER_TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "SHOPPER_TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "SHOPPER_TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)
			if got := getEnvAsIntOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}
