package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServerURL != "http://127.0.0.1:5000" {
		t.Errorf("Expected default server URL, got '%s'", cfg.ServerURL)
	}
	if cfg.TypingDelay() != 500*time.Millisecond {
		t.Errorf("Expected 500ms typing delay, got %v", cfg.TypingDelay())
	}
	if cfg.Timeout() != 300*time.Second {
		t.Errorf("Expected 300s timeout, got %v", cfg.Timeout())
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Expected dark markdown style, got %s", cfg.Markdown.Style)
	}
}

func TestDurationsDisabledWhenZero(t *testing.T) {
	cfg := Config{TypingDelayMs: 0, RequestTimeout: -1}
	if cfg.TypingDelay() != 0 {
		t.Error("Expected zero typing delay")
	}
	if cfg.Timeout() != 0 {
		t.Error("Expected zero timeout")
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if path != filepath.Join(home, ".faqchat", "config.json") {
		t.Errorf("GetConfigPath() = %s", path)
	}

	logPath, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if filepath.Base(logPath) != "faqchat.log" {
		t.Errorf("GetLogPath() = %s", logPath)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("Expected defaults when no config file exists")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.ServerURL = "http://example.test:8080"
	cfg.TypingDelayMs = 0

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.ServerURL != "http://example.test:8080" {
		t.Errorf("ServerURL = %s", loaded.ServerURL)
	}
	if loaded.TypingDelayMs != 0 {
		t.Errorf("TypingDelayMs = %d", loaded.TypingDelayMs)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".faqchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Error("Expected defaults on parse error")
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(Config) bool
	}{
		{"server_url", "http://host:1234/", false, func(c Config) bool { return c.ServerURL == "http://host:1234" }},
		{"server_url", "host:1234", true, nil},
		{"typing_delay_ms", "250", false, func(c Config) bool { return c.TypingDelayMs == 250 }},
		{"typing_delay_ms", "-1", true, nil},
		{"request_timeout", "0", false, func(c Config) bool { return c.RequestTimeout == 0 }},
		{"copy_to_clipboard", "true", false, func(c Config) bool { return c.CopyToClipboard }},
		{"copy_to_clipboard", "maybe", true, nil},
		{"log_level", "debug", false, func(c Config) bool { return c.LogLevel == "debug" }},
		{"log_level", "loud", true, nil},
		{"tui_theme", "nord", false, func(c Config) bool { return c.TUITheme == "nord" }},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"unknown", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%s, %s) did not apply", tt.key, tt.value)
			}
		})
	}
}
