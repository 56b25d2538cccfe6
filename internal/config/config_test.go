package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.App != "Music" {
		t.Errorf("default app = %q, want Music", cfg.App)
	}
	if cfg.StatusInterval != 5*time.Second {
		t.Errorf("default status interval = %v, want 5s", cfg.StatusInterval)
	}
	if cfg.PanelInterval != 2*time.Second {
		t.Errorf("default panel interval = %v, want 2s", cfg.PanelInterval)
	}
	if cfg.MaxTextLength != 50 {
		t.Errorf("default max text length = %d, want 50", cfg.MaxTextLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*AppConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *AppConfig) {}, false},
		{"valid playerctl", func(c *AppConfig) { c.Dialect = "playerctl" }, false},
		{"valid applescript mixed case", func(c *AppConfig) { c.Dialect = "AppleScript" }, false},
		{"invalid dialect", func(c *AppConfig) { c.Dialect = "jxa" }, true},
		{"empty app", func(c *AppConfig) { c.App = "" }, true},
		{"zero status interval", func(c *AppConfig) { c.StatusInterval = 0 }, true},
		{"negative panel interval", func(c *AppConfig) { c.PanelInterval = -time.Second }, true},
		{"zero script timeout", func(c *AppConfig) { c.ScriptTimeout = 0 }, true},
		{"short text length", func(c *AppConfig) { c.MaxTextLength = 3 }, true},
		{"zero artwork size", func(c *AppConfig) { c.ArtworkSize = 0 }, true},
		{"empty listen addr", func(c *AppConfig) { c.ListenAddr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	content := `
dialect = "applescript"
app = "Spotify"
status_interval = "10s"
panel_interval = "1s"
max_text_length = 40
listen_addr = "127.0.0.1:9000"
`
	dir := filepath.Join(tmpDir, "musicbridge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.App != "Spotify" {
		t.Errorf("app = %q, want Spotify", cfg.App)
	}
	if cfg.StatusInterval != 10*time.Second {
		t.Errorf("status interval = %v, want 10s", cfg.StatusInterval)
	}
	if cfg.PanelInterval != time.Second {
		t.Errorf("panel interval = %v, want 1s", cfg.PanelInterval)
	}
	if cfg.MaxTextLength != 40 {
		t.Errorf("max text length = %d, want 40", cfg.MaxTextLength)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("listen addr = %q, want 127.0.0.1:9000", cfg.ListenAddr)
	}
	// Unset keys keep their defaults
	if cfg.ScriptTimeout != 5*time.Second {
		t.Errorf("script timeout = %v, want default 5s", cfg.ScriptTimeout)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`app = "iTunes"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App != "iTunes" {
		t.Errorf("app = %q, want iTunes", cfg.App)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.App != "Music" {
		t.Errorf("missing file should return defaults, got app = %q", cfg.App)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte(`app = `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MUSICBRIDGE_DIALECT", "playerctl")
	t.Setenv("MUSICBRIDGE_LISTEN_ADDR", "127.0.0.1:1234")
	t.Setenv("MUSICBRIDGE_DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Dialect != "playerctl" {
		t.Errorf("dialect = %q, want playerctl", cfg.Dialect)
	}
	if cfg.ListenAddr != "127.0.0.1:1234" {
		t.Errorf("listen addr = %q, want 127.0.0.1:1234", cfg.ListenAddr)
	}
	if !cfg.Debug {
		t.Error("debug should be enabled by env")
	}
}

func TestLoadEnvInvalidDebug(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MUSICBRIDGE_DEBUG", "sometimes")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid MUSICBRIDGE_DEBUG")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/art"); got != filepath.Join(home, "art") {
		t.Errorf("expandPath(~/art) = %q, want %q", got, filepath.Join(home, "art"))
	}
	if got := expandPath("/tmp/art"); got != "/tmp/art" {
		t.Errorf("expandPath(/tmp/art) = %q", got)
	}
}
