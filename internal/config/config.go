// Package config loads the daemon configuration.
// Values are layered: defaults < TOML file < MUSICBRIDGE_* environment variables.
// CLI flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	defaultApp           = "Music"
	defaultListenAddr    = "127.0.0.1:52847"
	defaultArtworkDir    = "/tmp/musicbridge"
	defaultFallbackLabel = "🎵 Apple Music"
	defaultMaxTextLength = 50
	defaultArtworkSize   = 300

	defaultStatusInterval = 5 * time.Second
	defaultPanelInterval  = 2 * time.Second
	defaultScriptTimeout  = 5 * time.Second

	envPrefix = "MUSICBRIDGE_"
)

// AppConfig holds application configuration
type AppConfig struct {
	Dialect        string        `toml:"dialect"`
	App            string        `toml:"app"`
	ScriptTimeout  time.Duration `toml:"script_timeout"`
	StatusInterval time.Duration `toml:"status_interval"`
	PanelInterval  time.Duration `toml:"panel_interval"`
	MaxTextLength  int           `toml:"max_text_length"`
	FallbackLabel  string        `toml:"fallback_label"`
	ListenAddr     string        `toml:"listen_addr"`
	ArtworkDir     string        `toml:"artwork_dir"`
	ArtworkSize    int           `toml:"artwork_size"`
	Debug          bool          `toml:"debug"`
}

// Default returns the default configuration
func Default() *AppConfig {
	dialect := "playerctl"
	if runtime.GOOS == "darwin" {
		dialect = "applescript"
	}
	return &AppConfig{
		Dialect:        dialect,
		App:            defaultApp,
		ScriptTimeout:  defaultScriptTimeout,
		StatusInterval: defaultStatusInterval,
		PanelInterval:  defaultPanelInterval,
		MaxTextLength:  defaultMaxTextLength,
		FallbackLabel:  defaultFallbackLabel,
		ListenAddr:     defaultListenAddr,
		ArtworkDir:     defaultArtworkDir,
		ArtworkSize:    defaultArtworkSize,
	}
}

// Path returns the XDG-compliant location of the config file
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "musicbridge", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "musicbridge", "config.toml"), nil
}

// Load reads the config file at path (or the default location when path is empty),
// applies environment overrides and validates the result.
// A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.ArtworkDir = expandPath(cfg.ArtworkDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() error {
	if v := os.Getenv(envPrefix + "DIALECT"); v != "" {
		c.Dialect = v
	}
	if v := os.Getenv(envPrefix + "APP"); v != "" {
		c.App = v
	}
	if v := os.Getenv(envPrefix + "LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(envPrefix + "ARTWORK_DIR"); v != "" {
		c.ArtworkDir = v
	}
	if v := os.Getenv(envPrefix + "DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %sDEBUG: %w", envPrefix, err)
		}
		c.Debug = debug
	}
	return nil
}

// expandPath resolves environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Validate checks config values are within acceptable bounds
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Dialect) {
	case "applescript", "playerctl":
	default:
		return fmt.Errorf("unsupported dialect %q (valid: applescript, playerctl)", c.Dialect)
	}
	if c.App == "" {
		return fmt.Errorf("app cannot be empty")
	}
	if c.StatusInterval <= 0 || c.PanelInterval <= 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("script timeout must be positive")
	}
	if c.MaxTextLength < 4 {
		return fmt.Errorf("max text length %d is too short", c.MaxTextLength)
	}
	if c.ArtworkSize <= 0 {
		return fmt.Errorf("artwork size must be positive")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	return nil
}

// Fields returns the configuration as structured log fields
func (c *AppConfig) Fields() []zap.Field {
	return []zap.Field{
		zap.String("dialect", c.Dialect),
		zap.String("app", c.App),
		zap.Duration("statusInterval", c.StatusInterval),
		zap.Duration("panelInterval", c.PanelInterval),
		zap.Duration("scriptTimeout", c.ScriptTimeout),
		zap.String("listenAddr", c.ListenAddr),
		zap.String("artworkDir", c.ArtworkDir),
	}
}

func (c *AppConfig) GetStatusInterval() time.Duration { return c.StatusInterval }
func (c *AppConfig) GetPanelInterval() time.Duration  { return c.PanelInterval }
func (c *AppConfig) GetScriptTimeout() time.Duration  { return c.ScriptTimeout }
func (c *AppConfig) GetMaxTextLength() int            { return c.MaxTextLength }
func (c *AppConfig) GetFallbackLabel() string         { return c.FallbackLabel }
func (c *AppConfig) GetListenAddr() string            { return c.ListenAddr }
func (c *AppConfig) GetArtworkDir() string            { return c.ArtworkDir }
func (c *AppConfig) GetArtworkSize() int              { return c.ArtworkSize }
