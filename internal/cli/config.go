package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

// Config holds defaults read from the TOML configuration file.
//
//	[hourglass]
//	up = 4
//	down = 4
//
//	[connections]
//	mode = "strict"
//
//	[render]
//	detailed = false
//	format = "svg"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Hourglass   HourglassConfig   `toml:"hourglass"`
	Connections ConnectionsConfig `toml:"connections"`
	Render      RenderConfig      `toml:"render"`
	Serve       ServeConfig       `toml:"serve"`
}

// HourglassConfig bounds hourglass queries.
type HourglassConfig struct {
	Up   int `toml:"up"`
	Down int `toml:"down"`
}

// ConnectionsConfig selects the connection dedup mode.
type ConnectionsConfig struct {
	Mode string `toml:"mode"`
}

// RenderConfig controls person graph rendering.
type RenderConfig struct {
	Detailed bool   `toml:"detailed"`
	Format   string `toml:"format"` // comma-separated list
}

// ServeConfig configures the JSON API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

const defaultAddr = ":8080"

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Hourglass:   HourglassConfig{Up: pipeline.DefaultUp, Down: pipeline.DefaultDown},
		Connections: ConnectionsConfig{Mode: pipeline.DefaultMode},
		Render:      RenderConfig{Format: pipeline.FormatSVG},
		Serve:       ServeConfig{Addr: defaultAddr},
	}
}

// LoadConfig reads the configuration at path on top of [DefaultConfig].
//
// An empty path selects the default location; a missing file there is not an
// error. An explicitly named file must exist. Unknown keys are rejected so
// typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	o := pipeline.Options{
		Up:      c.Hourglass.Up,
		Down:    c.Hourglass.Down,
		Mode:    c.Connections.Mode,
		Formats: parseFormats(c.Render.Format),
	}
	if err := o.ValidateForQuery(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := o.ValidateForRender(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location using XDG standard
// (~/.config/lineage/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
