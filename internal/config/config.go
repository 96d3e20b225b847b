// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/tdir/internal/sortmode"
	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName     = "tdir"
	configFileName = "config.toml"
	defaultMaxTabs = 9
)

// Config mirrors config.toml.
type Config struct {
	Sort     SortConfig     `toml:"sort"`
	Display  DisplayConfig  `toml:"display"`
	Tabs     TabsConfig     `toml:"tabs"`
	Commands CommandsConfig `toml:"commands"`
	Log      LogConfig      `toml:"log"`
}

type SortConfig struct {
	Mode      string `toml:"mode"` // natural, lexical, mtime, size
	DirsFirst bool   `toml:"dirs_first"`
	Reverse   bool   `toml:"reverse"`
}

type DisplayConfig struct {
	ShowHidden bool     `toml:"show_hidden"`
	Ignore     []string `toml:"ignore"` // glob patterns matched against names
}

type TabsConfig struct {
	Max int `toml:"max"`
}

// CommandsConfig overrides external command detection. Values are split
// like a shell would, honouring single and double quotes.
type CommandsConfig struct {
	Editor    string `toml:"editor"`
	Pager     string `toml:"pager"`
	Clipboard string `toml:"clipboard"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sort: SortConfig{
			Mode:      sortmode.Natural.String(),
			DirsFirst: true,
		},
		Tabs: TabsConfig{Max: defaultMaxTabs},
		Log:  LogConfig{Level: "info"},
	}
}

var userConfigDirFn = os.UserConfigDir

// DefaultPath returns $XDG_CONFIG_HOME/tdir/config.toml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := userConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Default(), fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that TOML decoding cannot.
func (c Config) Validate() error {
	if _, err := sortmode.ParseMode(c.Sort.Mode); err != nil {
		return err
	}
	if c.Tabs.Max < 0 {
		return fmt.Errorf("tabs.max must not be negative, got %d", c.Tabs.Max)
	}
	_, err := sortmode.Default().WithIgnore(c.Display.Ignore...)
	return err
}

// SortOptions builds the ordering policy described by the config.
func (c Config) SortOptions() (sortmode.Options, error) {
	mode, err := sortmode.ParseMode(c.Sort.Mode)
	if err != nil {
		return sortmode.Default(), err
	}
	opts := sortmode.Options{
		Mode:       mode,
		DirsFirst:  c.Sort.DirsFirst,
		Reverse:    c.Sort.Reverse,
		ShowHidden: c.Display.ShowHidden,
	}
	return opts.WithIgnore(c.Display.Ignore...)
}

// MaxTabs returns the tab limit, defaulting when unset.
func (c Config) MaxTabs() int {
	if c.Tabs.Max <= 0 {
		return defaultMaxTabs
	}
	return c.Tabs.Max
}
