package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Theme       string        `yaml:"theme"`
	LogLevel    string        `yaml:"log_level"`
	ProjectRoot string        `yaml:"project_root"`
	CacheDir    string        `yaml:"cache_dir"`
	Display     DisplayConfig `yaml:"display"`
	Watch       bool          `yaml:"watch"`
}

// DisplayConfig holds the initial state of the label toggles.
type DisplayConfig struct {
	Icons      bool `yaml:"icons"`
	ClassNames bool `yaml:"class_names"`
	GUIDPaths  bool `yaml:"guid_paths"`
}

var validThemes = map[string]bool{"latte": true, "frappe": true, "macchiato": true, "mocha": true}

func DefaultConfig() Config {
	return Config{
		Theme:    "mocha",
		LogLevel: "info",
		Watch:    true,
		Display: DisplayConfig{
			Icons:      true,
			ClassNames: true,
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if !validThemes[c.Theme] {
		return fmt.Errorf("unknown theme %q (want latte, frappe, macchiato or mocha)", c.Theme)
	}
	if c.ProjectRoot != "" {
		info, err := os.Stat(c.ResolvePath(c.ProjectRoot))
		if err != nil {
			return fmt.Errorf("project_root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("project_root %s is not a directory", c.ProjectRoot)
		}
	}
	return nil
}

// ResolvePath expands a leading ~/ to the user's home directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResolveCacheDir returns the directory for the GUID index cache.
func (c *Config) ResolveCacheDir() string {
	if c.CacheDir != "" {
		return c.ResolvePath(c.CacheDir)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "assettree")
	}
	return filepath.Join(".cache", "assettree")
}

func getConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultDir returns the configuration directory, honouring XDG_CONFIG_HOME.
func DefaultDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "assettree")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "assettree")
	}

	return filepath.Join(home, ".config", "assettree")
}
