// Package config loads the mob configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ToolsConfig holds paths to external tools.
type ToolsConfig struct {
	Git string `toml:"git"` // git binary, defaults to "git" from PATH
}

// GlobalConfig holds safety-related options.
type GlobalConfig struct {
	// IgnoreUncommitted bypasses the uncommitted/stashed-change checks
	// that normally block deletion of a git-controlled directory.
	// Corresponds to the --ignore-uncommitted-changes flag.
	IgnoreUncommitted bool `toml:"ignore_uncommitted"`
}

// RemoteConfig holds the defaults for the origin/upstream remote
// rewrite applied after cloning.
type RemoteConfig struct {
	Org               string `toml:"org"`
	Key               string `toml:"key"` // path to a key file, may be empty
	NoPushUpstream    bool   `toml:"no_push_upstream"`
	PushDefaultOrigin bool   `toml:"push_default_origin"`
	URLPattern        string `toml:"url_pattern"` // two-verb format string, org then git file
}

// BuildConfig holds per-dependency build options.
type BuildConfig struct {
	// Prebuilt marks a dependency as installed from a prebuilt archive
	// rather than built from source. It is supplied explicitly, never
	// inferred from the state of the source directory.
	Prebuilt bool `toml:"prebuilt"`
}

// Config holds the mob configuration.
type Config struct {
	Tools  ToolsConfig  `toml:"tools"`
	Global GlobalConfig `toml:"global"`
	Remote RemoteConfig `toml:"remote"`
	Build  BuildConfig  `toml:"build"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Tools: ToolsConfig{Git: "git"},
	}
}

// GitBinary returns the configured git binary path.
func (c *Config) GitBinary() string {
	if c.Tools.Git == "" {
		return "git"
	}
	return c.Tools.Git
}

// Load reads the configuration from path, falling back to defaults for
// anything not set. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := expandPath(path)
	if err != nil {
		return cfg, err
	}

	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(expanded, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}

	if cfg.Remote.Key != "" {
		if cfg.Remote.Key, err = expandPath(cfg.Remote.Key); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
