// Package config loads ghoslerctl tool settings from the conventional
// TOML file, overlaying defined keys onto built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds tool-level settings shared by every command.
type Config struct {
	GitHubOwner string
	GitHubRepo  string
	DefaultPort int
	SettleDelay time.Duration
	PM2Bin      string
	NpmBin      string
	LogLines    int
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() Config {
	return Config{
		GitHubOwner: "ghosler",
		GitHubRepo:  "ghosler",
		DefaultPort: 2369,
		SettleDelay: 10 * time.Second,
		PM2Bin:      "pm2",
		NpmBin:      "npm",
		LogLines:    100,
	}
}

// config.toml key mapping to tool settings.
type fileConfig struct {
	GitHubOwner   string `toml:"github_owner"`
	GitHubRepo    string `toml:"github_repo"`
	DefaultPort   int    `toml:"default_port"`
	SettleSeconds int    `toml:"settle_seconds"`
	PM2Bin        string `toml:"pm2_bin"`
	NpmBin        string `toml:"npm_bin"`
	LogLines      int    `toml:"log_lines"`
}

// DefaultPath returns the conventional config file location. Empty when
// the home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ghoslerctl", "config.toml")
}

// Load reads a TOML file and overlays defined keys onto DefaultConfig.
// An empty path falls back to DefaultPath; a missing file yields the
// defaults, a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	}
	if resolved == "" {
		return cfg, nil
	}
	if _, err := os.Stat(resolved); errors.Is(err, os.ErrNotExist) {
		if strings.TrimSpace(path) != "" {
			return Config{}, fmt.Errorf("load config: %q: %w", path, err)
		}
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(resolved, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("github_owner") {
		cfg.GitHubOwner = strings.TrimSpace(raw.GitHubOwner)
	}
	if meta.IsDefined("github_repo") {
		cfg.GitHubRepo = strings.TrimSpace(raw.GitHubRepo)
	}
	if meta.IsDefined("default_port") {
		cfg.DefaultPort = raw.DefaultPort
	}
	if meta.IsDefined("settle_seconds") {
		cfg.SettleDelay = time.Duration(raw.SettleSeconds) * time.Second
	}
	if meta.IsDefined("pm2_bin") {
		cfg.PM2Bin = strings.TrimSpace(raw.PM2Bin)
	}
	if meta.IsDefined("npm_bin") {
		cfg.NpmBin = strings.TrimSpace(raw.NpmBin)
	}
	if meta.IsDefined("log_lines") {
		cfg.LogLines = raw.LogLines
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command could run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GitHubOwner) == "" {
		return fmt.Errorf("config: github_owner must not be empty")
	}
	if strings.TrimSpace(c.GitHubRepo) == "" {
		return fmt.Errorf("config: github_repo must not be empty")
	}
	if c.DefaultPort < 1 || c.DefaultPort > 65535 {
		return fmt.Errorf("config: default_port %d out of range", c.DefaultPort)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("config: settle_seconds must not be negative")
	}
	if strings.TrimSpace(c.PM2Bin) == "" {
		return fmt.Errorf("config: pm2_bin must not be empty")
	}
	if strings.TrimSpace(c.NpmBin) == "" {
		return fmt.Errorf("config: npm_bin must not be empty")
	}
	if c.LogLines < 1 {
		return fmt.Errorf("config: log_lines must be positive")
	}
	return nil
}
