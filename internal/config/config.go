// Package config manages the global (~/.config/tokgauge/config.toml)
// configuration for tokgauge. The context budget and thresholds are fixed
// and deliberately absent from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-wide settings.
type Config struct {
	Tokenizer TokenizerConfig `toml:"tokenizer"`
	Keys      KeysConfig      `toml:"keys"`
	Anthropic AnthropicConfig `toml:"anthropic"`
	Output    OutputConfig    `toml:"output"`
}

type TokenizerConfig struct {
	Backend  string `toml:"backend"`
	Model    string `toml:"model"`
	Encoding string `toml:"encoding"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
}

type AnthropicConfig struct {
	BaseURL string `toml:"base_url"`
}

type OutputConfig struct {
	Color bool `toml:"color"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Tokenizer: TokenizerConfig{
			Backend:  "anthropic",
			Model:    "claude-sonnet-4-6",
			Encoding: "cl100k_base",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Path returns the config file location. TOKGAUGE_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("TOKGAUGE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tokgauge", "config.toml"), nil
}

// Load returns the defaults overlaid with the config file, if any, and then
// with environment variables.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		cfg.Anthropic.BaseURL = v
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
