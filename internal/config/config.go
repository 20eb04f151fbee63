// Package config loads qpasswd settings from a YAML file.
//
// The file is optional: a missing file yields DefaultConfig(). Its location
// is QPASSWD_CONFIG if set, otherwise ~/.config/qpasswd/config.yaml.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/illarion/qpasswd/internal/logger"
	"github.com/illarion/qpasswd/internal/passgen"
)

const (
	EnvConfigPath = "QPASSWD_CONFIG"
	EnvStorePath  = "QPASSWD_STORE"

	DefaultLength = 16
	StoreFile     = ".qpasswd.db"
)

// GeneratorConfig holds password generator defaults
type GeneratorConfig struct {
	Length   int      `yaml:"length"`
	Charsets []string `yaml:"charsets"`
}

// Config is the qpasswd configuration
type Config struct {
	StorePath string          `yaml:"store_path"`
	Generator GeneratorConfig `yaml:"generator"`
	Log       logger.Config   `yaml:"log"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	storePath := StoreFile
	if home, err := os.UserHomeDir(); err == nil {
		storePath = filepath.Join(home, StoreFile)
	}

	cfg := &Config{
		StorePath: storePath,
		Generator: GeneratorConfig{
			Length: DefaultLength,
		},
	}
	for _, c := range passgen.DefaultCharsets {
		cfg.Generator.Charsets = append(cfg.Generator.Charsets, c.String())
	}
	cfg.Log.ApplyDefaults()
	return cfg
}

// DefaultPath returns the config file location
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qpasswd", "config.yaml")
}

// Load reads the config file at path, falling back to defaults when it
// does not exist. QPASSWD_STORE overrides store_path.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if p := os.Getenv(EnvStorePath); p != "" {
		cfg.StorePath = p
	}
	cfg.Log.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	if c.Generator.Length < 0 || c.Generator.Length > math.MaxInt16 {
		return fmt.Errorf("generator.length must be between 0 and %d (got: %d)", math.MaxInt16, c.Generator.Length)
	}
	if _, err := c.Charsets(); err != nil {
		return fmt.Errorf("generator.charsets: %w", err)
	}
	return c.Log.Validate()
}

// Charsets parses generator.charsets
func (c *Config) Charsets() ([]passgen.CharsetType, error) {
	charsets := make([]passgen.CharsetType, 0, len(c.Generator.Charsets))
	for _, name := range c.Generator.Charsets {
		t, err := passgen.ParseCharset(name)
		if err != nil {
			return nil, err
		}
		charsets = append(charsets, t)
	}
	return charsets, nil
}

// Encode renders cfg as YAML
func Encode(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes cfg to path as YAML
func Save(path string, cfg *Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
