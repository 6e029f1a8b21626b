// Package config loads the optional YAML defaults file. Command line flags
// override anything set here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"hashfile/internal/digest"
	"hashfile/internal/output"
)

type Config struct {
	Algorithm string `yaml:"algorithm"`
	Format    string `yaml:"format"`
	Workers   int    `yaml:"workers"`
	ChunkSize int    `yaml:"chunk_size"`
	Color     *bool  `yaml:"color"`
	Progress  bool   `yaml:"progress"`
	Confirm   bool   `yaml:"confirm"`
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`
}

func Default() Config {
	return Config{
		Algorithm: digest.SHA256.String(),
		Format:    string(output.Plain),
		ChunkSize: digest.DefaultChunkSize,
		LogLevel:  "warn",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/hashfile/config.yaml or the platform
// equivalent. It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hashfile", "config.yaml")
}

// Load reads path over the defaults. When explicit is false a missing file
// is not an error.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.overlay(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay copies every value set in f over c.
func (c *Config) overlay(f Config) {
	if f.Algorithm != "" {
		c.Algorithm = f.Algorithm
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.ChunkSize != 0 {
		c.ChunkSize = f.ChunkSize
	}
	if f.Color != nil {
		c.Color = f.Color
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	c.Progress = c.Progress || f.Progress
	c.Confirm = c.Confirm || f.Confirm
	c.LogJSON = c.LogJSON || f.LogJSON
}

func (c Config) Validate() error {
	if _, err := digest.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be >= 0, got %d", c.ChunkSize)
	}
	return nil
}
