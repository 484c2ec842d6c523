// Package config loads and saves the pdfextract TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/tsawler/pdfextract/partition"
)

// EnvVar names the environment variable that points at a config file
const EnvVar = "PDFEXTRACT_CONFIG"

// Config holds every configurable setting. Keys missing from the file keep
// their defaults.
type Config struct {
	OutputDir     string   `toml:"output_dir"`
	Strategy      string   `toml:"strategy"`
	ExtractImages bool     `toml:"extract_images"`
	ExtractTables bool     `toml:"extract_tables"`
	Languages     []string `toml:"languages"`
	OCRDPI        int      `toml:"ocr_dpi"`
	ExportXLSX    bool     `toml:"export_xlsx"`
	CatalogPath   string   `toml:"catalog_path"`

	Watch Watch `toml:"watch"`
}

// Watch configures the watch command
type Watch struct {
	// IntervalMS is how long a file's size must stay unchanged
	IntervalMS   int     `toml:"interval_ms"`
	MaxPerSecond float64 `toml:"max_per_second"`
}

// Dir returns ~/.pdfextract
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".pdfextract"), nil
}

// Default returns the built-in configuration
func Default() *Config {
	catalog := "catalog.db"
	if dir, err := Dir(); err == nil {
		catalog = filepath.Join(dir, "catalog.db")
	}
	return &Config{
		OutputDir:     "extracted_content",
		Strategy:      string(partition.StrategyHiRes),
		ExtractImages: true,
		ExtractTables: true,
		Languages:     []string{"eng"},
		OCRDPI:        200,
		CatalogPath:   catalog,
		Watch: Watch{
			IntervalMS:   1000,
			MaxPerSecond: 2,
		},
	}
}

// Path resolves the config file location: the explicit path if given,
// then $PDFEXTRACT_CONFIG, then ~/.pdfextract/config.toml.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file yields
// the defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if _, err := partition.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.OCRDPI < 72 || c.OCRDPI > 600 {
		return fmt.Errorf("ocr_dpi %d outside 72-600", c.OCRDPI)
	}
	if len(c.Languages) == 0 {
		return errors.New("languages must not be empty")
	}
	for _, l := range c.Languages {
		if l == "" {
			return errors.New("languages must not contain empty names")
		}
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.Watch.IntervalMS <= 0 {
		return fmt.Errorf("watch.interval_ms must be positive, got %d", c.Watch.IntervalMS)
	}
	if c.Watch.MaxPerSecond <= 0 {
		return fmt.Errorf("watch.max_per_second must be positive, got %g", c.Watch.MaxPerSecond)
	}
	return nil
}

// Save writes the configuration to path through a temporary file so a
// crash never leaves a partial file behind.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
