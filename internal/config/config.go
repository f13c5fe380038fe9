// Package config loads the optional helper configuration file.
// The file only tunes ambient behavior (logging, console presentation); the
// authorization request itself is fixed at build time in package constant.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is looked up next to the executable when no explicit path is given.
const DefaultConfigFileName = "config.yaml"

// Config represents the helper configuration, loaded from a YAML file.
type Config struct {
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile routes logs to a rotating file under the logs directory instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogsMaxTotalSizeMB caps the total size of the logs directory. <= 0 disables the cap.
	LogsMaxTotalSizeMB int `yaml:"logs-max-total-size-mb" json:"logs-max-total-size-mb"`

	// NoBrowser skips launching the system browser; the authorization URL is printed instead.
	NoBrowser bool `yaml:"no-browser" json:"no-browser"`

	// PlainConsole disables the interactive terminal screen even when stdout is a terminal.
	PlainConsole bool `yaml:"plain-console" json:"plain-console"`

	// Locale selects the language of the terminal screen chrome ("zh" or "en").
	// The success notice is always bilingual.
	Locale string `yaml:"locale" json:"locale"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Locale: "zh"}
}

// LoadConfigOptional reads the configuration from configFile. When optional is true,
// a missing or empty file yields Default().
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(configFile) == "" {
		if optional {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: no configuration file given")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Locale = strings.ToLower(strings.TrimSpace(c.Locale))
	if c.Locale != "en" {
		c.Locale = "zh"
	}
	if c.LogsMaxTotalSizeMB < 0 {
		c.LogsMaxTotalSizeMB = 0
	}
}
