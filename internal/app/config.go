package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/puretechnyc/ctags/internal/lang"
)

// ConfigFile is the project configuration file name, looked up at the
// project root.
const ConfigFile = ".ctags.yml"

// Config is the project configuration loaded from .ctags.yml. The zero
// value with Output defaulted is a working configuration; every field is
// optional in the file.
type Config struct {
	// Output is the tags file name, relative to the project root.
	Output string `yaml:"output"`

	// Exclude lists extra directory names to skip while walking, on top
	// of the built-in vendor/VCS set.
	Exclude []string `yaml:"exclude"`

	// Kinds maps a language name to the kind letters to keep enabled,
	// e.g. "ruby: cf". Languages not listed keep their defaults.
	Kinds map[string]string `yaml:"kinds"`
}

// DefaultConfig returns the configuration used when no .ctags.yml exists.
func DefaultConfig() *Config {
	return &Config{Output: "tags"}
}

// LoadConfig reads .ctags.yml from projectRoot. A missing file is not an
// error; it yields the defaults. A present but malformed file is.
func LoadConfig(projectRoot string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, ConfigFile))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	if cfg.Output == "" {
		cfg.Output = "tags"
	}
	return cfg, nil
}

// ApplyKinds narrows the enabled kinds of each configured language on reg.
// Unknown languages and unknown kind letters are reported, not ignored, so
// a typo in the config doesn't silently scan with the wrong kind set.
func (c *Config) ApplyKinds(reg *lang.Registry) error {
	for name, letters := range c.Kinds {
		if err := reg.SetEnabledKinds(name, letters); err != nil {
			return fmt.Errorf("config kinds: %w", err)
		}
	}
	return nil
}

// ExcludedDir reports whether name is excluded by configuration.
func (c *Config) ExcludedDir(name string) bool {
	for _, ex := range c.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}
