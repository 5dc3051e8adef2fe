package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .km.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// SSHDir is the directory scanned for key pairs. Supports a leading
	// "~" for the home directory.
	SSHDir string `yaml:"ssh_dir" mapstructure:"ssh_dir"`

	// DefaultType is the key algorithm used when generating without an
	// explicit --type.
	DefaultType string `yaml:"default_type" mapstructure:"default_type"`

	// DefaultRSABits is the RSA modulus size used when --bits is absent.
	DefaultRSABits int `yaml:"default_rsa_bits" mapstructure:"default_rsa_bits"`

	Timeouts TimeoutConfig `yaml:"timeouts" mapstructure:"timeouts"`
	Output   OutputConfig  `yaml:"output" mapstructure:"output"`
}

// TimeoutConfig bounds each class of external tool invocation. Zero
// means no deadline.
type TimeoutConfig struct {
	// Introspect bounds the ssh-keygen -lf calls made while scanning.
	Introspect time.Duration `yaml:"introspect" mapstructure:"introspect"`

	// Passphrase bounds ssh-keygen -p.
	Passphrase time.Duration `yaml:"passphrase" mapstructure:"passphrase"`

	// Deploy bounds ssh-copy-id.
	Deploy time.Duration `yaml:"deploy" mapstructure:"deploy"`

	// Generate bounds ssh-keygen -t. Unbounded by default because large
	// RSA keys can legitimately take a long time.
	Generate time.Duration `yaml:"generate" mapstructure:"generate"`
}

// OutputConfig controls terminal output behavior.
type OutputConfig struct {
	// Color is "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		SSHDir:         "~/.ssh",
		DefaultType:    "ed25519",
		DefaultRSABits: 4096,
		Timeouts: TimeoutConfig{
			Introspect: 10 * time.Second,
			Passphrase: 15 * time.Second,
			Deploy:     30 * time.Second,
			Generate:   0,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// ExpandedSSHDir resolves a leading "~" in SSHDir against the home
// directory. An unexpandable path is returned as-is.
func (c *Config) ExpandedSSHDir() string {
	dir := c.SSHDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(dir, "~"), "/"))
		}
	}
	return dir
}
