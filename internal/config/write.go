package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/km/internal/errors"
)

// fileConfig is the YAML shape written to disk. Durations are rendered
// as strings ("30s") rather than nanosecond integers.
type fileConfig struct {
	Version        int               `yaml:"version"`
	SSHDir         string            `yaml:"ssh_dir"`
	DefaultType    string            `yaml:"default_type"`
	DefaultRSABits int               `yaml:"default_rsa_bits"`
	Timeouts       fileTimeoutConfig `yaml:"timeouts"`
	Output         OutputConfig      `yaml:"output"`
}

type fileTimeoutConfig struct {
	Introspect string `yaml:"introspect"`
	Passphrase string `yaml:"passphrase"`
	Deploy     string `yaml:"deploy"`
	Generate   string `yaml:"generate"`
}

const fileHeader = `# km configuration.
# Generated by 'km init'; every field is optional and shown at its default.
`

// Write renders cfg as commented YAML at path, creating parent
// directories as needed. It refuses to overwrite an existing file.
func Write(cfg *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrExists,
			"Config file already exists: "+path,
			"Edit it directly, or remove it first to start over.")
	}

	out := fileConfig{
		Version:        cfg.Version,
		SSHDir:         cfg.SSHDir,
		DefaultType:    cfg.DefaultType,
		DefaultRSABits: cfg.DefaultRSABits,
		Timeouts: fileTimeoutConfig{
			Introspect: cfg.Timeouts.Introspect.String(),
			Passphrase: cfg.Timeouts.Passphrase.String(),
			Deploy:     cfg.Timeouts.Deploy.String(),
			Generate:   cfg.Timeouts.Generate.String(),
		},
		Output: cfg.Output,
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't render config as YAML", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't create config directory: "+filepath.Dir(path),
			"Check permissions on the parent directory.")
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't write config file: "+path,
			"Check permissions on the directory.")
	}

	return nil
}
