package doctor

import (
	"github.com/rileyhilliard/km/internal/config"
)

// ConfigCheck verifies the config file (if any) loads and validates.
type ConfigCheck struct{}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "CONFIG" }

func (c *ConfigCheck) Run() CheckResult {
	path, err := config.Find("")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Couldn't search for a config file",
			Suggestion: "Check directory permissions",
		}
	}
	if path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "no config file (using defaults)",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file doesn't parse: " + path,
			Suggestion: "Fix the YAML syntax, or delete it and re-run 'km init'",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file is invalid: " + path,
			Suggestion: err.Error(),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "config valid: " + path,
	}
}

func (c *ConfigCheck) Fix() error {
	return nil
}

// DefaultChecks assembles the standard diagnostic suite for a key
// directory.
func DefaultChecks(dir string) []Check {
	return []Check{
		&KeygenCheck{},
		&CopyIDCheck{},
		&DirPermsCheck{Dir: dir},
		&KeyPermsCheck{Dir: dir},
		&ConfigCheck{},
	}
}
