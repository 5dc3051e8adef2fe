package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// validColorModes are the accepted output.color values.
var validColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks the config for errors and returns structured error
// messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but km only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest km release, or lower the version field.")
	}

	if strings.TrimSpace(cfg.SSHDir) == "" {
		return errors.New(errors.ErrConfig,
			"ssh_dir is empty",
			"Point ssh_dir at your key directory, conventionally ~/.ssh.")
	}

	if _, err := sshkey.ParseKeyType(cfg.DefaultType); err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown default_type '%s'", cfg.DefaultType),
			"Supported types: ed25519 (recommended), rsa, ecdsa")
	}

	if !sshkey.ValidRSABits[cfg.DefaultRSABits] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid default_rsa_bits %d", cfg.DefaultRSABits),
			"Pick one of 2048, 3072, 4096, or 8192.")
	}

	for name, d := range map[string]int64{
		"timeouts.introspect": int64(cfg.Timeouts.Introspect),
		"timeouts.passphrase": int64(cfg.Timeouts.Passphrase),
		"timeouts.deploy":     int64(cfg.Timeouts.Deploy),
		"timeouts.generate":   int64(cfg.Timeouts.Generate),
	} {
		if d < 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Negative %s", name),
				"Timeouts must be zero (no limit) or positive durations like '30s'.")
		}
	}

	if !validColorModes[cfg.Output.Color] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown output.color '%s'", cfg.Output.Color),
			"Use 'auto', 'always', or 'never'.")
	}

	return nil
}
