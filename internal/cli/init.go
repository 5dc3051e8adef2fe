package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/config"
	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/ui"
)

// InitOptions holds the init command's inputs.
type InitOptions struct {
	Global bool // write ~/.config/km/config.yaml instead of ./.km.yaml
	Force  bool // overwrite an existing file without asking
}

// initCommand writes a starter config file with every field at its
// default, so users have something concrete to edit.
func initCommand(_ *cobra.Command, opts InitOptions) error {
	path, err := initPath(opts.Global)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if !opts.Force {
			if !interactive() {
				return errors.New(errors.ErrExists,
					"Config file already exists: "+path,
					"Use --force to overwrite it.")
			}
			overwrite, confirmErr := ui.Confirm(
				fmt.Sprintf("Config file '%s' already exists. Overwrite?", path), "")
			if confirmErr != nil {
				return confirmErr
			}
			if !overwrite {
				fmt.Println("Cancelled.")
				return nil
			}
		}
		if err := os.Remove(path); err != nil {
			return errors.WrapWithCode(err, errors.ErrPermission,
				"Couldn't replace config file: "+path,
				"Check permissions on the file.")
		}
	}

	cfg := config.DefaultConfig()

	// Let a present human pick the default algorithm; everyone else
	// gets ed25519.
	if interactive() {
		if err := promptKeyDefaults(cfg); err != nil {
			return err
		}
	}

	if err := config.Write(cfg, path); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{"path": path})
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, path)
	fmt.Println("Next steps:")
	fmt.Println("  km generate   - Create a new key pair")
	fmt.Println("  km list       - See what's in your key directory")
	fmt.Println("  km doctor     - Check your setup")
	return nil
}

// initPath picks the target file for the requested scope.
func initPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't locate your home directory",
			"Set $HOME and try again.")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

// promptKeyDefaults asks for the two settings people actually change.
func promptKeyDefaults(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default key type").
				Description("Used by 'km generate' when --type isn't given").
				Options(
					huh.NewOption("ed25519 (recommended)", "ed25519"),
					huh.NewOption("rsa", "rsa"),
					huh.NewOption("ecdsa", "ecdsa"),
				).
				Value(&cfg.DefaultType),
			huh.NewInput().
				Title("Key directory").
				Description("Where km looks for key pairs").
				Value(&cfg.SSHDir),
		),
	)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return errors.New(errors.ErrCancelled, "Cancelled", "")
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read your answers",
			"Re-run in a regular terminal, or pipe through with defaults.")
	}
	return nil
}
