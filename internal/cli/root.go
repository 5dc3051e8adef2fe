package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/config"
	"github.com/rileyhilliard/km/internal/ui"
)

// Global flags
var (
	configFlag  string
	sshDirFlag  string
	noColorFlag bool
)

// rootCmd is the base command for km.
var rootCmd = &cobra.Command{
	Use:   "km",
	Short: "Manage SSH key pairs",
	Long: `km manages the SSH key pairs in your ~/.ssh directory.

It drives the standard OpenSSH tools (ssh-keygen, ssh-copy-id) rather
than reimplementing them, so everything it creates works exactly like
keys you made by hand.

Examples:
  km list
  km generate --type ed25519 --comment "alice@laptop"
  km deploy work_laptop alice@example.com
  km doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

// initApp loads config and builds the backend once per invocation.
func initApp() error {
	path, err := config.Find(configFlag)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	if noColorFlag {
		cfg.Output.Color = "never"
	}
	ui.ConfigureColors(cfg.Output.Color)

	buildApp(cfg)
	return nil
}

// Execute runs the root command. Errors are rendered once, here.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			_ = WriteJSONFromError(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&sshDirFlag, "ssh-dir", "", "key directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "output in JSON format")
}
