package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/errors"
)

// Command-specific flags
var (
	generateOpts   GenerateOptions
	deleteForce    bool
	deployUserFlag string
	deployPortFlag int
	deployPrint    bool
	showCopy       bool
	doctorFix      bool
	initGlobal     bool
	initForce      bool
)

// listCmd shows every key pair in the key directory
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List SSH key pairs",
	Long: `List every key pair in your key directory.

Shows the algorithm, fingerprint, comment, and last-modified time of
each pair. Lone private or public halves are skipped.

Examples:
  km list
  km list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(cmd)
	},
}

// generateCmd creates a new key pair
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new SSH key pair",
	Long: `Generate a new SSH key pair with ssh-keygen.

Defaults to ed25519. The passphrase is prompted for interactively;
pass --no-passphrase to skip it in scripts.

Examples:
  km generate
  km generate --type rsa --bits 4096
  km generate --filename work_laptop --comment "alice@work"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateCommand(cmd, generateOpts)
	},
}

// deleteCmd removes a key pair
var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a key pair",
	Long: `Delete both halves of a key pair.

With no name, an interactive picker is shown. Asks for confirmation
unless --force is given.

Examples:
  km delete
  km delete old_laptop
  km delete old_laptop --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return deleteCommand(cmd, name, deleteForce)
	},
}

// passphraseCmd changes a key's passphrase
var passphraseCmd = &cobra.Command{
	Use:   "passphrase [name]",
	Short: "Change or remove a key's passphrase",
	Long: `Change, add, or remove the passphrase on a private key.

Both the current and the new passphrase are prompted for; leave the
new one empty to remove it. Requires a terminal.

Examples:
  km passphrase
  km passphrase work_laptop`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return passphraseCommand(cmd, name)
	},
}

// deployCmd copies a public key to a server
var deployCmd = &cobra.Command{
	Use:   "deploy [name] <target>",
	Short: "Copy a public key to a server",
	Long: `Copy a public key into a server's authorized_keys with ssh-copy-id.

The target can be 'user@host', a bare hostname, or an alias from your
~/.ssh/config. When the server asks for a password, km prompts for it.
With no key name, the strongest available key is picked (ed25519 first).

Examples:
  km deploy alice@example.com
  km deploy work_laptop alice@example.com
  km deploy work_laptop web --port 2222
  km deploy work_laptop web --print-command`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, target := "", args[0]
		if len(args) == 2 {
			name, target = args[0], args[1]
		}
		return deployCommand(cmd, name, target, deployUserFlag, deployPortFlag, deployPrint)
	},
}

// showCmd prints a key's public half
var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a public key",
	Long: `Print a key's public half, ready to paste into GitHub or an
authorized_keys file.

Examples:
  km show work_laptop
  km show work_laptop --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return showCommand(cmd, name, showCopy)
	},
}

// doctorCmd diagnoses tool and permission issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose tool and permission issues",
	Long: `Run diagnostic checks to identify and fix common issues.

Checks:
  - ssh-keygen and ssh-copy-id availability
  - Key directory and key file permissions
  - Configuration validity

Examples:
  km doctor
  km doctor --fix`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd, doctorFix)
	},
}

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a km config file",
	Long: `Write a starter config file with every field at its default.

Writes ./.km.yaml, or ~/.config/km/config.yaml with --global.

Examples:
  km init
  km init --global
  km init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd, InitOptions{Global: initGlobal, Force: initForce})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for km.

Examples:
  # Bash
  km completion bash > /etc/bash_completion.d/km

  # Zsh
  km completion zsh > "${fpath[1]}/_km"

  # Fish
  km completion fish > ~/.config/fish/completions/km.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrValidation,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// generate command flags
	generateCmd.Flags().StringVarP(&generateOpts.Type, "type", "t", "", "key type: ed25519, rsa, or ecdsa")
	generateCmd.Flags().StringVarP(&generateOpts.Filename, "filename", "f", "", "filename for the key (default id_<type>)")
	generateCmd.Flags().IntVarP(&generateOpts.Bits, "bits", "b", 0, "key size in bits (RSA only)")
	generateCmd.Flags().StringVarP(&generateOpts.Comment, "comment", "C", "", "comment embedded in the public key")
	generateCmd.Flags().StringVar(&generateOpts.Passphrase, "passphrase", "", "passphrase for the key (prompted if omitted)")
	generateCmd.Flags().BoolVar(&generateOpts.NoPassphrase, "no-passphrase", false, "create the key without a passphrase")

	// delete command flags
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")

	// deploy command flags
	deployCmd.Flags().StringVarP(&deployUserFlag, "user", "u", "", "remote username (overrides target and SSH config)")
	deployCmd.Flags().IntVarP(&deployPortFlag, "port", "p", 0, "remote SSH port (overrides SSH config)")
	deployCmd.Flags().BoolVar(&deployPrint, "print-command", false, "print the ssh-copy-id command instead of running it")

	// show command flags
	showCmd.Flags().BoolVarP(&showCopy, "copy", "c", false, "copy to clipboard instead of printing")

	// doctor command flags
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")

	// init command flags
	initCmd.Flags().BoolVarP(&initGlobal, "global", "g", false, "write the global config instead of ./.km.yaml")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(passphraseCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
