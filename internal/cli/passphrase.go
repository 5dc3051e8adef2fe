package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
	"github.com/rileyhilliard/km/internal/ui"
)

// passphraseCommand changes or removes a private key's passphrase.
// Secrets are only ever taken from prompts; there are deliberately no
// --passphrase flags because argv is visible in the process table.
func passphraseCommand(cmd *cobra.Command, name string) error {
	if !interactive() {
		return errors.New(errors.ErrValidation,
			"Changing a passphrase needs an interactive terminal",
			"Run km from a terminal; passphrases are never taken from flags.")
	}

	record, err := findKey(cmd, name)
	if err != nil {
		return err
	}

	currentPass, err := ui.PromptPassword(
		fmt.Sprintf("Current passphrase for %s (empty if none)", record.Name()))
	if err != nil {
		return err
	}

	newPass, err := ui.PromptNewPassphrase("New passphrase")
	if err != nil {
		return err
	}

	err = current.store.ChangePassphrase(cmd.Context(), sshkey.PassphraseChangeRequest{
		Record:  *record,
		Current: currentPass,
		New:     newPass,
	})
	if err != nil {
		return describePassphraseFailure(err)
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{"changed": record.Name()})
	}

	if newPass == "" {
		fmt.Printf("%s Passphrase removed from %s\n", ui.SymbolSuccess, record.Name())
	} else {
		fmt.Printf("%s Passphrase updated for %s\n", ui.SymbolSuccess, record.Name())
	}
	return nil
}

// describePassphraseFailure pattern-matches ssh-keygen's stderr for the
// one failure users actually hit: a wrong current passphrase.
func describePassphraseFailure(err error) error {
	stderr := errors.StderrOf(err)
	if containsFold(stderr, "incorrect passphrase") ||
		containsFold(stderr, "bad passphrase") {
		return errors.New(errors.ErrTool,
			"Current passphrase is wrong",
			"Double-check the existing passphrase and try again.")
	}
	return err
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
