package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
	"github.com/rileyhilliard/km/internal/ui"
)

// deleteCommand removes a key pair after explicit confirmation.
func deleteCommand(cmd *cobra.Command, name string, force bool) error {
	record, err := findKey(cmd, name)
	if err != nil {
		return err
	}

	confirmed := force
	if !confirmed {
		if !interactive() {
			return errors.New(errors.ErrValidation,
				"Deleting a key needs confirmation",
				"Pass --force to delete without a prompt.")
		}
		confirmed, err = ui.Confirm(
			fmt.Sprintf("Delete key pair '%s'?", record.Name()),
			"Both the private and public key files will be removed. This cannot be undone.")
		if err != nil {
			return err
		}
	}

	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	req, err := sshkey.NewDeletionRequest(*record, true)
	if err != nil {
		return err
	}

	if err := current.store.DeletePair(req); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{"deleted": record.Name()})
	}

	fmt.Printf("%s Deleted %s\n", ui.SymbolSuccess, record.Name())
	return nil
}

// findKey resolves a name to a scanned record. An empty name opens the
// interactive picker when a terminal is available.
func findKey(cmd *cobra.Command, name string) (*sshkey.KeyRecord, error) {
	records, err := current.store.Scan(cmd.Context())
	if err != nil {
		return nil, err
	}

	if name == "" {
		if !interactive() {
			return nil, errors.New(errors.ErrValidation,
				"No key name given",
				"Name the key, e.g.: km show id_ed25519")
		}
		picked, err := ui.PickKey(records)
		if err != nil {
			return nil, err
		}
		if picked == nil {
			return nil, errors.New(errors.ErrCancelled, "No key selected", "")
		}
		return picked, nil
	}

	for i := range records {
		if records[i].Name() == name {
			return &records[i], nil
		}
	}
	return nil, errors.New(errors.ErrNotFound,
		fmt.Sprintf("No key named '%s' in %s", name, current.store.Dir()),
		"Run 'km list' to see what's there.")
}
