package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/ui"
)

// showCommand prints a key's public half, for pasting into GitHub or an
// authorized_keys file. --copy puts it on the clipboard instead.
func showCommand(cmd *cobra.Command, name string, copyToClipboard bool) error {
	record, err := findKey(cmd, name)
	if err != nil {
		return err
	}

	contents, err := current.store.ReadPublicKey(*record)
	if err != nil {
		return err
	}

	if copyToClipboard {
		if err := clipboard.WriteAll(contents); err != nil {
			return errors.WrapWithCode(err, errors.ErrTool,
				"Couldn't reach the clipboard",
				"On headless Linux this needs xclip or xsel installed. Drop --copy to print instead.")
		}
		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"copied": record.Name()})
		}
		fmt.Printf("%s Public key '%s' copied to clipboard\n", ui.SymbolSuccess, record.Name())
		return nil
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{
			"name":        record.Name(),
			"fingerprint": record.Fingerprint,
			"public_key":  contents,
		})
	}

	fmt.Println(contents)
	return nil
}
