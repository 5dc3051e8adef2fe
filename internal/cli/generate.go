package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/dispatch"
	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
	"github.com/rileyhilliard/km/internal/ui"
)

// GenerateOptions holds the generate command's inputs after flag
// parsing and any interactive prompting.
type GenerateOptions struct {
	Type       string
	Filename   string
	Bits       int
	Comment    string
	Passphrase string
	// NoPassphrase skips the interactive passphrase prompt.
	NoPassphrase bool
}

// buildGenerationRequest turns CLI inputs into a validated request,
// applying config defaults. A --bits value on a fixed-size algorithm is
// rejected rather than ignored, so nobody believes they got a 4096-bit
// ed25519 key.
func buildGenerationRequest(opts GenerateOptions, defaultType string, defaultBits int) (sshkey.GenerationRequest, error) {
	var keyType sshkey.KeyType
	if opts.Type == "" {
		keyType = sshkey.KeyType(defaultType)
	} else {
		parsed, err := sshkey.ParseKeyType(opts.Type)
		if err != nil {
			return sshkey.GenerationRequest{}, errors.New(errors.ErrValidation,
				fmt.Sprintf("Invalid key type '%s'", opts.Type),
				"Supported types: ed25519 (recommended), rsa, ecdsa")
		}
		keyType = parsed
	}

	if opts.Bits != 0 && keyType.FixedSize() {
		return sshkey.GenerationRequest{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("--bits doesn't apply to %s keys", keyType.Display()),
			"Only RSA key sizes are configurable. Drop --bits, or use --type rsa.")
	}

	bits := opts.Bits
	if keyType == sshkey.KeyTypeRSA && bits == 0 {
		bits = defaultBits
	}

	filename := opts.Filename
	if filename == "" {
		filename = defaultFilename(keyType)
	}

	return sshkey.NewGenerationRequest(keyType, filename, opts.Passphrase, opts.Comment, bits)
}

// defaultFilename follows the OpenSSH convention for the algorithm.
func defaultFilename(t sshkey.KeyType) string {
	return "id_" + string(t)
}

// generateCommand creates a new key pair.
func generateCommand(cmd *cobra.Command, opts GenerateOptions) error {
	// Prompt for a passphrase only when one wasn't decided on the
	// command line and a human is present to answer.
	if opts.Passphrase == "" && !opts.NoPassphrase && interactive() {
		passphrase, err := ui.PromptNewPassphrase("Passphrase for the new key")
		if err != nil {
			return err
		}
		opts.Passphrase = passphrase
	}

	req, err := buildGenerationRequest(opts, current.cfg.DefaultType, current.cfg.DefaultRSABits)
	if err != nil {
		return err
	}

	record, err := runWithSpinner(cmd.Context(),
		fmt.Sprintf("Generating %s key '%s'", req.Type.Display(), req.Filename),
		func(ctx context.Context) (sshkey.KeyRecord, error) {
			return current.store.Generate(ctx, req)
		})
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, record)
	}

	fmt.Printf("\n%s %s\n", ui.SymbolKey, record.PrivatePath)
	fmt.Printf("  %s\n", record.Fingerprint)
	fmt.Println("\nDeploy it to a server: km deploy", record.Name(), "user@host")
	return nil
}

// runWithSpinner dispatches fn off the main goroutine and animates a
// spinner while it runs. In machine mode the spinner stays silent.
func runWithSpinner[T any](ctx context.Context, label string, fn func(context.Context) (T, error)) (T, error) {
	d := dispatch.New()
	out := dispatch.Go(d, ctx, fn)

	if machineMode || !interactive() {
		res := <-out
		return res.Value, res.Err
	}

	s := ui.NewSpinner(label)
	s.Start()
	res := <-out
	if res.Err != nil {
		s.Fail()
	} else {
		s.Success()
	}
	return res.Value, res.Err
}
