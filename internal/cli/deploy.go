package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
	"github.com/rileyhilliard/km/internal/ui"
	"github.com/rileyhilliard/km/pkg/sshutil"
)

// deployTarget is the fully resolved destination after SSH config alias
// lookup and flag overrides.
type deployTarget struct {
	Hostname string
	Username string
	Port     int
}

// resolveTarget turns a command-line target into a concrete destination.
// The target may be 'user@host', a bare hostname, or an alias from
// ~/.ssh/config; explicit --user and --port flags win over everything.
func resolveTarget(target, userFlag string, portFlag int) (deployTarget, error) {
	if strings.TrimSpace(target) == "" {
		return deployTarget{}, errors.New(errors.ErrValidation,
			"No deploy target given",
			"Tell me where to copy the key: 'km deploy <key> user@host'.")
	}

	var out deployTarget
	host := target
	if at := strings.LastIndex(target, "@"); at >= 0 {
		out.Username = target[:at]
		host = target[at+1:]
	}

	if entry, ok := sshutil.Resolve(host); ok {
		out.Hostname = entry.Hostname
		if out.Username == "" {
			out.Username = entry.User
		}
		out.Port = entry.PortNumber()
	} else {
		out.Hostname = host
	}

	if userFlag != "" {
		out.Username = userFlag
	}
	if portFlag != 0 {
		out.Port = portFlag
	}

	if out.Username == "" {
		return deployTarget{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("No username for '%s'", host),
			"Use 'user@host', set --user, or add a User line to ~/.ssh/config.")
	}
	return out, nil
}

// deployCommand copies a public key into a server's authorized_keys
// via ssh-copy-id.
func deployCommand(cmd *cobra.Command, keyName, target, user string, port int, printOnly bool) error {
	record, err := findDeployKey(cmd, keyName)
	if err != nil {
		return err
	}

	dest, err := resolveTarget(target, user, port)
	if err != nil {
		return err
	}

	req, err := sshkey.NewDeploymentRequest(*record, dest.Hostname, dest.Username, dest.Port)
	if err != nil {
		return err
	}

	if printOnly {
		command := current.store.DeployCommand(req)
		if machineMode {
			return WriteJSONSuccess(os.Stdout, map[string]string{"command": command})
		}
		fmt.Println(command)
		return nil
	}

	_, err = runWithSpinner(cmd.Context(),
		fmt.Sprintf("Copying '%s' to %s", record.Name(), req.Destination()),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, current.store.CopyToServer(ctx, req, passwordProvider(req.Destination()))
		})
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(os.Stdout, map[string]string{
			"key":         record.Name(),
			"destination": req.Destination(),
		})
	}

	fmt.Printf("\n%s Key '%s' copied to %s\n", ui.SymbolSuccess, record.Name(), req.Destination())
	fmt.Println("\nTry it: ssh", req.Destination())
	return nil
}

// findDeployKey resolves the key to deploy. Unlike findKey it has a
// non-interactive default: the strongest available pair, ed25519 first.
func findDeployKey(cmd *cobra.Command, name string) (*sshkey.KeyRecord, error) {
	if name != "" || interactive() {
		return findKey(cmd, name)
	}

	records, err := current.store.Scan(cmd.Context())
	if err != nil {
		return nil, err
	}
	if best := sshkey.PreferredKey(records); best != nil {
		return best, nil
	}
	return nil, errors.New(errors.ErrNotFound,
		"No keys in "+current.store.Dir(),
		"Generate one first: km generate")
}
