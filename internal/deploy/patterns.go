// Package deploy implements the two ssh-copy-id execution strategies: an
// interactive pseudo-terminal driver that can answer password and
// host-key prompts, and a plain subprocess fallback that only works for
// passwordless (key- or agent-based) authentication.
package deploy

import (
	"strings"

	"github.com/rileyhilliard/km/internal/errors"
)

// Prompt and failure markers in ssh / ssh-copy-id output. These are the
// stable OpenSSH message fragments, matched as substrings against the
// accumulated terminal output.
const (
	markerPassword   = "password:"
	markerHostKey    = "Are you sure you want to continue connecting"
	markerDenied     = "Permission denied"
	markerRefused    = "Connection refused"
	markerNoRoute    = "No route to host"
	markerVerifyFail = "Host key verification failed"
	markerNoResolve  = "Could not resolve hostname"
)

// fatalMarkers map output fragments to terminal failures. Order matters:
// the first match wins.
var fatalMarkers = []string{
	markerVerifyFail,
	markerDenied,
	markerRefused,
	markerNoRoute,
	markerNoResolve,
}

// classifyFatal returns a structured error for output containing a known
// failure marker, or nil when none is present.
func classifyFatal(output, destination string) error {
	for _, marker := range fatalMarkers {
		if !strings.Contains(output, marker) {
			continue
		}
		switch marker {
		case markerDenied:
			return errors.New(errors.ErrTool,
				"Permission denied by "+destination,
				"Double-check the password or credentials and try again.")
		case markerRefused:
			return errors.New(errors.ErrTool,
				"Connection refused by "+destination,
				"Make sure SSH is running on the remote machine.")
		case markerNoRoute:
			return errors.New(errors.ErrTool,
				"No route to "+destination,
				"Check the hostname and your network connection.")
		case markerVerifyFail:
			return errors.New(errors.ErrTool,
				"Host key verification failed for "+destination,
				"The host key changed. Inspect ~/.ssh/known_hosts before retrying.")
		case markerNoResolve:
			return errors.New(errors.ErrTool,
				"Can't resolve hostname "+destination,
				"Check the hostname and your network connection.")
		}
	}
	return nil
}

// hasPasswordPrompt reports whether the output ends in a password prompt.
// Matching is case-insensitive ("password:" and "Password:" both occur).
func hasPasswordPrompt(output string) bool {
	return strings.Contains(strings.ToLower(output), markerPassword)
}

// hasHostKeyPrompt reports whether the output is waiting on a host-key
// confirmation.
func hasHostKeyPrompt(output string) bool {
	return strings.Contains(output, markerHostKey)
}
