package doctor

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rileyhilliard/km/internal/invoke"
)

// toolCheckTimeout bounds the version probes; they should be instant.
const toolCheckTimeout = 5 * time.Second

// KeygenCheck verifies ssh-keygen is installed.
type KeygenCheck struct {
	Runner invoke.Runner
}

func (c *KeygenCheck) Name() string     { return "ssh_keygen" }
func (c *KeygenCheck) Category() string { return "TOOLS" }

func (c *KeygenCheck) Run() CheckResult {
	if _, err := invoke.LookPath("ssh-keygen"); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "ssh-keygen not found",
			Suggestion: "Install the OpenSSH client tools: apt install openssh-client (Linux) or enable the OpenSSH feature (macOS has it built in)",
		}
	}

	// ssh-keygen has no --version flag; ssh shares its release number
	// and prints it on -V.
	version := probeSSHVersion(c.runner())
	if version == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "ssh-keygen found (version unknown)",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("ssh-keygen found (OpenSSH %s)", version),
	}
}

func (c *KeygenCheck) Fix() error {
	return nil // System package installation is out of scope
}

func (c *KeygenCheck) runner() invoke.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return invoke.NewRunner()
}

// CopyIDCheck verifies ssh-copy-id is installed. Deploy is the only
// operation that needs it, so absence is a warning, not a failure.
type CopyIDCheck struct{}

func (c *CopyIDCheck) Name() string     { return "ssh_copy_id" }
func (c *CopyIDCheck) Category() string { return "TOOLS" }

func (c *CopyIDCheck) Run() CheckResult {
	if _, err := invoke.LookPath("ssh-copy-id"); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "ssh-copy-id not found",
			Suggestion: "Key generation still works; install ssh-copy-id to deploy keys to servers",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "ssh-copy-id found",
	}
}

func (c *CopyIDCheck) Fix() error {
	return nil
}

// sshVersionPattern matches "OpenSSH_9.6p1" style banners.
var sshVersionPattern = regexp.MustCompile(`OpenSSH_(\d+\.\d+[^\s,]*)`)

// probeSSHVersion runs ssh -V and extracts the release number. The
// banner goes to stderr.
func probeSSHVersion(runner invoke.Runner) string {
	ctx, cancel := context.WithTimeout(context.Background(), toolCheckTimeout)
	defer cancel()

	res, err := runner.Run(ctx, invoke.Request{
		Argv:    []string{"ssh", "-V"},
		Timeout: toolCheckTimeout,
	})
	if err != nil {
		return ""
	}

	output := append(res.Stderr, res.Stdout...)
	matches := sshVersionPattern.FindSubmatch(output)
	if len(matches) >= 2 {
		return string(matches[1])
	}
	return ""
}
