package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rileyhilliard/km/internal/keystore"
)

// DirPermsCheck verifies the key directory is private (0700). sshd and
// ssh both refuse keys from a world-readable directory.
type DirPermsCheck struct {
	Dir string
}

func (c *DirPermsCheck) Name() string     { return "ssh_dir_perms" }
func (c *DirPermsCheck) Category() string { return "PERMISSIONS" }

func (c *DirPermsCheck) Run() CheckResult {
	if runtime.GOOS == "windows" {
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "permission checks not applicable on Windows"}
	}

	info, err := os.Stat(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: c.Dir + " doesn't exist yet (created on first key)",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Can't inspect " + c.Dir,
			Suggestion: "Check ownership and permissions on the directory",
		}
	}

	if perm := info.Mode().Perm(); perm != 0o700 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s has mode %04o, want 0700", c.Dir, perm),
			Suggestion: "Run with --fix, or: chmod 700 " + c.Dir,
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: c.Dir + " is private (0700)",
	}
}

func (c *DirPermsCheck) Fix() error {
	if _, err := os.Stat(c.Dir); os.IsNotExist(err) {
		return nil
	}
	return os.Chmod(c.Dir, 0o700)
}

// KeyPermsCheck verifies every managed private key is owner-only (0600).
type KeyPermsCheck struct {
	Dir string
}

func (c *KeyPermsCheck) Name() string     { return "key_file_perms" }
func (c *KeyPermsCheck) Category() string { return "PERMISSIONS" }

func (c *KeyPermsCheck) Run() CheckResult {
	if runtime.GOOS == "windows" {
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "permission checks not applicable on Windows"}
	}

	loose := c.looseKeys()
	if loose == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "all private keys are owner-only (0600)",
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    "private keys readable by others: " + strings.Join(loose, ", "),
		Suggestion: "Run with --fix, or: chmod 600 <key>",
		Fixable:    true,
	}
}

func (c *KeyPermsCheck) Fix() error {
	for _, name := range c.looseKeys() {
		if err := os.Chmod(filepath.Join(c.Dir, name), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// looseKeys returns the names of likely private keys whose mode is wider
// than 0600. Unreadable entries are skipped; doctor reports, it doesn't
// insist.
func (c *KeyPermsCheck) looseKeys() []string {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil
	}

	var loose []string
	for _, entry := range entries {
		path := filepath.Join(c.Dir, entry.Name())
		if !keystore.IsLikelyKeyFile(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0o077 != 0 {
			loose = append(loose, entry.Name())
		}
	}
	return loose
}
