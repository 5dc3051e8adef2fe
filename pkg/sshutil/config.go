// Package sshutil reads the user's SSH client config (~/.ssh/config) so
// deploy targets can be given as aliases and host pickers can offer
// known hosts.
package sshutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry represents a parsed host entry from SSH config.
type HostEntry struct {
	Alias        string // The Host pattern (alias)
	Hostname     string // The HostName value (actual host to connect to)
	User         string // The User value
	Port         string // The Port value
	IdentityFile string // The IdentityFile value
}

// Description returns a user-friendly description of the host.
func (h HostEntry) Description() string {
	parts := []string{}

	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}

	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}

	if h.Port != "" && h.Port != "22" {
		parts = append(parts, "port: "+h.Port)
	}

	if len(parts) == 0 {
		return h.Alias
	}

	return strings.Join(parts, ", ")
}

// PortNumber returns the entry's port as an int, or 0 when unset or
// unparseable (callers apply the default).
func (h HostEntry) PortNumber() int {
	if h.Port == "" {
		return 0
	}
	n, err := strconv.Atoi(h.Port)
	if err != nil {
		return 0
	}
	return n
}

// ParseConfig parses ~/.ssh/config and returns all host entries.
// It filters out wildcard patterns, returning only concrete host aliases.
func ParseConfig() ([]HostEntry, error) {
	configPath := filepath.Join(homeDir(), ".ssh", "config")
	return ParseConfigFile(configPath)
}

// ParseConfigFile parses the specified SSH config file.
func ParseConfigFile(configPath string) ([]HostEntry, error) {
	content, err := preprocessConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No SSH config is fine
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []HostEntry
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()

			// Skip wildcards and special patterns
			if strings.Contains(alias, "*") || strings.Contains(alias, "?") {
				continue
			}

			if seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{
				Alias: alias,
			}

			if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
				entry.Hostname = hostname
			}

			if user, _ := cfg.Get(alias, "User"); user != "" {
				entry.User = user
			}

			if port, _ := cfg.Get(alias, "Port"); port != "" {
				entry.Port = port
			}

			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				entry.IdentityFile = expandPath(identity)
			}

			hosts = append(hosts, entry)
		}
	}

	// Sort by alias for consistent ordering
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})

	return hosts, nil
}

// Resolve looks up target among the configured aliases. When target is
// an alias, the returned entry carries the config's hostname, user, and
// port; otherwise ok is false and the caller uses target verbatim.
func Resolve(target string) (HostEntry, bool) {
	hosts, err := ParseConfig()
	if err != nil {
		return HostEntry{}, false
	}
	return resolveIn(hosts, target)
}

// ResolveIn is Resolve against an explicit config file, for tests and
// non-default setups.
func ResolveIn(configPath, target string) (HostEntry, bool) {
	hosts, err := ParseConfigFile(configPath)
	if err != nil {
		return HostEntry{}, false
	}
	return resolveIn(hosts, target)
}

func resolveIn(hosts []HostEntry, target string) (HostEntry, bool) {
	for _, h := range hosts {
		if h.Alias == target {
			if h.Hostname == "" {
				h.Hostname = h.Alias
			}
			return h, true
		}
	}
	return HostEntry{}, false
}

// preprocessConfig reads the SSH config up to the first Match directive.
// The parser doesn't understand Match blocks, and the simple host
// aliases we care about come before them in practice.
func preprocessConfig(configPath string) ([]byte, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(trimmed), "match ") {
			break
		}
		result = append(result, line)
	}

	return []byte(strings.Join(result, "\n")), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
