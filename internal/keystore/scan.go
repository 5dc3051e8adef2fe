package keystore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/invoke"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// reservedNames are well-known ~/.ssh files that are never private keys.
var reservedNames = map[string]bool{
	"config":          true,
	"known_hosts":     true,
	"authorized_keys": true,
}

// Scan enumerates the key directory and returns a record for every valid
// private/public pair. A key that fails introspection is dropped from the
// result, never aborts the scan: the filesystem can change under us and a
// single unreadable file must not hide the rest.
//
// Result order follows directory enumeration order and is not guaranteed
// stable across filesystems; callers needing a stable order sort
// explicitly.
func (s *Store) Scan(ctx context.Context) ([]sshkey.KeyRecord, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, before any key exists.
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrPermission,
			"Can't access key directory: "+s.dir,
			"Check permissions on the directory.")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrConfig,
			s.dir+" is not a directory",
			"Point ssh_dir at a directory, conventionally ~/.ssh.")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPermission,
			"Couldn't list key directory: "+s.dir,
			"Check permissions on the directory.")
	}

	var records []sshkey.KeyRecord
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if reservedNames[name] || filepath.Ext(name) == ".pub" {
			continue
		}

		privatePath := filepath.Join(s.dir, name)
		publicPath := privatePath + ".pub"
		if _, err := os.Stat(publicPath); err != nil {
			// Orphaned private key: nothing this tool can do with it.
			s.log.Debug("skipping %s: no public counterpart", name)
			continue
		}

		record, err := s.buildRecord(ctx, privatePath, publicPath)
		if err != nil {
			s.log.Debug("skipping %s: %v", name, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Refresh re-derives the metadata of an existing record, returning a new
// value. It fails with NOTFOUND when either file has disappeared since
// the record was built.
func (s *Store) Refresh(ctx context.Context, record sshkey.KeyRecord) (sshkey.KeyRecord, error) {
	for _, path := range []string{record.PrivatePath, record.PublicPath} {
		if _, err := os.Stat(path); err != nil {
			return sshkey.KeyRecord{}, errors.WrapWithCode(err, errors.ErrNotFound,
				"Key file no longer exists: "+path,
				"The pair was deleted or renamed. Rescan the directory.")
		}
	}
	return s.buildRecord(ctx, record.PrivatePath, record.PublicPath)
}

// buildRecord derives a full KeyRecord for one pair via ssh-keygen -lf
// plus a read of the public key file. Any failure here means the pair is
// not representable and the caller decides whether to skip or surface it.
func (s *Store) buildRecord(ctx context.Context, privatePath, publicPath string) (sshkey.KeyRecord, error) {
	info, err := s.introspect(ctx, publicPath)
	if err != nil {
		return sshkey.KeyRecord{}, err
	}
	if info.Type == sshkey.KeyTypeUnknown {
		return sshkey.KeyRecord{}, errors.New(errors.ErrParse,
			"Couldn't classify key type for "+privatePath,
			"The key may use an algorithm this tool doesn't manage.")
	}

	stat, err := os.Stat(privatePath)
	if err != nil {
		return sshkey.KeyRecord{}, errors.WrapWithCode(err, errors.ErrNotFound,
			"Private key disappeared during scan: "+privatePath, "")
	}

	record := sshkey.KeyRecord{
		PrivatePath:  privatePath,
		PublicPath:   publicPath,
		Type:         info.Type,
		Fingerprint:  info.Fingerprint,
		LastModified: stat.ModTime(),
	}

	// Bit size is only meaningful for sized algorithms.
	if info.Type == sshkey.KeyTypeRSA || info.Type == sshkey.KeyTypeECDSA {
		record.BitSize = info.BitSize
	}

	if data, err := os.ReadFile(publicPath); err == nil {
		if comment, ok := sshkey.ParsePublicKeyComment(string(data)); ok {
			record.Comment = comment
		}
	}

	return record, nil
}

// introspect runs ssh-keygen -lf on a key file and parses the first line.
func (s *Store) introspect(ctx context.Context, path string) (sshkey.FingerprintInfo, error) {
	res, err := s.runner.Run(ctx, invoke.Request{
		Argv:    []string{"ssh-keygen", "-lf", path},
		Timeout: s.timeouts.Introspect,
	})
	if err != nil {
		return sshkey.FingerprintInfo{}, err
	}
	if res.ExitCode != 0 {
		return sshkey.FingerprintInfo{}, errors.NewTool(
			"ssh-keygen couldn't read "+path, string(res.Stderr))
	}

	line := res.Stdout
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	info := sshkey.ParseFingerprintLine(string(line))
	if info.Fingerprint == "" {
		return sshkey.FingerprintInfo{}, errors.New(errors.ErrParse,
			"Unexpected ssh-keygen -lf output for "+path,
			"The output format may have changed; please report this.")
	}
	return info, nil
}

// IsLikelyKeyFile reports whether a path looks like a managed private
// key: a regular, non-reserved, non-.pub file with a .pub sibling whose
// content has a PEM-style private key marker. This is a permissive
// pre-filter, not security-critical validation.
func IsLikelyKeyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	name := filepath.Base(path)
	if reservedNames[name] || filepath.Ext(name) == ".pub" {
		return false
	}

	if _, err := os.Stat(path + ".pub"); err != nil {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	begin := bytes.Index(data, []byte("-----BEGIN"))
	if begin < 0 {
		return false
	}
	return bytes.Contains(data[begin:], []byte("PRIVATE KEY-----"))
}
