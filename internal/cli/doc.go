// Package cli wires km's cobra commands to the keystore backend.
//
// Each command lives in its own file with a matching name: list.go,
// generate.go, delete.go, passphrase.go, deploy.go, show.go, doctor.go,
// init.go. Command registration and flag definitions are collected in
// commands.go; root.go owns the root command and global flags.
//
// Commands never talk to external tools directly; everything goes
// through the keystore.Store built in app.go, so the full CLI surface
// is scriptable against a fake runner.
package cli
