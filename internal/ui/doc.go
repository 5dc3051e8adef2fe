// Package ui provides the terminal output components for km's CLI.
//
// The package includes a line spinner for long-running key operations,
// a table renderer for key listings, interactive pickers and prompts
// built on Huh, and styled text output using Lip Gloss.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// ConfigureColors applies the config's output.color mode ("auto",
// "always", "never") before any styled output is produced.
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Generating key")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// The spinner handles terminal output, clearing lines, and timing
// display. For work dispatched to another goroutine, RunWithSpinner
// wraps the whole lifecycle.
package ui
