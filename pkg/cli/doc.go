// Package cli holds shared helpers for the themis command line:
// error types carried out of subcommands and signal-aware contexts for
// the long-running modes.
package cli
