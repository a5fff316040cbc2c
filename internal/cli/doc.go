// Package cli is responsible for the command tree, for turning command-line
// tokens into option sets and process settings, and for handling
// process-level concerns like exit codes.
package cli
