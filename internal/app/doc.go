// Package app wires the option store to a logger and an output stream. It
// owns the process-level configuration (where options are persisted, how
// logs look) and is decoupled from any specific entrypoint like a CLI.
package app
