// Package options defines the set of options recognized by the server, the
// schema used to read and write them, and the ways an option set can be
// produced: from raw command-line tokens, from an already parsed flag set,
// or from a mapping of option names to values.
//
// Every path into an Options value passes through the same field schema, so
// the command line, in-memory mappings, HCL override files and the persisted
// JSON document all agree on names and types.
package options
