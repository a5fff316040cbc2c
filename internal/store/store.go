// Package store persists option sets to a JSON document so that later
// process invocations can recover the configuration an earlier one parsed.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vk/comfyargs/internal/ctxlog"
	"github.com/vk/comfyargs/internal/fsutil"
	"github.com/vk/comfyargs/internal/options"
)

// DefaultPath is where the option document lives, relative to the working
// directory.
const DefaultPath = "temp/temp_args.json"

// Store owns the persisted option document. Writes are last-writer-wins;
// there is no locking between processes.
type Store struct {
	path        string
	commandLine options.Source
}

// New returns a Store persisting to path. commandLine is the source Load
// falls back to when no usable document exists; if nil, the process
// arguments are used.
func New(path string, commandLine options.Source) *Store {
	if path == "" {
		path = DefaultPath
	}
	if commandLine == nil {
		commandLine = options.CommandLine{Args: os.Args[1:], Output: os.Stderr}
	}
	return &Store{path: path, commandLine: commandLine}
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

// Parse resolves src into a fresh option set and then persists it,
// replacing any previous document. Nothing is written if src fails.
func (s *Store) Parse(ctx context.Context, src options.Source) (*options.Options, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving options.", "source", fmt.Sprintf("%T", src))

	opts, err := src.Resolve()
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetWithOverrides is Parse for callers that already hold a complete
// mapping of options rather than command-line tokens.
func (s *Store) SetWithOverrides(ctx context.Context, overrides options.Mapping) (*options.Options, error) {
	return s.Parse(ctx, overrides)
}

// Load reads the persisted document. When it is missing or unreadable, a
// diagnostic is logged and the store's command line is parsed instead,
// which writes a fresh document.
func (s *Store) Load(ctx context.Context) (*options.Options, error) {
	logger := ctxlog.FromContext(ctx)

	opts, err := s.read(ctx)
	switch {
	case err == nil:
		return opts, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("Persisted options not found, parsing the command line.", "path", s.path)
	case errors.Is(err, options.ErrCorruptFile):
		logger.Warn("Persisted options are unreadable, parsing the command line.", "path", s.path, "error", err)
	default:
		return nil, err
	}
	return s.Parse(ctx, s.commandLine)
}

func (s *Store) read(ctx context.Context) (*options.Options, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted options: %w", err)
	}

	opts, ignored, err := options.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	for _, key := range ignored {
		logger.Warn("Ignoring unknown key in persisted options.", "path", s.path, "key", key)
	}
	logger.Debug("Persisted options loaded.", "path", s.path)
	return opts, nil
}

func (s *Store) save(ctx context.Context, opts *options.Options) error {
	logger := ctxlog.FromContext(ctx)

	data, err := opts.Encode()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist options: %w", err)
	}
	logger.Debug("Options persisted.", "path", s.path, "bytes", len(data))
	return nil
}
