package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/comfyargs/internal/options"
	"github.com/vk/comfyargs/internal/store"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       Config
		expected    *Config
		errContains string
	}{
		{
			name:     "Empty config takes defaults",
			input:    Config{},
			expected: &Config{StorePath: store.DefaultPath, LogFormat: "text", LogLevel: "info"},
		},
		{
			name:     "Values are lowercased",
			input:    Config{StorePath: "x.json", LogFormat: "JSON", LogLevel: "Debug"},
			expected: &Config{StorePath: "x.json", LogFormat: "json", LogLevel: "debug"},
		},
		{
			name:        "Invalid log format",
			input:       Config{LogFormat: "xml"},
			errContains: "invalid log-format",
		},
		{
			name:        "Invalid log level",
			input:       Config{LogLevel: "verbose"},
			errContains: "invalid log-level",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(tc.input)
			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestApp_ParsePrintsPersistedDocument(t *testing.T) {
	t.Parallel()
	a, out, _ := SetupAppTest(t, nil)

	opts, err := a.Parse(context.Background(), options.CommandLine{Args: []string{"--port", "9000", "--auto-launch"}})
	require.NoError(t, err)
	assert.Equal(t, 9000, opts.Port)

	data, err := os.ReadFile(a.Store().Path())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), out.String())
}

func TestApp_ShowFallsBackAndLogs(t *testing.T) {
	t.Parallel()
	a, out, logs := SetupAppTest(t, options.Mapping{"listen": "0.0.0.0"})

	opts, err := a.Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", opts.Listen)
	assert.Contains(t, logs.String(), "Persisted options not found")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc))
	assert.Equal(t, "0.0.0.0", doc["listen"])
}

func TestApp_Set(t *testing.T) {
	t.Parallel()
	a, _, _ := SetupAppTest(t, nil)

	path := filepath.Join(t.TempDir(), "overrides.hcl")
	require.NoError(t, os.WriteFile(path, []byte("port = 7777\ncpu = true\n"), 0o600))

	opts, err := a.Set(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7777, opts.Port)
	assert.Equal(t, "cpu", opts.VRAMMode())

	loaded, err := a.Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, opts, loaded)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	buf := &SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "value", record["key"])
}
