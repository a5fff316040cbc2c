package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
}

func TestDecodeHCL(t *testing.T) {
	t.Parallel()

	src := `
listen      = "0.0.0.0"
port        = 9000
auto-launch = true
cuda_device = 1
extra_model_paths_config = ["a.yaml", "b.yaml"]
`
	m, err := DecodeHCL("overrides.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, m, 5)

	got, err := m.Resolve()
	require.NoError(t, err)

	expected := with(func(o *Options) {
		o.Listen = "0.0.0.0"
		o.Port = 9000
		o.AutoLaunch = true
		o.CUDADevice = intPtr(1)
		o.ExtraModelPathsConfig = []string{"a.yaml", "b.yaml"}
	})
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHCL_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "Syntax error",
			src:         `port = `,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "Blocks are rejected",
			src:         "server {\n  port = 1\n}\n",
			errContains: "failed to decode HCL file",
		},
		{
			name:        "Variables cannot be resolved",
			src:         `port = var.port`,
			errContains: "failed to evaluate port",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeHCL("bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestDecodeHCL_InvalidValueFailsOnResolve(t *testing.T) {
	t.Parallel()

	m, err := DecodeHCL("overrides.hcl", []byte(`port = "eighty"`))
	require.NoError(t, err)

	_, err = m.Resolve()
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Msg, "argument --port")
}

func TestLoadHCLOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "10-base.hcl"), "port = 1000\nlisten = \"10.0.0.1\"\nauto_launch = true\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-site.hcl"), "port = 2000\nauto-launch = false\n")
	writeFile(t, filepath.Join(dir, "conf.d", "notes.txt"), "not an override file")
	writeFile(t, filepath.Join(dir, "last.hcl"), "highvram = true\n")

	m, err := LoadHCLOverrides(filepath.Join(dir, "conf.d"), filepath.Join(dir, "last.hcl"))
	require.NoError(t, err)
	assert.Len(t, m, 4, "auto_launch and auto-launch should merge into one entry")

	got, err := m.Resolve()
	require.NoError(t, err)

	expected := with(func(o *Options) {
		o.Port = 2000
		o.Listen = "10.0.0.1"
		o.AutoLaunch = false
		o.HighVRAM = true
	})
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadHCLOverrides_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := LoadHCLOverrides(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error accessing path")
}
