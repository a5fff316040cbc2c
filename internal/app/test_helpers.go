package app

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vk/comfyargs/internal/options"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an App persisting into a fresh temporary directory.
// It returns the App together with buffers capturing its output and logs.
func SetupAppTest(t *testing.T, commandLine options.Source) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	cfg, err := NewConfig(Config{
		StorePath: filepath.Join(t.TempDir(), "temp", "temp_args.json"),
		LogLevel:  "debug",
		LogFormat: "text",
	})
	if err != nil {
		t.Fatalf("failed to build test config: %v", err)
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	return New(out, logs, cfg, commandLine), out, logs
}
