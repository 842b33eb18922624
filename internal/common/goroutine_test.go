package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})

	SafeGo(arbor.NewLogger(), "panicker", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestSafeGoRunsFunction(t *testing.T) {
	result := make(chan int, 1)

	SafeGo(nil, "worker", func() {
		result <- 42
	})

	select {
	case v := <-result:
		assert.Equal(t, 42, v)
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestWriteCrashFile(t *testing.T) {
	dir := t.TempDir()
	InstallCrashHandler(dir)
	t.Cleanup(func() { CrashLogDir = "./logs" })

	path := WriteCrashFile("wheel exploded", "main.go:1")
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LUNCHWHEEL CRASH REPORT")
	assert.Contains(t, string(data), "wheel exploded")
	assert.Contains(t, string(data), "main.go:1")
}
