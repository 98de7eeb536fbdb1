//go:build unix

package output

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for non-regular destinations:
// - A FIFO receives the document and is still a FIFO afterwards
// - /dev/null is writable and left alone

func TestOpen_FIFO(t *testing.T) {
	t.Parallel()

	pipe := filepath.Join(t.TempDir(), "pipe")
	require.NoError(t, syscall.Mkfifo(pipe, 0o600))

	received := make(chan string, 1)
	go func() {
		f, err := os.Open(pipe)
		if err != nil {
			received <- err.Error()
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		received <- string(data)
	}()

	writeDocument(t, pipe, "[\n]\n")
	assert.Equal(t, "[\n]\n", <-received)

	info, err := os.Lstat(pipe)
	require.NoError(t, err)
	assert.Equal(t, os.ModeNamedPipe, info.Mode()&os.ModeNamedPipe, "fifo must not be replaced")
}

func TestOpen_DevNull(t *testing.T) {
	t.Parallel()

	writeDocument(t, os.DevNull, "[\n]\n")

	info, err := os.Stat(os.DevNull)
	require.NoError(t, err)
	assert.Equal(t, os.ModeCharDevice, info.Mode()&os.ModeCharDevice)
}
