//go:build linux
// +build linux

package pipe

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPipe(t *testing.T) *Pipe {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "test.fifo"), zap.NewNop())
}

func TestEnsureCreatesFIFO(t *testing.T) {
	p := newTestPipe(t)

	require.NoError(t, p.Ensure())
	assert.True(t, IsFIFO(p.Path()))

	// Idempotent: a second call leaves the FIFO alone.
	require.NoError(t, p.Ensure())
	assert.True(t, IsFIFO(p.Path()))
}

func TestEnsureReplacesStaleFile(t *testing.T) {
	p := newTestPipe(t)
	require.NoError(t, os.WriteFile(p.Path(), []byte("stale"), 0o644))

	require.NoError(t, p.Ensure())
	assert.True(t, IsFIFO(p.Path()))
}

func TestOpenDeliversLinesInWriteOrder(t *testing.T) {
	p := newTestPipe(t)
	require.NoError(t, p.Ensure())

	go func() {
		w, err := os.OpenFile(p.Path(), os.O_WRONLY, 0)
		if err != nil {
			return
		}
		defer w.Close()
		w.WriteString("hold::/a\n")
		w.WriteString("recognize::/b\n")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, err := p.Open(ctx)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	assert.Equal(t, "hold::/a", sc.Text())
	require.True(t, sc.Scan())
	assert.Equal(t, "recognize::/b", sc.Text())

	// Writer closed its end: the stream terminates.
	assert.False(t, sc.Scan())
	require.NoError(t, sc.Err())
}

func TestOpenYieldsFreshStreamPerWriter(t *testing.T) {
	p := newTestPipe(t)
	require.NoError(t, p.Ensure())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, line := range []string{"first", "second"} {
		line := line
		go func() {
			w, err := os.OpenFile(p.Path(), os.O_WRONLY, 0)
			if err != nil {
				return
			}
			w.WriteString(line + "\n")
			w.Close()
		}()

		f, err := p.Open(ctx)
		require.NoError(t, err)

		sc := bufio.NewScanner(f)
		require.True(t, sc.Scan())
		assert.Equal(t, line, sc.Text())
		assert.False(t, sc.Scan())
		f.Close()
	}
}

func TestOpenUnblocksOnCancel(t *testing.T) {
	p := newTestPipe(t)
	require.NoError(t, p.Ensure())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Open(ctx)
		done <- err
	}()

	// Give the open a moment to block, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Open did not unblock after cancellation")
	}

	// The FIFO entry stays in place for the next start.
	assert.True(t, IsFIFO(p.Path()))
}
