package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw, err := NewFileWatcher(root, []string{"dist"})
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist", "main.js")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules", "x")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "distant.js")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "App.vue")))
}

func TestIsSource(t *testing.T) {
	fw, err := NewFileWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.isSource("src/App.vue"))
	assert.True(t, fw.isSource("src/main.JS"))
	assert.False(t, fw.isSource("README.md"))
}

func TestWatch_DebouncedChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	fw, err := NewFileWatcher(root, nil)
	require.NoError(t, err)
	fw.FileWatcher.Debounce = 100 * time.Millisecond

	started := make(chan struct{})
	var changes atomic.Int32
	fw.FileWatcher.AddOnStartFunc(func() error { close(started); return nil })
	fw.FileWatcher.AddOnChangeFunc(func() error { changes.Add(1); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	<-started
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.vue"), []byte{byte('a' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, fw.Close())
	assert.Equal(t, int32(1), changes.Load())
}

func TestWatch_ChangesDuringRunDoNotOverlap(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "App.vue")

	fw, err := NewFileWatcher(root, nil)
	require.NoError(t, err)
	fw.FileWatcher.Debounce = 20 * time.Millisecond

	started := make(chan struct{})
	entered := make(chan struct{}, 8)
	var running, maxRunning, changes atomic.Int32
	fw.FileWatcher.AddOnStartFunc(func() error { close(started); return nil })
	fw.FileWatcher.AddOnChangeFunc(func() error {
		n := running.Add(1)
		defer running.Add(-1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		entered <- struct{}{}
		time.Sleep(300 * time.Millisecond)
		changes.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	<-started
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first rescan did not start")
	}

	// saved twice while the first run is still going
	require.NoError(t, os.WriteFile(src, []byte("b"), 0o644))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, os.WriteFile(src, []byte("c"), 0o644))

	assert.Eventually(t, func() bool { return changes.Load() == 2 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, fw.Close())
	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Equal(t, int32(0), running.Load())
}

func TestShouldExcludePath_AbsoluteOutput(t *testing.T) {
	root := t.TempDir()
	fw, err := NewFileWatcher(root, ExcludeRelative(root, filepath.Join(root, "dist"), "build/out", filepath.Join(t.TempDir(), "elsewhere")))
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist", "app.js")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "build", "out", "app.js")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "app.js")))
}
