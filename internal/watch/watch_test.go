package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create pdf", "/in/report.pdf", fsnotify.Create, true},
		{"write pdf", "/in/report.pdf", fsnotify.Write, true},
		{"upper-case extension", "/in/SCAN.PDF", fsnotify.Create, true},
		{"remove", "/in/report.pdf", fsnotify.Remove, false},
		{"rename", "/in/report.pdf", fsnotify.Rename, false},
		{"chmod", "/in/report.pdf", fsnotify.Chmod, false},
		{"not a pdf", "/in/notes.txt", fsnotify.Create, false},
		{"hidden", "/in/.report.pdf", fsnotify.Create, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCandidate(fsnotify.Event{Name: tt.path, Op: tt.op}))
		})
	}
}

func TestTrackerWaitsForStableSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	tr := newTracker()
	tr.touch(path)

	assert.Empty(t, tr.ready(os.Stat), "first look only records the size")

	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 more"), 0o644))
	assert.Empty(t, tr.ready(os.Stat), "size changed")

	assert.Equal(t, []string{path}, tr.ready(os.Stat))
	assert.Zero(t, tr.pending())
}

func TestTrackerTouchRestarts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	tr := newTracker()
	tr.touch(path)
	tr.ready(os.Stat)
	tr.touch(path)
	assert.Empty(t, tr.ready(os.Stat))
	assert.Equal(t, []string{path}, tr.ready(os.Stat))
}

func TestTrackerDropsVanishedAndEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tr := newTracker()
	tr.touch(filepath.Join(dir, "gone.pdf"))
	tr.touch(empty)

	assert.Empty(t, tr.ready(os.Stat))
	assert.Empty(t, tr.ready(os.Stat), "empty files never become ready")
	assert.Equal(t, 1, tr.pending())
}

func TestRunValidates(t *testing.T) {
	w := New(t.TempDir(), time.Second, 1, nil)
	assert.Error(t, w.Run(context.Background()))

	w = New(t.TempDir(), 0, 1, func(context.Context, string) error { return nil })
	assert.Error(t, w.Run(context.Background()))

	w = New(filepath.Join(t.TempDir(), "missing"), time.Second, 1, func(context.Context, string) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}

func TestRunHandlesNewAndExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "old.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("%PDF-1.4 old"), 0o644))

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{}, 4)
	w := New(dir, 20*time.Millisecond, 100, func(_ context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return errors.New("handler errors are logged only")
	})
	w.Existing = true

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	waitFor(t, done)

	// Give the watcher time to register before the new file appears
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.pdf"), []byte("%PDF-1.4 new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("text"), 0o644))
	waitFor(t, done)

	cancel()
	require.NoError(t, <-errc)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"old.pdf", "new.pdf"}, seen)
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
}
