// Package watch extracts PDFs as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Handler processes one stable PDF file
type Handler func(ctx context.Context, path string) error

// Watcher waits for .pdf files in Dir to stop growing and hands them to the
// handler one at a time, no faster than the limiter allows.
type Watcher struct {
	Dir      string
	Interval time.Duration
	Handler  Handler
	Limiter  *rate.Limiter
	Logger   *slog.Logger

	// Existing also queues PDFs already in Dir when Run starts
	Existing bool
}

// New returns a Watcher for dir. perSecond caps how many files are handled
// per second.
func New(dir string, interval time.Duration, perSecond float64, handler Handler) *Watcher {
	return &Watcher{
		Dir:      dir,
		Interval: interval,
		Handler:  handler,
		Limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// isCandidate reports whether an event may announce a new or changed PDF
func isCandidate(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".pdf")
}

// tracker remembers the last seen size of pending files
type tracker struct {
	sizes map[string]int64
}

func newTracker() *tracker {
	return &tracker{sizes: map[string]int64{}}
}

// touch marks path as changed, restarting its stability wait
func (t *tracker) touch(path string) {
	t.sizes[path] = -1
}

// ready stats every pending file and returns, sorted, those whose size is
// non-zero and unchanged since the previous call. Files that vanished are
// dropped.
func (t *tracker) ready(stat func(string) (os.FileInfo, error)) []string {
	var out []string
	for path, last := range t.sizes {
		info, err := stat(path)
		if err != nil || info.IsDir() {
			delete(t.sizes, path)
			continue
		}
		size := info.Size()
		if size > 0 && size == last {
			out = append(out, path)
			delete(t.sizes, path)
			continue
		}
		t.sizes[path] = size
	}
	sort.Strings(out)
	return out
}

func (t *tracker) pending() int {
	return len(t.sizes)
}

// Run watches until ctx is cancelled. Handler errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Handler == nil {
		return errors.New("watch: no handler")
	}
	if w.Interval <= 0 {
		return fmt.Errorf("watch: interval must be positive, got %v", w.Interval)
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limiter := w.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	pending := newTracker()
	if w.Existing {
		entries, err := os.ReadDir(w.Dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", w.Dir, err)
		}
		for _, e := range entries {
			path := filepath.Join(w.Dir, e.Name())
			if !e.IsDir() && isCandidate(fsnotify.Event{Name: path, Op: fsnotify.Create}) {
				pending.touch(path)
			}
		}
	}

	logger.Info("watch: started", "dir", w.Dir, "interval", w.Interval)
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch: stopped", "dir", w.Dir)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if isCandidate(event) {
				logger.Debug("watch: change", "file", event.Name, "op", event.Op.String())
				pending.touch(event.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", "error", err)

		case <-ticker.C:
			if pending.pending() == 0 {
				continue
			}
			for _, path := range pending.ready(os.Stat) {
				if err := limiter.Wait(ctx); err != nil {
					return nil
				}
				logger.Info("watch: extracting", "file", path)
				if err := w.Handler(ctx, path); err != nil {
					logger.Error("watch: extraction failed", "file", path, "error", err)
				}
			}
		}
	}
}
