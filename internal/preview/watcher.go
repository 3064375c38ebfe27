package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/k-kohey/figkit/internal/native"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	// Queue, when set, is drained on the watch goroutine, which then owns
	// the rendered tree: reloads and image completions never race.
	Queue  *native.Queue
	Logger *slog.Logger
}

// Watch calls reload whenever path is written or re-created, until ctx is
// done. The parent directory is watched so atomic saves (write to a temp
// file, then rename) are seen. reload errors are logged, not returned.
func Watch(ctx context.Context, path string, opts WatchOptions, reload func(context.Context) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	// The timer only signals; reload runs in the select loop below.
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	var ready <-chan struct{}
	if opts.Queue != nil {
		ready = opts.Queue.Ready()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// Accept Write and Create (atomic save = rename creates new file)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			logger.Debug("Document changed, reloading", "path", target)
			if err := reload(ctx); err != nil {
				logger.Warn("Reload failed", "path", target, "err", err)
			}

		case <-ready:
			opts.Queue.Drain()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "err", err)
		}
	}
}
