package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/native"
	"github.com/k-kohey/figkit/internal/render"
)

// Live keeps one container rendered from a document file. Every Reload
// starts a new render pass, so image completions of an earlier pass that
// arrive late are discarded.
type Live struct {
	Path     string
	Frame    string
	FileKey  string
	Delegate *host.Delegate
	// Container is owned by whoever drains Queue.
	Container *native.View
	Queue     *native.Queue
	// OnRender is called on the owner goroutine after each pass.
	OnRender func(*render.Result, *images.Batch)
	Logger   *slog.Logger
}

// NewLive creates a live renderer for the settings' document and view.
// Remote image completions are posted to the returned Live's Queue.
func NewLive(s config.Settings, logger *slog.Logger) (*Live, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if s.Platform == "" {
		s.Platform = config.DefaultPlatform
	}
	opts, err := HostOptions(s, logger)
	if err != nil {
		return nil, err
	}
	queue := native.NewQueue()
	opts.Dispatcher = queue
	d, err := host.New(s.Platform, opts)
	if err != nil {
		return nil, err
	}
	return &Live{
		Path:      s.File,
		Frame:     s.View,
		FileKey:   s.FileKey,
		Delegate:  d,
		Container: d.CreateEmptyView(),
		Queue:     queue,
		Logger:    logger,
	}, nil
}

// Reload re-reads the document and renders the frame into the container.
// It must run on the goroutine that drains Queue.
func (l *Live) Reload(ctx context.Context) error {
	doc, err := document.LoadFile(l.Path)
	if err != nil {
		return err
	}
	res, batch, err := l.Delegate.LoadFrame(ctx, l.Container, doc, l.Frame, l.FileKey)
	if res != nil {
		l.Logger.Debug("Rendered", "view", l.Frame, "generation", res.Generation, "converted", res.Converted)
		if l.OnRender != nil {
			l.OnRender(res, batch)
		}
	}
	return err
}

// Run renders once and then re-renders on every change until ctx is done.
func (l *Live) Run(ctx context.Context, debounce time.Duration) error {
	if err := l.Reload(ctx); err != nil {
		l.Logger.Warn("Initial render failed", "path", l.Path, "err", err)
	}
	return Watch(ctx, l.Path, WatchOptions{Debounce: debounce, Queue: l.Queue, Logger: l.Logger}, l.Reload)
}
