package images

import (
	"context"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/k-kohey/figkit/internal/native"
)

// Source resolves the images of one render pass. container is the view the
// pass rendered into; its generation identifies the pass.
type Source interface {
	Load(ctx context.Context, container *native.View, views []*native.ImageView) *Batch
}

// Stats summarizes a batch.
type Stats struct {
	// Loaded images were assigned to their view.
	Loaded int `json:"loaded" yaml:"loaded"`
	// Missing images had no resource or URL.
	Missing int `json:"missing" yaml:"missing"`
	// Failed images could not be read, fetched or decoded.
	Failed int `json:"failed" yaml:"failed"`
	// Stale images arrived after their pass was superseded or their view
	// was torn down, and were dropped.
	Stale int `json:"stale" yaml:"stale"`
}

// Future is the pending result of one image.
type Future struct {
	View *native.ImageView

	done chan struct{}
	img  image.Image
	err  error
}

func newFuture(v *native.ImageView) *Future {
	return &Future{View: v, done: make(chan struct{})}
}

func (f *Future) complete(img image.Image, err error) {
	f.img, f.err = img, err
	close(f.done)
}

// Done is closed once the image is decoded or has failed.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the future completes or ctx is done.
func (f *Future) Await(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Batch tracks the futures of one Load call.
type Batch struct {
	futures []*Future
	done    chan struct{}

	loaded, missing, failed, stale atomic.Int64
}

func newBatch(views []*native.ImageView) *Batch {
	b := &Batch{done: make(chan struct{})}
	for _, v := range views {
		b.futures = append(b.futures, newFuture(v))
	}
	return b
}

// Futures returns one future per view, in input order.
func (b *Batch) Futures() []*Future { return b.futures }

// Done is closed when every future has completed and every completion has
// been handed to the dispatcher. Applying them is up to the UI loop.
func (b *Batch) Done() <-chan struct{} { return b.done }

// Wait blocks until Done or ctx is cancelled and returns the stats so far.
func (b *Batch) Wait(ctx context.Context) (Stats, error) {
	select {
	case <-b.done:
		return b.Stats(), nil
	case <-ctx.Done():
		return b.Stats(), ctx.Err()
	}
}

func (b *Batch) Stats() Stats {
	return Stats{
		Loaded:  int(b.loaded.Load()),
		Missing: int(b.missing.Load()),
		Failed:  int(b.failed.Load()),
		Stale:   int(b.stale.Load()),
	}
}

// apply assigns img to the future's view unless the pass was superseded.
// Runs on the goroutine that owns the tree.
func (b *Batch) apply(logger *slog.Logger, container *native.View, gen uint64, f *Future, img image.Image) {
	if container != nil && container.Generation() != gen {
		b.stale.Add(1)
		logger.Debug("Dropping image from superseded render", "node", f.View.NodeID, "generation", gen)
		return
	}
	if !f.View.SetImage(img) {
		b.stale.Add(1)
		logger.Debug("Dropping image for detached view", "node", f.View.NodeID)
		return
	}
	b.loaded.Add(1)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
