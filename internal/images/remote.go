package images

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/k-kohey/figkit/internal/native"
)

// URLResolver maps node IDs to rendered image URLs in one request.
type URLResolver interface {
	ImageURLs(ctx context.Context, fileKey string, ids []string, format string, scale float64) (map[string]string, error)
}

// DefaultConcurrency bounds parallel downloads when Remote.Concurrency is unset.
const DefaultConcurrency = 4

// Remote renders image-bearing nodes through the Figma API. Load returns
// immediately; each image is an independent future whose result is posted
// to Dispatcher and applied only if the container is still on the same
// render pass.
type Remote struct {
	Resolver URLResolver
	FileKey  string
	// Fetch downloads one URL. Defaults to Fetch with HTTPClient.
	Fetch       func(ctx context.Context, url string) (image.Image, error)
	HTTPClient  *http.Client
	Dispatcher  native.Dispatcher
	Concurrency int
	Logger      *slog.Logger
}

func (r *Remote) fetch(ctx context.Context, url string) (image.Image, error) {
	if r.Fetch != nil {
		return r.Fetch(ctx, url)
	}
	return Fetch(ctx, r.HTTPClient, url)
}

// post hands fn to the dispatcher. Without one, fn runs inline, which is
// only correct for headless trees nobody else touches.
func (r *Remote) post(fn func()) {
	if r.Dispatcher == nil {
		fn()
		return
	}
	r.Dispatcher.Post(fn)
}

// Load must be called on the goroutine that owns the tree, right after the
// render pass that produced views.
func (r *Remote) Load(ctx context.Context, container *native.View, views []*native.ImageView) *Batch {
	logger := loggerOr(r.Logger)
	b := newBatch(views)
	gen := uint64(0)
	if container != nil {
		gen = container.Generation()
	}

	go r.run(ctx, logger, container, gen, b)
	return b
}

func (r *Remote) run(ctx context.Context, logger *slog.Logger, container *native.View, gen uint64, b *Batch) {
	defer close(b.done)
	if len(b.futures) == 0 {
		return
	}

	seen := make(map[string]bool)
	var ids []string
	for _, f := range b.futures {
		if id := f.View.NodeID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	urls, err := r.Resolver.ImageURLs(ctx, r.FileKey, ids, "png", Scale)
	if err != nil {
		logger.Error("Error resolving image urls", "file", r.FileKey, "err", err)
		for _, f := range b.futures {
			b.failed.Add(1)
			f.complete(nil, err)
		}
		return
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for _, f := range b.futures {
		url, ok := urls[f.View.NodeID]
		if !ok {
			logger.Warn("Image url not found", "node", f.View.NodeID)
			b.missing.Add(1)
			f.complete(nil, fmt.Errorf("node %s: %w", f.View.NodeID, errMissing))
			continue
		}
		g.Go(func() error {
			img, err := r.load(ctx, f, url)
			if err != nil {
				logger.Warn("Error downloading image", "node", f.View.NodeID, "url", url, "err", err)
				b.failed.Add(1)
				f.complete(nil, err)
				return nil
			}
			f.complete(img, nil)
			r.post(func() { b.apply(logger, container, gen, f, img) })
			return nil
		})
	}
	_ = g.Wait()
}

// load fetches and fits one image. A panic in a decoder is confined to
// its own image.
func (r *Remote) load(ctx context.Context, f *Future, url string) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("loading %s: panic: %v", url, p)
		}
	}()
	img, err = r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Fit(img, f.View.Frame()), nil
}
