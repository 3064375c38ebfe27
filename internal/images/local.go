package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/k-kohey/figkit/internal/native"
)

// Manifest loads <imageRef>.png from a bundled file system such as an embed.FS.
type Manifest struct {
	FS fs.FS
	// Open reads one resource. Defaults to ReadManifest.
	Open   func(fsys fs.FS, ref string) (image.Image, error)
	Logger *slog.Logger
}

// ReadManifest reads and decodes <ref>.png from fsys.
func ReadManifest(fsys fs.FS, ref string) (image.Image, error) {
	if fsys == nil {
		return nil, errors.New("manifest has no file system")
	}
	data, err := fs.ReadFile(fsys, ref+".png")
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Image reads and decodes one manifest resource.
func (m *Manifest) Image(ref string) (image.Image, error) {
	if m.Open != nil {
		return m.Open(m.FS, ref)
	}
	return ReadManifest(m.FS, ref)
}

// Load resolves every view synchronously. It must run on the goroutine that
// owns the tree. Failures are logged and leave the view blank.
func (m *Manifest) Load(ctx context.Context, container *native.View, views []*native.ImageView) *Batch {
	logger := loggerOr(m.Logger)
	return loadLocal(ctx, logger, container, views, func(v *native.ImageView) (image.Image, error) {
		img, err := m.Image(v.ImageRef)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("Resource not found in manifest", "ref", v.ImageRef)
			return nil, errMissing
		case err != nil:
			logger.Error("Error loading manifest resource", "ref", v.ImageRef, "err", err)
			return nil, err
		}
		return img, nil
	})
}

// Directory loads <Dir>/<imageRef><Format> from disk.
type Directory struct {
	Dir string
	// Format is the file extension including the dot. Empty means ".png".
	Format string
	// Open reads one file. Defaults to DecodeFile.
	Open   func(path string) (image.Image, error)
	Logger *slog.Logger
}

// ErrInvalidRef is returned for image references that would leave the
// resources directory.
var ErrInvalidRef = errors.New("invalid image reference")

// Path returns the file a reference resolves to. References are plain file
// names: separators and ".." are rejected.
func (d *Directory) Path(ref string) (string, error) {
	if ref == "" || ref == "." || ref == ".." || strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	format := d.Format
	if format == "" {
		format = ".png"
	}
	return filepath.Join(d.Dir, ref+format), nil
}

// Load resolves every view synchronously. A missing file is logged as not
// found, any other failure as an error; neither stops the batch.
func (d *Directory) Load(ctx context.Context, container *native.View, views []*native.ImageView) *Batch {
	logger := loggerOr(d.Logger)
	open := d.Open
	if open == nil {
		open = DecodeFile
	}
	return loadLocal(ctx, logger, container, views, func(v *native.ImageView) (image.Image, error) {
		path, err := d.Path(v.ImageRef)
		if err != nil {
			logger.Error("Skipping image", "ref", v.ImageRef, "err", err)
			return nil, err
		}
		img, err := open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("Resource not found", "path", path)
			return nil, errMissing
		case err != nil:
			logger.Error("Error loading image", "path", path, "err", err)
			return nil, err
		}
		return img, nil
	})
}

var errMissing = errors.New("image not found")

func loadLocal(ctx context.Context, logger *slog.Logger, container *native.View, views []*native.ImageView, load func(*native.ImageView) (image.Image, error)) *Batch {
	b := newBatch(views)
	gen := uint64(0)
	if container != nil {
		gen = container.Generation()
	}

	for _, f := range b.futures {
		if err := ctx.Err(); err != nil {
			b.failed.Add(1)
			f.complete(nil, err)
			continue
		}
		img, err := load(f.View)
		if err != nil {
			if errors.Is(err, errMissing) {
				b.missing.Add(1)
			} else {
				b.failed.Add(1)
			}
			f.complete(nil, fmt.Errorf("%s: %w", f.View.ImageRef, err))
			continue
		}
		img = Fit(img, f.View.Frame())
		f.complete(img, nil)
		b.apply(logger, container, gen, f, img)
	}
	close(b.done)
	return b
}
