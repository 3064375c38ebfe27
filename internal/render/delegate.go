package render

import (
	"context"
	"image"
	"io/fs"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/native"
)

// Delegate is the per-platform adapter the pipeline depends on. The core
// never touches a concrete toolkit type.
type Delegate interface {
	GetImage(ctx context.Context, url string) (image.Image, error)
	GetImageFromManifest(fsys fs.FS, ref string) (image.Image, error)
	GetImageFromFilePath(path string) (image.Image, error)
	// GetImageView wraps view as a target for a deferred image fill.
	GetImageView(paint document.Paint, view *native.View) *native.ImageView
	GetFigmaConverters() ConverterSet
	// LoadFigmaFromFrameEntity renders the frame named frameName into
	// container and starts loading its images. fileName is the Figma file
	// key used for remote image lookups.
	LoadFigmaFromFrameEntity(ctx context.Context, container *native.View, doc *document.Document, frameName, fileName string) (*Result, error)
	GetFigmaFileContent(ctx context.Context, file, token string) ([]byte, error)
	CreateEmptyView() *native.View
	Toolkit() Toolkit
}
