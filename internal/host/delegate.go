package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/figmaapi"
	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/native"
	"github.com/k-kohey/figkit/internal/render"
)

// Options configures a Delegate. The zero value renders without images.
type Options struct {
	// Images picks where image fills come from.
	Images       images.Strategy
	Manifest     fs.FS
	ResourcesDir string
	ImageFormat  string
	// Figma is used for remote images and file downloads.
	Figma       *figmaapi.Client
	HTTPClient  *http.Client
	Dispatcher  native.Dispatcher
	Concurrency int
	Reporter    render.Reporter
	Logger      *slog.Logger
}

// Delegate adapts one toolkit to the render pipeline.
type Delegate struct {
	vocab *Vocabulary
	opts  Options
}

var _ render.Delegate = (*Delegate)(nil)

// New returns the delegate for a platform name (cocoa, uikit or wpf).
func New(platform string, opts Options) (*Delegate, error) {
	v, err := Lookup(platform)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Delegate{vocab: v, opts: opts}, nil
}

// Vocabulary returns the delegate's toolkit vocabulary.
func (d *Delegate) Vocabulary() *Vocabulary { return d.vocab }

func (d *Delegate) GetImage(ctx context.Context, url string) (image.Image, error) {
	return images.Fetch(ctx, d.opts.HTTPClient, url)
}

func (d *Delegate) GetImageFromManifest(fsys fs.FS, ref string) (image.Image, error) {
	return images.ReadManifest(fsys, ref)
}

func (d *Delegate) GetImageFromFilePath(path string) (image.Image, error) {
	return images.DecodeFile(path)
}

func (d *Delegate) GetImageView(paint document.Paint, view *native.View) *native.ImageView {
	return native.NewImageView(view, view.NodeID(), paint)
}

func (d *Delegate) GetFigmaConverters() render.ConverterSet { return Converters(d.vocab) }

func (d *Delegate) CreateEmptyView() *native.View {
	return native.NewView(d.vocab.ContainerClass())
}

func (d *Delegate) Toolkit() render.Toolkit { return d.vocab }

// GetFigmaFileContent downloads a file's JSON. file is a file key or a
// figma.com URL.
func (d *Delegate) GetFigmaFileContent(ctx context.Context, file, token string) ([]byte, error) {
	if token == "" {
		return nil, figmaapi.ErrNoToken
	}
	key := file
	if strings.Contains(file, "figma.com") {
		k, _, err := figmaapi.ParseFileURL(file)
		if err != nil {
			return nil, err
		}
		key = k
	}
	client := d.client()
	client.Token = token
	return client.GetFile(ctx, key)
}

// client returns a copy of the configured API client.
func (d *Delegate) client() *figmaapi.Client {
	if d.opts.Figma == nil {
		return figmaapi.NewClient("")
	}
	c := *d.opts.Figma
	return &c
}

// ImageSource returns the image source for the configured strategy, or nil
// when images are disabled or cannot be resolved.
func (d *Delegate) ImageSource(fileKey string) images.Source {
	logger := d.opts.Logger
	switch d.opts.Images {
	case images.StrategyManifest:
		return &images.Manifest{FS: d.opts.Manifest, Open: d.GetImageFromManifest, Logger: logger}
	case images.StrategyDirectory:
		return &images.Directory{Dir: d.opts.ResourcesDir, Format: d.opts.ImageFormat, Open: d.GetImageFromFilePath, Logger: logger}
	case images.StrategyRemote:
		if d.opts.Figma == nil || d.opts.Figma.Token == "" || fileKey == "" {
			logger.Warn("Remote images need a Figma token and file key, skipping", "file", fileKey)
			return nil
		}
		return &images.Remote{
			Resolver:    d.opts.Figma,
			FileKey:     fileKey,
			Fetch:       d.GetImage,
			HTTPClient:  d.opts.HTTPClient,
			Dispatcher:  d.opts.Dispatcher,
			Concurrency: d.opts.Concurrency,
			Logger:      logger,
		}
	default:
		return nil
	}
}

// LoadFrame renders the frame named frameName into container and starts
// loading its images. The batch is nil when no image source is configured.
func (d *Delegate) LoadFrame(ctx context.Context, container *native.View, doc *document.Document, frameName, fileName string) (*render.Result, *images.Batch, error) {
	if doc == nil {
		return nil, nil, errors.New("load frame: nil document")
	}
	view, err := doc.FindView(frameName, "")
	if err != nil {
		if d.opts.Reporter != nil {
			d.opts.Reporter.Report(render.Diagnostic{Severity: render.SeverityError, Message: err.Error(), Err: err})
		}
		return nil, nil, err
	}

	r, err := render.NewViewRenderer(d, d.opts.Reporter)
	if err != nil {
		return nil, nil, err
	}
	res, renderErr := r.Render(view, container)
	if res == nil {
		return nil, nil, renderErr
	}

	var batch *images.Batch
	if src := d.ImageSource(fileName); src != nil {
		batch = src.Load(ctx, container, res.Images)
	}
	if renderErr != nil {
		renderErr = fmt.Errorf("rendering %q: %w", view.Name, renderErr)
	}
	return res, batch, renderErr
}

// LoadFigmaFromFrameEntity renders a frame and leaves its images loading in
// the background.
func (d *Delegate) LoadFigmaFromFrameEntity(ctx context.Context, container *native.View, doc *document.Document, frameName, fileName string) (*render.Result, error) {
	res, _, err := d.LoadFrame(ctx, container, doc, frameName, fileName)
	return res, err
}
