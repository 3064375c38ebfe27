package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/render"
	"github.com/k-kohey/figkit/internal/view"
)

// Request is one render request of the serve and gRPC front ends. Empty
// fields fall back to the service settings.
type Request struct {
	ID string `json:"id,omitempty"`
	// Document is the raw file JSON. Otherwise URL is downloaded, or Path
	// is read.
	Document  string `json:"document,omitempty"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Platform  string `json:"platform,omitempty"`
	View      string `json:"view,omitempty"`
	Node      string `json:"node,omitempty"`
	Mode      Mode   `json:"mode,omitempty"`
	Naming    string `json:"naming,omitempty"`
	Translate bool   `json:"translate,omitempty"`
	RootName  string `json:"rootName,omitempty"`
	MaxDepth  int    `json:"maxDepth,omitempty"`
	FileKey   string `json:"fileKey,omitempty"`
}

// Response is the result of a render request.
type Response struct {
	ID          string            `json:"id,omitempty"`
	PassID      string            `json:"passId"`
	Platform    string            `json:"platform"`
	Mode        Mode              `json:"mode"`
	Tree        *view.TreeOutput  `json:"tree,omitempty"`
	Code        string            `json:"code,omitempty"`
	Diagnostics []view.Diagnostic `json:"diagnostics,omitempty"`
	// Incomplete is set when some nodes could not be rendered.
	Incomplete bool `json:"incomplete,omitempty"`

	err error
}

// Err returns why the response is incomplete, or nil. The serve and gRPC
// front ends report it through Diagnostics; the CLI exits non-zero.
func (r *Response) Err() error {
	if r.err == nil && r.Incomplete {
		return errors.New("render incomplete")
	}
	return r.err
}

func (r *Response) fail(name string, err error) {
	if err == nil {
		return
	}
	r.Incomplete = true
	r.err = fmt.Errorf("rendering %q: %w", name, err)
}

// Service renders documents on request. It is shared by the JSON-lines
// serve loop and the gRPC server; each call builds its own tree.
type Service struct {
	Settings config.Settings
	Logger   *slog.Logger
	// ImageTimeout bounds how long a tree request waits for images.
	ImageTimeout time.Duration
	// NewID generates pass IDs.
	NewID func() string
	// Documents, when set, is the only place request paths are read from.
	Documents fs.FS
	// HTTPClient downloads URL requests. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// NewService creates a service with the given defaults.
func NewService(s config.Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Settings:     s,
		Logger:       logger,
		ImageTimeout: 30 * time.Second,
		NewID:        uuid.NewString,
	}
}

func (s *Service) settings(req Request) config.Settings {
	out := s.Settings
	if req.Platform != "" {
		out.Platform = req.Platform
	}
	if req.View != "" {
		out.View = req.View
	}
	if req.Naming != "" {
		out.Naming = req.Naming
	}
	if req.Translate {
		out.TranslateLabels = true
	}
	if req.RootName != "" {
		out.RootName = req.RootName
	}
	if req.FileKey != "" {
		out.FileKey = req.FileKey
	}
	if out.Platform == "" {
		out.Platform = config.DefaultPlatform
	}
	return out
}

func (s *Service) load(ctx context.Context, req Request, settings config.Settings) (*document.Document, error) {
	switch {
	case req.Document != "":
		return document.Parse([]byte(req.Document))
	case req.URL != "":
		return document.LoadURL(ctx, s.HTTPClient, req.URL)
	case req.Path != "":
		return s.loadPath(req.Path)
	case settings.File != "":
		return s.loadPath(settings.File)
	default:
		return nil, errors.New("request has neither document, url nor path")
	}
}

func (s *Service) loadPath(path string) (*document.Document, error) {
	if s.Documents == nil {
		return document.LoadFile(path)
	}
	name := filepath.ToSlash(filepath.Clean(path))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("path %q is outside the document root", path)
	}
	return document.LoadResource(s.Documents, name)
}

// Handle renders one request. Input errors are returned; nodes that fail to
// render are reported as diagnostics and through Response.Err.
func (s *Service) Handle(ctx context.Context, req Request) (*Response, error) {
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	settings := s.settings(req)

	doc, err := s.load(ctx, req, settings)
	if err != nil {
		return nil, err
	}
	node, err := doc.FindView(settings.View, req.Node)
	if err != nil {
		return nil, err
	}

	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	passID := newID()
	logger := s.Logger.With("pass", passID)

	opts, err := HostOptions(settings, logger)
	if err != nil {
		return nil, err
	}
	d, err := host.New(settings.Platform, opts)
	if err != nil {
		return nil, err
	}

	resp := &Response{ID: req.ID, PassID: passID, Platform: d.Vocabulary().Name(), Mode: mode}
	logger.Debug("Rendering", "platform", resp.Platform, "mode", mode, "view", node.Name)

	switch mode {
	case ModeCode:
		codeOpts, err := CodeOptions(settings)
		if err != nil {
			return nil, err
		}
		r, err := render.NewCodeRenderer(d, codeOpts, opts.Reporter)
		if err != nil {
			return nil, err
		}
		code, renderErr := r.RenderToCode(node, "")
		resp.Code = code
		resp.Diagnostics = view.Diagnostics(r.Diagnostics())
		resp.fail(node.Name, renderErr)
	default:
		tree, renderErr := s.renderTree(ctx, d, node, settings, req.MaxDepth, opts.Reporter)
		if tree == nil {
			return nil, renderErr
		}
		tree.PassID = passID
		resp.Tree = tree
		resp.Diagnostics = tree.Diagnostics
		resp.fail(node.Name, renderErr)
	}
	return resp, nil
}

// renderTree returns a nil tree when nothing could be rendered. A tree with
// an error is partial.
func (s *Service) renderTree(ctx context.Context, d *host.Delegate, node *document.Node, settings config.Settings, maxDepth int, reporter render.Reporter) (*view.TreeOutput, error) {
	r, err := render.NewViewRenderer(d, reporter)
	if err != nil {
		return nil, err
	}
	container := d.CreateEmptyView()
	res, renderErr := r.Render(node, container)
	if res == nil {
		return nil, fmt.Errorf("rendering %q produced no result: %w", node.Name, renderErr)
	}

	out := &view.TreeOutput{
		Platform:    d.Vocabulary().Name(),
		View:        node.Name,
		Generation:  res.Generation,
		Converted:   res.Converted,
		Diagnostics: view.Diagnostics(res.Diagnostics),
	}

	// Nothing else touches this tree, so completions may apply inline.
	if src := d.ImageSource(settings.FileKey); src != nil && len(res.Images) > 0 {
		waitCtx := ctx
		if s.ImageTimeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, s.ImageTimeout)
			defer cancel()
		}
		stats, err := src.Load(waitCtx, container, res.Images).Wait(waitCtx)
		if err != nil {
			s.Logger.Warn("Images still loading", "err", err)
		}
		out.Images = view.Stats(stats)
	}

	out.Views = view.BuildTree(container, maxDepth)
	view.MarkPending(out.Views, res.Images)
	return out, renderErr
}

var (
	jsonMarshalOpts   = protojson.MarshalOptions{}
	jsonUnmarshalOpts = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// RequestFromStruct decodes a request message. A "document" given as an
// object is re-encoded as JSON.
func RequestFromStruct(msg *structpb.Struct) (Request, error) {
	var req Request
	if msg == nil {
		return req, errors.New("empty request")
	}
	fields := msg.GetFields()
	if doc, ok := fields["document"]; ok {
		if obj := doc.GetStructValue(); obj != nil {
			data, err := jsonMarshalOpts.Marshal(obj)
			if err != nil {
				return req, fmt.Errorf("encoding document: %w", err)
			}
			req.Document = string(data)
			fields = copyWithout(fields, "document")
		}
	}

	data, err := jsonMarshalOpts.Marshal(&structpb.Struct{Fields: fields})
	if err != nil {
		return req, fmt.Errorf("encoding request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decoding request: %w", err)
	}
	return req, nil
}

func copyWithout(fields map[string]*structpb.Value, key string) map[string]*structpb.Value {
	out := make(map[string]*structpb.Value, len(fields))
	for k, v := range fields {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Struct encodes the response as a message.
func (r *Response) Struct() (*structpb.Struct, error) {
	return toStruct(r)
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	msg := &structpb.Struct{}
	if err := jsonUnmarshalOpts.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return msg, nil
}

// Struct encodes the request as a message.
func (r Request) Struct() (*structpb.Struct, error) {
	return toStruct(r)
}

// ResponseFromStruct decodes a response message.
func ResponseFromStruct(msg *structpb.Struct) (*Response, error) {
	data, err := jsonMarshalOpts.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	resp := &Response{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}
