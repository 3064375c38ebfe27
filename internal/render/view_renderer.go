package render

import (
	"errors"
	"fmt"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/native"
)

// Result is the output of a live render pass.
type Result struct {
	// Root is the view built for the rendered node, attached to the container.
	Root *native.View
	// Images are the wrappers still waiting for their bitmap.
	Images      []*native.ImageView
	Diagnostics []Diagnostic
	// Generation is the container's render pass number.
	Generation uint64
	// Converted is the number of nodes that produced a view.
	Converted int
}

// ViewRenderer builds native view trees from document nodes.
type ViewRenderer struct {
	registry  *Registry
	toolkit   Toolkit
	imageView func(document.Paint, *native.View) *native.ImageView
	reporter  Reporter
}

// NewViewRenderer builds a renderer from the delegate's converters. A nil
// reporter logs through slog.
func NewViewRenderer(d Delegate, reporter Reporter) (*ViewRenderer, error) {
	registry, err := NewRegistry(d.GetFigmaConverters())
	if err != nil {
		return nil, fmt.Errorf("building converter registry: %w", err)
	}
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &ViewRenderer{
		registry:  registry,
		toolkit:   d.Toolkit(),
		imageView: d.GetImageView,
		reporter:  reporter,
	}, nil
}

// Registry returns the renderer's converter registry.
func (r *ViewRenderer) Registry() *Registry { return r.registry }

// Render replaces the contents of container with the tree for n.
//
// Structural failures skip the affected subtree, are reported and are
// returned joined; the partial tree is still attached.
func (r *ViewRenderer) Render(n *document.Node, container *native.View) (*Result, error) {
	if n == nil {
		return nil, errors.New("render: nil node")
	}
	if container == nil {
		return nil, errors.New("render: nil container")
	}

	container.Clear()
	gen := container.NextGeneration()

	sink := &viewSink{imageView: r.imageView}
	diag := &collector{reporter: r.reporter}
	w := &walker[*native.View]{registry: r.registry, toolkit: r.toolkit, sink: sink, diag: diag}

	w.bounds(n)
	if c, ok := fillOf(n); ok {
		container.SetFill(c)
		for _, a := range r.toolkit.Background(c) {
			container.Set(a.Member, a.Value.String())
		}
	}
	w.visit(n, container, true)

	res := &Result{
		Root:        sink.root,
		Images:      sink.images,
		Diagnostics: diag.items,
		Generation:  gen,
		Converted:   w.converted,
	}
	return res, errors.Join(diag.errs...)
}

// fillOf is the background of a node: its background color,
// or its first solid fill.
func fillOf(n *document.Node) (document.Color, bool) {
	if n.BackgroundColor != nil && n.BackgroundColor.A > 0 {
		return *n.BackgroundColor, true
	}
	return n.SolidFill()
}

type viewSink struct {
	imageView func(document.Paint, *native.View) *native.ImageView
	root      *native.View
	images    []*native.ImageView
}

func (s *viewSink) Create(n *document.Node, c Converter, frame document.Rect) (*native.View, Widget) {
	v := native.NewView(c.GetControlType(n)).SetIdentity(n.ID, n.Name).SetFrame(frame)
	if n.Kind != document.KindText {
		if fill, ok := fillOf(n); ok {
			v.SetFill(fill)
		}
	}
	if s.root == nil {
		s.root = v
	}
	return v, &viewWidget{view: v, sink: s}
}

func (s *viewSink) Attach(parent, child *native.View) {
	parent.AddSubview(child)
}

func (s *viewSink) Constrain(parent, child *native.View, anchor string, constant float64) {
	parent.AddConstraint(native.Constraint{Item: child, Anchor: anchor, Constant: constant})
}

type viewWidget struct {
	view *native.View
	sink *viewSink
}

func (w *viewWidget) Set(member string, v Value) {
	w.view.Set(member, v.String())
}

func (w *viewWidget) Call(method string, args ...Value) {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = a.String()
	}
	w.view.Invoke(method, strs...)
}

func (w *viewWidget) DeferImage(paint document.Paint) {
	if wrapper := w.sink.imageView(paint, w.view); wrapper != nil {
		w.sink.images = append(w.sink.images, wrapper)
	}
}
