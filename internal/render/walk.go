package render

import (
	"errors"

	"github.com/k-kohey/figkit/internal/document"
)

// Sink receives the output of a tree walk. H is the handle of one produced
// widget: a *native.View for live rendering, a variable name for code.
type Sink[H any] interface {
	// Create produces the widget for n placed at frame, relative to its parent.
	Create(n *document.Node, c Converter, frame document.Rect) (H, Widget)
	// Attach adds child to parent.
	Attach(parent, child H)
	// Constrain pins an anchor of child to parent. Width and Height pin
	// child to a constant.
	Constrain(parent, child H, anchor string, constant float64)
}

// walker is the traversal shared by the view and code renderers.
type walker[H any] struct {
	registry *Registry
	toolkit  Toolkit
	sink     Sink[H]
	diag     *collector

	converted int
}

// bounds recalculates the boxes of the subtree about to be walked.
func (w *walker[H]) bounds(root *document.Node) {
	for _, err := range root.CalculateBounds() {
		var geo *document.GeometryError
		if errors.As(err, &geo) {
			w.diag.warn(geo.NodeID, geo.Name, err)
			continue
		}
		w.diag.warn(root.ID, root.Name, err)
	}
}

func (w *walker[H]) visit(n *document.Node, parent H, root bool) {
	c, err := w.registry.SelectConverter(n)
	if err != nil {
		w.diag.fail(n.ID, n.Name, err)
		return
	}

	frame := n.RelativeBox()
	parentHeight := frame.Height
	if root {
		frame.X, frame.Y = 0, 0
	} else if n.Parent != nil {
		parentHeight = n.Parent.Box().Height
	}

	h, widget := w.sink.Create(n, c, frame)
	Apply(widget, w.toolkit.Frame(frame, parentHeight)...)
	if n.BackgroundColor != nil && n.BackgroundColor.A > 0 {
		Apply(widget, w.toolkit.Background(*n.BackgroundColor)...)
	}
	c.Configure(n, widget)

	w.sink.Attach(parent, h)
	if !root && w.toolkit.Anchors() {
		for _, a := range anchorsFor(n) {
			w.sink.Constrain(parent, h, a.anchor, a.constant)
		}
	}
	w.converted++

	if !c.ScanChildren(n) {
		return
	}
	for _, child := range n.Children {
		w.visit(child, h, false)
	}
}

type anchor struct {
	anchor   string
	constant float64
}

// anchorsFor translates Figma layout constraints into anchor constraints
// against the parent's box.
func anchorsFor(n *document.Node) []anchor {
	if n.Constraints == nil || n.Parent == nil {
		return nil
	}
	r := n.RelativeBox()
	p := n.Parent.Box()

	var out []anchor
	switch n.Constraints.Horizontal {
	case "LEFT":
		out = append(out, anchor{"Left", r.X}, anchor{"Width", r.Width})
	case "RIGHT":
		out = append(out, anchor{"Right", -(p.Width - r.X - r.Width)}, anchor{"Width", r.Width})
	case "LEFT_RIGHT":
		out = append(out, anchor{"Left", r.X}, anchor{"Right", -(p.Width - r.X - r.Width)})
	case "CENTER":
		out = append(out, anchor{"CenterX", r.X + r.Width/2 - p.Width/2}, anchor{"Width", r.Width})
	}
	switch n.Constraints.Vertical {
	case "TOP":
		out = append(out, anchor{"Top", r.Y}, anchor{"Height", r.Height})
	case "BOTTOM":
		out = append(out, anchor{"Bottom", -(p.Height - r.Y - r.Height)}, anchor{"Height", r.Height})
	case "TOP_BOTTOM":
		out = append(out, anchor{"Top", r.Y}, anchor{"Bottom", -(p.Height - r.Y - r.Height)})
	case "CENTER":
		out = append(out, anchor{"CenterY", r.Y + r.Height/2 - p.Height/2}, anchor{"Height", r.Height})
	}
	return out
}
