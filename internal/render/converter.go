package render

import (
	"fmt"

	"github.com/k-kohey/figkit/internal/document"
)

// Capability is the dispatch key of a node: its shape and native control tag.
type Capability struct {
	Kind    document.Kind
	Control document.ControlType
}

func (c Capability) String() string {
	if c.Control == document.ControlNone {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s/%s", c.Kind, c.Control)
}

// CapabilityOf returns the dispatch key for n.
func CapabilityOf(n *document.Node) Capability {
	ctrl, _ := n.TryGetNativeControlType()
	return Capability{Kind: n.Kind, Control: ctrl}
}

// Converter maps one family of document nodes to a native widget. Converters
// are stateless and shared by the view and code renderers.
type Converter interface {
	// Name identifies the converter in tie-break tables and diagnostics.
	Name() string
	// Accepts lists the dispatch keys the converter may handle.
	Accepts() []Capability
	// CanConvert refines Accepts for a concrete node.
	CanConvert(n *document.Node) bool
	// GetControlType returns the fully-qualified native class.
	GetControlType(n *document.Node) string
	// ScanChildren reports whether the renderer should recurse into n's
	// children. Controls that consume their children return false.
	ScanChildren(n *document.Node) bool
	// Configure applies converter-specific configuration after the common
	// frame and background assignments.
	Configure(n *document.Node, w Widget)
}

// Widget is the sink-neutral handle a converter configures. The view renderer
// backs it with a native.View, the code renderer with generated statements.
type Widget interface {
	Set(member string, v Value)
	Call(method string, args ...Value)
	// DeferImage marks the widget as needing the given image fill once the
	// tree is built.
	DeferImage(paint document.Paint)
}

// Assignment is a member = value pair produced by a Toolkit.
type Assignment struct {
	Member string
	Value  Value
}

// Apply sets every assignment on w.
func Apply(w Widget, as ...Assignment) {
	for _, a := range as {
		w.Set(a.Member, a.Value)
	}
}

// Toolkit is the vocabulary the renderer needs for common configuration.
type Toolkit interface {
	Name() string
	// ContainerClass is the class of an empty container view.
	ContainerClass() string
	// Frame places a view at r, relative to a parent of the given height.
	Frame(r document.Rect, parentHeight float64) []Assignment
	// Background paints a view with c.
	Background(c document.Color) []Assignment
	// AddChild is the method that attaches a subview, e.g. AddSubview.
	AddChild() string
	// Anchors reports whether the toolkit supports anchor constraints.
	Anchors() bool
	// Image loads a bundled image by reference.
	Image(ref string) Assignment
	// Localize wraps a quoted literal in the toolkit's string lookup.
	Localize(literal string) string
}

// ConverterSet is what a host registers: its converters plus the tie-break
// table for keys accepted by more than one of them.
type ConverterSet struct {
	Converters []Converter
	TieBreak   TieBreak
}
