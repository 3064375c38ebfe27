// Package document holds the typed model of a Figma design document and
// the helpers that load, query and classify it.
package document

import (
	"fmt"
	"image/color"
	"math"
)

// Kind is the shape variant of a Node.
type Kind int

const (
	KindUnknown Kind = iota
	KindFrame
	KindVector
	KindText
	KindRectangle
	KindEllipse
	KindLine
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindVector:
		return "vector"
	case KindText:
		return "text"
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindLine:
		return "line"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// KindOf maps a Figma node type (FRAME, TEXT, ...) to its Kind.
func KindOf(figmaType string) Kind {
	switch figmaType {
	case "FRAME", "GROUP", "COMPONENT", "COMPONENT_SET", "CANVAS", "SECTION":
		return KindFrame
	case "INSTANCE":
		return KindInstance
	case "VECTOR", "STAR", "REGULAR_POLYGON", "BOOLEAN_OPERATION":
		return KindVector
	case "TEXT":
		return KindText
	case "RECTANGLE":
		return KindRectangle
	case "ELLIPSE":
		return KindEllipse
	case "LINE":
		return KindLine
	default:
		return KindUnknown
	}
}

// Rect is an absolute bounding box in document coordinates.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether every component is finite and the size is not negative.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Clamp returns r with non-finite components zeroed and negative sizes clamped to zero.
func (r Rect) Clamp() Rect {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	out := Rect{X: fix(r.X), Y: fix(r.Y), Width: fix(r.Width), Height: fix(r.Height)}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Union returns the smallest rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Size is a declared width/height pair (Figma's "size" vector).
type Size struct {
	Width  float64
	Height float64
}

// Color is an RGBA color in Figma's 0-1 float range.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// NRGBA converts c to an 8-bit non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	to8 := func(v float64) uint8 {
		v = math.Max(0, math.Min(1, v))
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Hex returns the color as #RRGGBBAA.
func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// Paint is a fill or stroke. Image paints carry an ImageRef.
type Paint struct {
	Type      string // SOLID, IMAGE, GRADIENT_LINEAR, ...
	Visible   bool
	Opacity   float64
	Color     *Color
	ImageRef  string
	ScaleMode string
}

// TypeStyle holds typography for TEXT nodes.
type TypeStyle struct {
	FontFamily          string
	FontPostScriptName  string
	FontSize            float64
	FontWeight          float64
	Italic              bool
	TextAlignHorizontal string // LEFT, CENTER, RIGHT, JUSTIFIED
	TextAlignVertical   string
	LineHeightPx        float64
}

// LayoutConstraint is Figma's resize behaviour relative to the parent.
type LayoutConstraint struct {
	Vertical   string // TOP, BOTTOM, CENTER, TOP_BOTTOM, SCALE
	Horizontal string // LEFT, RIGHT, CENTER, LEFT_RIGHT, SCALE
}

// Node is one element of the design tree.
type Node struct {
	ID   string
	Name string
	Type string
	Kind Kind

	// Bounds is nil when the source omitted absoluteBoundingBox.
	Bounds *Rect
	// Size is the declared frame size, used when Bounds is unset.
	Size *Size

	BackgroundColor *Color
	Fills           []Paint
	Strokes         []Paint
	StrokeWeight    float64
	CornerRadius    float64
	Opacity         float64

	Characters  string
	Style       *TypeStyle
	Constraints *LayoutConstraint

	ComponentID   string
	ComponentName string

	Children []*Node
	Parent   *Node
}

// IsRoot reports whether n has no parent frame, or its parent is a page.
func (n *Node) IsRoot() bool {
	return n.Parent == nil || n.Parent.Type == "CANVAS" || n.Parent.Type == "DOCUMENT"
}

// Box returns the node's bounds, or a zero rect when unset.
func (n *Node) Box() Rect {
	if n.Bounds == nil {
		return Rect{}
	}
	return *n.Bounds
}

// RelativeBox returns the node's bounds in its parent's coordinate space.
func (n *Node) RelativeBox() Rect {
	r := n.Box()
	if n.Parent != nil && n.Parent.Bounds != nil && !n.IsRoot() {
		r.X -= n.Parent.Bounds.X
		r.Y -= n.Parent.Bounds.Y
	} else {
		r.X, r.Y = 0, 0
	}
	return r
}

// ImagePaint returns the first visible IMAGE fill.
func (n *Node) ImagePaint() (Paint, bool) {
	for _, f := range n.Fills {
		if f.Type == "IMAGE" && f.Visible && f.ImageRef != "" {
			return f, true
		}
	}
	return Paint{}, false
}

// SolidFill returns the color of the first visible SOLID fill.
func (n *Node) SolidFill() (Color, bool) {
	for _, f := range n.Fills {
		if f.Type == "SOLID" && f.Visible && f.Color != nil {
			c := *f.Color
			if f.Opacity > 0 && f.Opacity < 1 {
				c.A *= f.Opacity
			}
			return c, true
		}
	}
	return Color{}, false
}

// SolidStroke returns the color of the first visible SOLID stroke.
func (n *Node) SolidStroke() (Color, bool) {
	for _, s := range n.Strokes {
		if s.Type == "SOLID" && s.Visible && s.Color != nil {
			return *s.Color, true
		}
	}
	return Color{}, false
}

// FindChildText returns the first direct TEXT child with the given name.
func (n *Node) FindChildText(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindText && c.Name == name {
			return c
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Component is an entry of the document's components map.
type Component struct {
	Key         string
	Name        string
	Description string
}

// Document is a parsed Figma file.
type Document struct {
	Name         string
	LastModified string
	Root         *Node
	Components   map[string]Component
}

// Pages returns the CANVAS children of the document root.
func (d *Document) Pages() []*Node {
	if d.Root == nil {
		return nil
	}
	var pages []*Node
	for _, c := range d.Root.Children {
		if c.Type == "CANVAS" {
			pages = append(pages, c)
		}
	}
	return pages
}
