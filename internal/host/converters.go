package host

import (
	"math"
	"strings"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

// Converter names, used in tie-break tables.
const (
	nameFrame     = "frame"
	nameText      = "text"
	nameRectangle = "rectangle"
	nameEllipse   = "ellipse"
	nameLine      = "line"
	nameVector    = "vector"
	nameImage     = "image"
)

// Converters returns the converter set for a vocabulary. Image fills take
// precedence over plain shapes; control converters are only registered for
// controls the toolkit has.
func Converters(v *Vocabulary) render.ConverterSet {
	set := render.ConverterSet{
		Converters: []render.Converter{
			&frameConverter{base{vocab: v}},
			&textConverter{base{vocab: v}},
			&rectangleConverter{base{vocab: v}},
			&ellipseConverter{base{vocab: v}},
			&lineConverter{base{vocab: v}},
			&vectorConverter{base{vocab: v}},
			&imageConverter{base{vocab: v}},
		},
		TieBreak: render.TieBreak{
			{Kind: document.KindRectangle}: {nameImage, nameRectangle},
			{Kind: document.KindEllipse}:   {nameImage, nameEllipse},
		},
	}
	for _, ct := range v.Controls() {
		spec, _ := v.Control(ct)
		set.Converters = append(set.Converters, &controlConverter{vocab: v, control: ct, spec: spec})
	}
	return set
}

// base holds what every shape converter shares.
type base struct {
	vocab *Vocabulary
}

func (b *base) CanConvert(*document.Node) bool   { return true }
func (b *base) ScanChildren(*document.Node) bool { return false }

// decorate applies opacity, corner radius and stroke.
func (b *base) decorate(n *document.Node, w render.Widget) {
	if n.Opacity < 1 {
		w.Set(b.vocab.alpha, render.Num(n.Opacity))
	}
	if n.CornerRadius > 0 {
		render.Apply(w, b.vocab.cornerRadius(n.CornerRadius)...)
	}
	b.stroke(n, w)
}

func (b *base) stroke(n *document.Node, w render.Widget) {
	if n.StrokeWeight <= 0 {
		return
	}
	if c, ok := n.SolidStroke(); ok {
		render.Apply(w, b.vocab.border(b.vocab.color(c), n.StrokeWeight)...)
	}
}

func (b *base) fill(n *document.Node, w render.Widget) {
	if c, ok := n.SolidFill(); ok {
		render.Apply(w, b.vocab.Background(c)...)
	}
}

type frameConverter struct{ base }

func (c *frameConverter) Name() string { return nameFrame }

func (c *frameConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindFrame}, {Kind: document.KindInstance}}
}

func (c *frameConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleView) }

func (c *frameConverter) ScanChildren(*document.Node) bool { return true }

func (c *frameConverter) Configure(n *document.Node, w render.Widget) {
	if n.BackgroundColor == nil {
		c.fill(n, w)
	}
	c.decorate(n, w)
}

type textConverter struct{ base }

func (c *textConverter) Name() string { return nameText }

func (c *textConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindText}}
}

func (c *textConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleLabel) }

func (c *textConverter) Configure(n *document.Node, w render.Widget) {
	v := c.vocab
	if v.textSetup != nil {
		v.textSetup(w)
	}
	w.Set(v.textMember, render.Label(n.Characters))
	if n.Style != nil {
		if n.Style.FontSize > 0 && fontName(n.Style) != "" {
			render.Apply(w, v.font(n.Style)...)
		}
		if align, ok := v.alignment(n.Style.TextAlignHorizontal); ok {
			w.Set(v.alignMember, align)
		}
	}
	if col, ok := n.SolidFill(); ok {
		w.Set(v.textColor, v.color(col))
	}
	if n.Opacity < 1 {
		w.Set(v.alpha, render.Num(n.Opacity))
	}
}

type rectangleConverter struct{ base }

func (c *rectangleConverter) Name() string { return nameRectangle }

func (c *rectangleConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindRectangle}}
}

func (c *rectangleConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleBox) }

func (c *rectangleConverter) Configure(n *document.Node, w render.Widget) {
	c.fill(n, w)
	c.decorate(n, w)
}

type ellipseConverter struct{ base }

func (c *ellipseConverter) Name() string { return nameEllipse }

func (c *ellipseConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindEllipse}}
}

func (c *ellipseConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleEllipse) }

func (c *ellipseConverter) Configure(n *document.Node, w render.Widget) {
	c.fill(n, w)
	box := n.Box()
	if r := math.Min(box.Width, box.Height) / 2; r > 0 {
		render.Apply(w, c.vocab.cornerRadius(r)...)
	}
	if n.Opacity < 1 {
		w.Set(c.vocab.alpha, render.Num(n.Opacity))
	}
	c.stroke(n, w)
}

type lineConverter struct{ base }

func (c *lineConverter) Name() string { return nameLine }

func (c *lineConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindLine}}
}

func (c *lineConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleLine) }

func (c *lineConverter) Configure(n *document.Node, w render.Widget) {
	if c.vocab.lineSetup != nil {
		c.vocab.lineSetup(w)
		return
	}
	if col, ok := n.SolidStroke(); ok {
		render.Apply(w, c.vocab.Background(col)...)
	}
}

// vectorConverter renders vectors as images exported by node ID.
type vectorConverter struct{ base }

func (c *vectorConverter) Name() string { return nameVector }

func (c *vectorConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindVector}}
}

func (c *vectorConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleImage) }

func (c *vectorConverter) Configure(n *document.Node, w render.Widget) {
	w.DeferImage(document.Paint{Type: "IMAGE", Visible: true, Opacity: 1, ImageRef: VectorRef(n.ID)})
	if n.Opacity < 1 {
		w.Set(c.vocab.alpha, render.Num(n.Opacity))
	}
}

// VectorRef is the image reference of an exported vector: its node ID made
// safe for file names.
func VectorRef(nodeID string) string {
	return strings.NewReplacer(":", "_", ";", "_").Replace(nodeID)
}

type imageConverter struct{ base }

func (c *imageConverter) Name() string { return nameImage }

func (c *imageConverter) Accepts() []render.Capability {
	return []render.Capability{{Kind: document.KindRectangle}, {Kind: document.KindEllipse}}
}

func (c *imageConverter) CanConvert(n *document.Node) bool {
	_, ok := n.ImagePaint()
	return ok
}

func (c *imageConverter) GetControlType(*document.Node) string { return c.vocab.Class(RoleImage) }

func (c *imageConverter) Configure(n *document.Node, w render.Widget) {
	paint, _ := n.ImagePaint()
	w.DeferImage(paint)
	c.decorate(n, w)
}
