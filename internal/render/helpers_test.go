package render

import (
	"context"
	"errors"
	"image"
	"io/fs"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/native"
)

type testToolkit struct{}

func (testToolkit) Name() string           { return "test" }
func (testToolkit) ContainerClass() string { return "Test.View" }
func (testToolkit) AddChild() string       { return "AddSubview" }
func (testToolkit) Anchors() bool          { return true }

func (testToolkit) Frame(r document.Rect, _ float64) []Assignment {
	return []Assignment{{Member: "Frame", Value: New{Type: "Test.Rect", Args: []Value{Num(r.X), Num(r.Y), Num(r.Width), Num(r.Height)}}}}
}

func (testToolkit) Background(c document.Color) []Assignment {
	return []Assignment{{Member: "BackgroundColor", Value: Call{Func: "Test.Color.FromHex", Args: []Value{Str{Text: c.Hex()}}}}}
}

func (testToolkit) Image(ref string) Assignment {
	return Assignment{Member: "Image", Value: Call{Func: "Test.Image.Named", Args: []Value{Str{Text: ref}}}}
}

func (testToolkit) Localize(literal string) string { return "Strings.Get(" + literal + ")" }

type stubConverter struct {
	name      string
	accepts   []Capability
	can       func(*document.Node) bool
	class     string
	scan      bool
	configure func(*document.Node, Widget)
}

func (c *stubConverter) Name() string          { return c.name }
func (c *stubConverter) Accepts() []Capability { return c.accepts }

func (c *stubConverter) CanConvert(n *document.Node) bool {
	if c.can == nil {
		return true
	}
	return c.can(n)
}

func (c *stubConverter) GetControlType(*document.Node) string { return c.class }
func (c *stubConverter) ScanChildren(*document.Node) bool     { return c.scan }

func (c *stubConverter) Configure(n *document.Node, w Widget) {
	if c.configure != nil {
		c.configure(n, w)
	}
}

type stubDelegate struct {
	set ConverterSet
}

func (d *stubDelegate) GetImage(context.Context, string) (image.Image, error) {
	return nil, errors.New("not supported")
}

func (d *stubDelegate) GetImageFromManifest(fs.FS, string) (image.Image, error) {
	return nil, errors.New("not supported")
}

func (d *stubDelegate) GetImageFromFilePath(string) (image.Image, error) {
	return nil, errors.New("not supported")
}

func (d *stubDelegate) GetImageView(paint document.Paint, view *native.View) *native.ImageView {
	return native.NewImageView(view, view.NodeID(), paint)
}

func (d *stubDelegate) GetFigmaConverters() ConverterSet { return d.set }

func (d *stubDelegate) LoadFigmaFromFrameEntity(context.Context, *native.View, *document.Document, string, string) (*Result, error) {
	return nil, errors.New("not supported")
}

func (d *stubDelegate) GetFigmaFileContent(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("not supported")
}

func (d *stubDelegate) CreateEmptyView() *native.View { return native.NewView("Test.View") }
func (d *stubDelegate) Toolkit() Toolkit              { return testToolkit{} }

func hasImage(n *document.Node) bool {
	_, ok := n.ImagePaint()
	return ok
}

// testConverters is a small converter set covering frames, text, shapes,
// image fills and one control that consumes its children.
func testConverters() ConverterSet {
	frame := &stubConverter{
		name:    "frame",
		accepts: []Capability{{Kind: document.KindFrame}, {Kind: document.KindInstance}},
		class:   "Test.View",
		scan:    true,
	}
	text := &stubConverter{
		name:    "text",
		accepts: []Capability{{Kind: document.KindText}},
		class:   "Test.Label",
		configure: func(n *document.Node, w Widget) {
			w.Set("Text", Label(n.Characters))
		},
	}
	rect := &stubConverter{
		name:    "rectangle",
		accepts: []Capability{{Kind: document.KindRectangle}},
		class:   "Test.Box",
	}
	img := &stubConverter{
		name:    "image",
		accepts: []Capability{{Kind: document.KindRectangle}},
		can:     hasImage,
		class:   "Test.ImageView",
		configure: func(n *document.Node, w Widget) {
			p, _ := n.ImagePaint()
			w.DeferImage(p)
		},
	}
	combo := &stubConverter{
		name: "combobox",
		accepts: []Capability{
			{Kind: document.KindFrame, Control: document.ControlComboBox},
			{Kind: document.KindInstance, Control: document.ControlComboBox},
		},
		class: "Test.ComboBox",
		configure: func(n *document.Node, w Widget) {
			if lbl := n.FindChildText("lbl"); lbl != nil {
				w.Call("Add", New{Type: "Test.String", Args: []Value{Label(lbl.Characters)}})
			}
		},
	}
	return ConverterSet{
		Converters: []Converter{frame, text, rect, img, combo},
		TieBreak: TieBreak{
			{Kind: document.KindRectangle}: {"image", "rectangle"},
		},
	}
}

func link(parent *document.Node, children ...*document.Node) *document.Node {
	for _, c := range children {
		c.Parent = parent
	}
	parent.Children = append(parent.Children, children...)
	return parent
}

// sampleTree builds a 400x300 root with a title, a combo box that consumes
// its label, an image and one node no converter accepts.
func sampleTree() *document.Node {
	page := &document.Node{ID: "0:1", Type: "CANVAS", Kind: document.KindFrame}
	root := &document.Node{
		ID: "1:1", Name: "Login", Type: "FRAME", Kind: document.KindFrame,
		Size:            &document.Size{Width: 400, Height: 300},
		BackgroundColor: &document.Color{R: 1, G: 1, B: 1, A: 1},
	}
	title := &document.Node{
		ID: "1:2", Name: "Title", Type: "TEXT", Kind: document.KindText, Characters: "Sign in",
		Bounds:      &document.Rect{X: 20, Y: 20, Width: 200, Height: 24},
		Constraints: &document.LayoutConstraint{Horizontal: "LEFT", Vertical: "TOP"},
	}
	combo := &document.Node{
		ID: "1:3", Name: "Server", Type: "INSTANCE", Kind: document.KindInstance, ComponentName: "ComboBox/Small",
		Bounds: &document.Rect{X: 20, Y: 60, Width: 160, Height: 22},
	}
	link(combo, &document.Node{ID: "1:4", Name: "lbl", Type: "TEXT", Kind: document.KindText, Characters: "production"})
	logo := &document.Node{
		ID: "1:6", Name: "Logo", Type: "RECTANGLE", Kind: document.KindRectangle,
		Bounds: &document.Rect{X: 300, Y: 20, Width: 64, Height: 64},
		Fills:  []document.Paint{{Type: "IMAGE", Visible: true, Opacity: 1, ImageRef: "abc123"}},
	}
	slice := &document.Node{ID: "1:7", Name: "Export", Type: "SLICE", Kind: document.KindUnknown}
	card := &document.Node{
		ID: "1:8", Name: "Card", Type: "RECTANGLE", Kind: document.KindRectangle,
		Bounds: &document.Rect{X: 20, Y: 100, Width: 360, Height: 180},
	}
	link(root, title, combo, logo, slice, card)
	link(page, root)
	return root
}
