package host

import (
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

// labelChild is the name of the text layer carrying a control's label.
const labelChild = "lbl"

// controlConverter maps a tagged frame or instance to a native control. The
// control consumes its children: only the label layer is read.
type controlConverter struct {
	vocab   *Vocabulary
	control document.ControlType
	spec    ControlSpec
}

func (c *controlConverter) Name() string { return c.control.String() }

func (c *controlConverter) Accepts() []render.Capability {
	return []render.Capability{
		{Kind: document.KindFrame, Control: c.control},
		{Kind: document.KindInstance, Control: c.control},
	}
}

func (c *controlConverter) CanConvert(n *document.Node) bool {
	ct, ok := n.TryGetNativeControlType()
	return ok && ct == c.control
}

func (c *controlConverter) GetControlType(*document.Node) string { return c.spec.Class }

func (c *controlConverter) ScanChildren(*document.Node) bool { return false }

func (c *controlConverter) Configure(n *document.Node, w render.Widget) {
	t, _ := n.TryGetNativeControlComponentType()

	render.Apply(w, c.vocab.sizeClass(t.Size)...)
	if t.Size == document.SizeStandard {
		render.Apply(w, c.vocab.systemFont...)
	}
	if t.Dark {
		render.Apply(w, c.vocab.dark...)
	}

	if c.spec.Setup != nil {
		c.spec.Setup(w)
	}
	if c.spec.Label != nil {
		if lbl := n.FindChildText(labelChild); lbl != nil {
			c.spec.Label(w, render.Label(lbl.Characters))
		}
	}
}
