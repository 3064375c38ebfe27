// Package host provides the Cocoa, UIKit and WPF delegates. All three share
// one converter set; a Vocabulary supplies each toolkit's class names,
// members, enums and color and font expressions.
package host

import (
	"fmt"
	"sort"
	"strings"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

// Role is a generic widget family a shape converter produces.
type Role int

const (
	RoleView Role = iota
	RoleLabel
	RoleBox
	RoleEllipse
	RoleLine
	RoleImage
)

// ControlSpec describes one native control of a toolkit.
type ControlSpec struct {
	Class string
	// Setup runs before the label is applied, e.g. to pick a button type.
	Setup func(w render.Widget)
	// Label applies the text of the control's "lbl" child.
	Label func(w render.Widget, text render.Str)
}

// Vocabulary is everything toolkit-specific about rendering. It implements
// render.Toolkit.
type Vocabulary struct {
	name     string
	classes  map[Role]string
	controls map[document.ControlType]ControlSpec

	frame      func(r document.Rect, parentHeight float64) []render.Assignment
	color      func(c document.Color) render.Value
	background func(c render.Value) []render.Assignment
	addChild   string
	anchors    bool
	image      func(ref string) render.Assignment
	localize   string

	// Text.
	textMember  string
	textSetup   func(w render.Widget)
	textColor   string
	font        func(style *document.TypeStyle) []render.Assignment
	alignment   func(align string) (render.Value, bool)
	alignMember string

	// Shapes.
	alpha        string
	cornerRadius func(r float64) []render.Assignment
	border       func(c render.Value, width float64) []render.Assignment
	lineSetup    func(w render.Widget)

	// Controls.
	sizeClass  func(s document.SizeClass) []render.Assignment
	systemFont []render.Assignment
	dark       []render.Assignment
}

func (v *Vocabulary) Name() string { return v.name }

func (v *Vocabulary) ContainerClass() string { return v.classes[RoleView] }

func (v *Vocabulary) Frame(r document.Rect, parentHeight float64) []render.Assignment {
	return v.frame(r, parentHeight)
}

func (v *Vocabulary) Background(c document.Color) []render.Assignment {
	return v.background(v.color(c))
}

func (v *Vocabulary) AddChild() string { return v.addChild }

func (v *Vocabulary) Anchors() bool { return v.anchors }

func (v *Vocabulary) Image(ref string) render.Assignment { return v.image(ref) }

func (v *Vocabulary) Localize(literal string) string {
	return fmt.Sprintf(v.localize, literal)
}

// Class returns the fully-qualified class for a role.
func (v *Vocabulary) Class(role Role) string { return v.classes[role] }

// Control returns the ControlSpec for ct, if the toolkit has that control.
func (v *Vocabulary) Control(ct document.ControlType) (ControlSpec, bool) {
	spec, ok := v.controls[ct]
	return spec, ok
}

// Controls lists the native controls the toolkit supports.
func (v *Vocabulary) Controls() []document.ControlType {
	out := make([]document.ControlType, 0, len(v.controls))
	for ct := range v.controls {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var vocabularies = map[string]*Vocabulary{
	"cocoa": cocoa,
	"uikit": uikit,
	"wpf":   wpf,
}

// Platforms lists the supported platform names.
func Platforms() []string {
	names := make([]string, 0, len(vocabularies))
	for name := range vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the vocabulary for a platform name.
func Lookup(platform string) (*Vocabulary, error) {
	v, ok := vocabularies[strings.ToLower(platform)]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (want %s)", platform, strings.Join(Platforms(), ", "))
	}
	return v, nil
}

// Helpers shared by the vocabularies.

func nums(vs ...float64) []render.Value {
	out := make([]render.Value, len(vs))
	for i, v := range vs {
		out[i] = render.Num(v)
	}
	return out
}

func byte255(v float64) render.Value {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return render.Num(float64(int(v*255 + 0.5)))
}

func alignmentMember(align string) (string, bool) {
	switch align {
	case "LEFT":
		return "Left", true
	case "CENTER":
		return "Center", true
	case "RIGHT":
		return "Right", true
	case "JUSTIFIED":
		return "Justified", true
	default:
		return "", false
	}
}

func fontName(style *document.TypeStyle) string {
	if style.FontPostScriptName != "" {
		return style.FontPostScriptName
	}
	return style.FontFamily
}
