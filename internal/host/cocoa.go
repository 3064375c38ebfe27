package host

import (
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

func nsColor(c document.Color) render.Value {
	return render.Call{Func: "AppKit.NSColor.FromRgba", Args: nums(c.R, c.G, c.B, c.A)}
}

func cgColor(c render.Value) render.Value {
	return render.Expr(c.Code() + ".CGColor")
}

// cocoaLabel turns an NSTextField into a static label.
func cocoaLabel(w render.Widget) {
	w.Set("Editable", render.Bool(false))
	w.Set("Bordered", render.Bool(false))
	w.Set("DrawsBackground", render.Bool(false))
	w.Set("Selectable", render.Bool(false))
}

func cocoaButton(buttonType string) func(w render.Widget) {
	return func(w render.Widget) {
		w.Call("SetButtonType", render.Enum{Type: "AppKit.NSButtonType", Member: buttonType})
	}
}

func setLabel(member string) func(w render.Widget, text render.Str) {
	return func(w render.Widget, text render.Str) { w.Set(member, text) }
}

var cocoa = &Vocabulary{
	name: "cocoa",
	classes: map[Role]string{
		RoleView:    "AppKit.NSView",
		RoleLabel:   "AppKit.NSTextField",
		RoleBox:     "AppKit.NSView",
		RoleEllipse: "AppKit.NSView",
		RoleLine:    "AppKit.NSBox",
		RoleImage:   "AppKit.NSImageView",
	},
	controls: map[document.ControlType]ControlSpec{
		document.ControlButton: {
			Class: "AppKit.NSButton",
			Setup: func(w render.Widget) {
				w.Set("BezelStyle", render.Enum{Type: "AppKit.NSBezelStyle", Member: "Rounded"})
			},
			Label: setLabel("Title"),
		},
		document.ControlComboBox: {
			Class: "AppKit.NSComboBox",
			Label: func(w render.Widget, text render.Str) {
				w.Set("StringValue", text)
				w.Call("Add", render.New{Type: "Foundation.NSString", Args: []render.Value{text}})
			},
		},
		document.ControlPopUpButton: {
			Class: "AppKit.NSPopUpButton",
			Label: func(w render.Widget, text render.Str) { w.Call("AddItem", text) },
		},
		document.ControlCheckBox: {
			Class: "AppKit.NSButton",
			Setup: cocoaButton("Switch"),
			Label: setLabel("Title"),
		},
		document.ControlRadioButton: {
			Class: "AppKit.NSButton",
			Setup: cocoaButton("Radio"),
			Label: setLabel("Title"),
		},
		document.ControlSwitch: {
			Class: "AppKit.NSSwitch",
		},
		document.ControlTextField: {
			Class: "AppKit.NSTextField",
			Label: setLabel("PlaceholderString"),
		},
	},

	// AppKit views are flipped: y grows upwards from the parent's bottom edge.
	frame: func(r document.Rect, parentHeight float64) []render.Assignment {
		y := parentHeight - r.Y - r.Height
		return []render.Assignment{{
			Member: "Frame",
			Value:  render.New{Type: "CoreGraphics.CGRect", Args: nums(r.X, y, r.Width, r.Height)},
		}}
	},
	color: nsColor,
	background: func(c render.Value) []render.Assignment {
		return []render.Assignment{
			{Member: "WantsLayer", Value: render.Bool(true)},
			{Member: "Layer.BackgroundColor", Value: cgColor(c)},
		}
	},
	addChild: "AddSubview",
	anchors:  true,
	image: func(ref string) render.Assignment {
		return render.Assignment{Member: "Image", Value: render.Call{Func: "AppKit.NSImage.ImageNamed", Args: []render.Value{render.Str{Text: ref}}}}
	},
	localize: "Foundation.NSBundle.MainBundle.GetLocalizedString(%s, null)",

	textMember: "StringValue",
	textSetup:  cocoaLabel,
	textColor:  "TextColor",
	font: func(style *document.TypeStyle) []render.Assignment {
		return []render.Assignment{{
			Member: "Font",
			Value: render.Call{Func: "AppKit.NSFont.FromFontName", Args: []render.Value{
				render.Str{Text: fontName(style)}, render.Num(style.FontSize),
			}},
		}}
	},
	alignment: func(align string) (render.Value, bool) {
		m, ok := alignmentMember(align)
		return render.Enum{Type: "AppKit.NSTextAlignment", Member: m}, ok
	},
	alignMember: "Alignment",

	alpha: "AlphaValue",
	cornerRadius: func(r float64) []render.Assignment {
		return []render.Assignment{
			{Member: "WantsLayer", Value: render.Bool(true)},
			{Member: "Layer.CornerRadius", Value: render.Num(r)},
		}
	},
	border: func(c render.Value, width float64) []render.Assignment {
		return []render.Assignment{
			{Member: "WantsLayer", Value: render.Bool(true)},
			{Member: "Layer.BorderColor", Value: cgColor(c)},
			{Member: "Layer.BorderWidth", Value: render.Num(width)},
		}
	},
	lineSetup: func(w render.Widget) {
		w.Set("BoxType", render.Enum{Type: "AppKit.NSBoxType", Member: "Separator"})
	},

	sizeClass: func(s document.SizeClass) []render.Assignment {
		member := "Regular"
		if s == document.SizeSmall {
			member = "Small"
		}
		return []render.Assignment{{Member: "ControlSize", Value: render.Enum{Type: "AppKit.NSControlSize", Member: member}}}
	},
	systemFont: []render.Assignment{{
		Member: "Font",
		Value:  render.Call{Func: "AppKit.NSFont.SystemFontOfSize", Args: []render.Value{render.Expr("AppKit.NSFont.SystemFontSize")}},
	}},
	dark: []render.Assignment{{
		Member: "Appearance",
		Value:  render.Call{Func: "AppKit.NSAppearance.GetAppearance", Args: []render.Value{render.Expr("AppKit.NSAppearance.NameDarkAqua")}},
	}},
}
