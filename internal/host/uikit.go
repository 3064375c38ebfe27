package host

import (
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

func uiColor(c document.Color) render.Value {
	return render.Call{Func: "UIKit.UIColor.FromRGBA", Args: nums(c.R, c.G, c.B, c.A)}
}

func uiSystemFont(size string) []render.Assignment {
	return []render.Assignment{{
		Member: "Font",
		Value:  render.Call{Func: "UIKit.UIFont.SystemFontOfSize", Args: []render.Value{render.Expr(size)}},
	}}
}

// UIKit has no combo box, pop-up button, check box or radio button.
var uikit = &Vocabulary{
	name: "uikit",
	classes: map[Role]string{
		RoleView:    "UIKit.UIView",
		RoleLabel:   "UIKit.UILabel",
		RoleBox:     "UIKit.UIView",
		RoleEllipse: "UIKit.UIView",
		RoleLine:    "UIKit.UIView",
		RoleImage:   "UIKit.UIImageView",
	},
	controls: map[document.ControlType]ControlSpec{
		document.ControlButton: {
			Class: "UIKit.UIButton",
			Label: func(w render.Widget, text render.Str) {
				w.Call("SetTitle", text, render.Enum{Type: "UIKit.UIControlState", Member: "Normal"})
			},
		},
		document.ControlSwitch: {
			Class: "UIKit.UISwitch",
		},
		document.ControlTextField: {
			Class: "UIKit.UITextField",
			Setup: func(w render.Widget) {
				w.Set("BorderStyle", render.Enum{Type: "UIKit.UITextBorderStyle", Member: "RoundedRect"})
			},
			Label: setLabel("Placeholder"),
		},
	},

	frame: func(r document.Rect, _ float64) []render.Assignment {
		return []render.Assignment{{
			Member: "Frame",
			Value:  render.New{Type: "CoreGraphics.CGRect", Args: nums(r.X, r.Y, r.Width, r.Height)},
		}}
	},
	color: uiColor,
	background: func(c render.Value) []render.Assignment {
		return []render.Assignment{{Member: "BackgroundColor", Value: c}}
	},
	addChild: "AddSubview",
	anchors:  true,
	image: func(ref string) render.Assignment {
		return render.Assignment{Member: "Image", Value: render.Call{Func: "UIKit.UIImage.FromBundle", Args: []render.Value{render.Str{Text: ref}}}}
	},
	localize: "Foundation.NSBundle.MainBundle.GetLocalizedString(%s, null)",

	textMember: "Text",
	textSetup: func(w render.Widget) {
		w.Set("Lines", render.Num(0))
	},
	textColor: "TextColor",
	font: func(style *document.TypeStyle) []render.Assignment {
		return []render.Assignment{{
			Member: "Font",
			Value: render.Call{Func: "UIKit.UIFont.FromName", Args: []render.Value{
				render.Str{Text: fontName(style)}, render.Num(style.FontSize),
			}},
		}}
	},
	alignment: func(align string) (render.Value, bool) {
		m, ok := alignmentMember(align)
		return render.Enum{Type: "UIKit.UITextAlignment", Member: m}, ok
	},
	alignMember: "TextAlignment",

	alpha: "Alpha",
	cornerRadius: func(r float64) []render.Assignment {
		return []render.Assignment{
			{Member: "Layer.CornerRadius", Value: render.Num(r)},
			{Member: "ClipsToBounds", Value: render.Bool(true)},
		}
	},
	border: func(c render.Value, width float64) []render.Assignment {
		return []render.Assignment{
			{Member: "Layer.BorderColor", Value: cgColor(c)},
			{Member: "Layer.BorderWidth", Value: render.Num(width)},
		}
	},

	sizeClass: func(s document.SizeClass) []render.Assignment {
		if s == document.SizeSmall {
			return uiSystemFont("UIKit.UIFont.SmallSystemFontSize")
		}
		return nil
	},
	systemFont: uiSystemFont("UIKit.UIFont.SystemFontSize"),
	dark: []render.Assignment{{
		Member: "OverrideUserInterfaceStyle",
		Value:  render.Enum{Type: "UIKit.UIUserInterfaceStyle", Member: "Dark"},
	}},
}
