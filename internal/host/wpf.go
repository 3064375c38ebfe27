package host

import (
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/render"
)

func brush(c document.Color) render.Value {
	return render.New{Type: "System.Windows.Media.SolidColorBrush", Args: []render.Value{
		render.Call{Func: "System.Windows.Media.Color.FromArgb", Args: []render.Value{
			byte255(c.A), byte255(c.R), byte255(c.G), byte255(c.B),
		}},
	}}
}

func thickness(vs ...float64) render.Value {
	return render.New{Type: "System.Windows.Thickness", Args: nums(vs...)}
}

// WPF has no switch. Children are placed in a Canvas by margin.
var wpf = &Vocabulary{
	name: "wpf",
	classes: map[Role]string{
		RoleView:    "System.Windows.Controls.Canvas",
		RoleLabel:   "System.Windows.Controls.TextBlock",
		RoleBox:     "System.Windows.Controls.Border",
		RoleEllipse: "System.Windows.Controls.Border",
		RoleLine:    "System.Windows.Controls.Border",
		RoleImage:   "System.Windows.Controls.Image",
	},
	controls: map[document.ControlType]ControlSpec{
		document.ControlButton: {
			Class: "System.Windows.Controls.Button",
			Label: setLabel("Content"),
		},
		document.ControlComboBox: {
			Class: "System.Windows.Controls.ComboBox",
			Setup: func(w render.Widget) { w.Set("IsEditable", render.Bool(true)) },
			Label: func(w render.Widget, text render.Str) {
				w.Call("Items.Add", text)
				w.Set("Text", text)
			},
		},
		document.ControlPopUpButton: {
			Class: "System.Windows.Controls.ComboBox",
			Label: func(w render.Widget, text render.Str) {
				w.Call("Items.Add", text)
				w.Set("SelectedIndex", render.Num(0))
			},
		},
		document.ControlCheckBox: {
			Class: "System.Windows.Controls.CheckBox",
			Label: setLabel("Content"),
		},
		document.ControlRadioButton: {
			Class: "System.Windows.Controls.RadioButton",
			Label: setLabel("Content"),
		},
		document.ControlTextField: {
			Class: "System.Windows.Controls.TextBox",
			Label: setLabel("Text"),
		},
	},

	frame: func(r document.Rect, _ float64) []render.Assignment {
		return []render.Assignment{
			{Member: "Margin", Value: thickness(r.X, r.Y, 0, 0)},
			{Member: "Width", Value: render.Num(r.Width)},
			{Member: "Height", Value: render.Num(r.Height)},
		}
	},
	color: brush,
	background: func(c render.Value) []render.Assignment {
		return []render.Assignment{{Member: "Background", Value: c}}
	},
	addChild: "Children.Add",
	image: func(ref string) render.Assignment {
		return render.Assignment{Member: "Source", Value: render.New{
			Type: "System.Windows.Media.Imaging.BitmapImage",
			Args: []render.Value{render.New{Type: "System.Uri", Args: []render.Value{
				render.Str{Text: "pack://application:,,,/Resources/" + ref + ".png"},
			}}},
		}}
	},
	localize: "Properties.Resources.ResourceManager.GetString(%s)",

	textMember: "Text",
	textColor:  "Foreground",
	font: func(style *document.TypeStyle) []render.Assignment {
		as := []render.Assignment{
			{Member: "FontFamily", Value: render.New{Type: "System.Windows.Media.FontFamily", Args: []render.Value{render.Str{Text: style.FontFamily}}}},
			{Member: "FontSize", Value: render.Num(style.FontSize)},
		}
		if style.FontWeight > 0 {
			as = append(as, render.Assignment{
				Member: "FontWeight",
				Value:  render.Call{Func: "System.Windows.FontWeight.FromOpenTypeWeight", Args: nums(style.FontWeight)},
			})
		}
		return as
	},
	alignment: func(align string) (render.Value, bool) {
		m, ok := alignmentMember(align)
		if m == "Justified" {
			m = "Justify"
		}
		return render.Enum{Type: "System.Windows.TextAlignment", Member: m}, ok
	},
	alignMember: "TextAlignment",

	alpha: "Opacity",
	cornerRadius: func(r float64) []render.Assignment {
		return []render.Assignment{{Member: "CornerRadius", Value: render.New{Type: "System.Windows.CornerRadius", Args: nums(r)}}}
	},
	border: func(c render.Value, width float64) []render.Assignment {
		return []render.Assignment{
			{Member: "BorderBrush", Value: c},
			{Member: "BorderThickness", Value: thickness(width)},
		}
	},

	sizeClass: func(s document.SizeClass) []render.Assignment {
		if s == document.SizeSmall {
			return []render.Assignment{{Member: "FontSize", Value: render.Num(11)}}
		}
		// WPF has no control size enum; Standard keeps the default font size.
		return nil
	},
	systemFont: []render.Assignment{{Member: "FontFamily", Value: render.Expr("System.Windows.SystemFonts.MessageFontFamily")}},
}
