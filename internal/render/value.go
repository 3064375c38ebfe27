package render

import (
	"strconv"
	"strings"
)

// Value is the right-hand side of a member assignment or a call argument.
// Code renders the C# expression; String renders the display form stored on
// native views.
type Value interface {
	Code() string
	String() string
}

// Str is a string literal. Translatable labels may be routed through a
// Localizer by the code renderer.
type Str struct {
	Text         string
	Translatable bool
}

func (s Str) Code() string   { return QuoteString(s.Text) }
func (s Str) String() string { return s.Text }

// Label returns a translatable string.
func Label(text string) Str { return Str{Text: text, Translatable: true} }

// Num is a plain numeric literal.
type Num float64

func (n Num) Code() string   { return formatFloat(float64(n)) }
func (n Num) String() string { return n.Code() }

// Float is a single-precision literal written with the f suffix.
type Float float64

func (f Float) Code() string   { return formatFloat(float64(f)) + "f" }
func (f Float) String() string { return formatFloat(float64(f)) }

// Bool is a boolean literal.
type Bool bool

func (b Bool) Code() string   { return strconv.FormatBool(bool(b)) }
func (b Bool) String() string { return b.Code() }

// Enum is a fully-qualified enum member such as AppKit.NSControlSize.Small.
type Enum struct {
	Type   string
	Member string
}

func (e Enum) Code() string   { return e.Type + "." + e.Member }
func (e Enum) String() string { return e.Code() }

// New is a constructor expression.
type New struct {
	Type string
	Args []Value
}

func (n New) Code() string   { return "new " + n.Type + "(" + joinArgs(n.Args) + ")" }
func (n New) String() string { return n.Code() }

// Call is a static call or factory expression such as NSFont.SystemFontOfSize(12).
type Call struct {
	Func string
	Args []Value
}

func (c Call) Code() string   { return c.Func + "(" + joinArgs(c.Args) + ")" }
func (c Call) String() string { return c.Code() }

// Expr is a raw expression written as-is.
type Expr string

func (e Expr) Code() string   { return string(e) }
func (e Expr) String() string { return string(e) }

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Code()
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// QuoteString returns s as a C# string literal. Multi-line strings use the
// verbatim form, where the only escape is a doubled quote.
func QuoteString(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return `@"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			// C# treats NEL and the Unicode line and paragraph separators as new-lines.
			if r < 0x20 || r == 0x85 || r == 0x2028 || r == 0x2029 {
				b.WriteString(`\u`)
				b.WriteString(strings.ToUpper(padHex(strconv.FormatInt(int64(r), 16))))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func padHex(h string) string {
	return strings.Repeat("0", 4-len(h)) + h
}
