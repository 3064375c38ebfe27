package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/k-kohey/figkit/internal/document"
)

// CodeOptions controls code generation.
type CodeOptions struct {
	Naming Naming
	// TranslateLabels routes translatable strings through Localizer.
	TranslateLabels bool
	// Localizer defaults to the toolkit's string lookup.
	Localizer Localizer
	// RootName names the rendered root. The root is then treated as an
	// existing field and assigned without var; "this" skips its constructor.
	RootName string
}

// CodeRenderer emits C# statements that build the same tree the
// ViewRenderer builds live. A renderer is one pass: its buffer and names
// persist across RenderToCode calls until Reset.
type CodeRenderer struct {
	registry *Registry
	toolkit  Toolkit
	opts     CodeOptions
	reporter Reporter

	buf         *CodeBuffer
	names       *namer
	root        *document.Node
	unanchored  map[string]bool
	diagnostics []Diagnostic
}

// NewCodeRenderer builds a code renderer from the delegate's converters.
func NewCodeRenderer(d Delegate, opts CodeOptions, reporter Reporter) (*CodeRenderer, error) {
	registry, err := NewRegistry(d.GetFigmaConverters())
	if err != nil {
		return nil, fmt.Errorf("building converter registry: %w", err)
	}
	if reporter == nil {
		reporter = LogReporter{}
	}
	r := &CodeRenderer{registry: registry, toolkit: d.Toolkit(), opts: opts, reporter: reporter}
	r.Reset()
	return r, nil
}

// Reset starts a new pass with an empty buffer.
func (r *CodeRenderer) Reset() {
	r.buf = NewCodeBuffer()
	r.names = newNamer(r.opts.Naming)
	r.root = nil
	r.unanchored = make(map[string]bool)
	r.diagnostics = nil
}

// Buffer returns the pass's statement buffer.
func (r *CodeRenderer) Buffer() *CodeBuffer { return r.buf }

// Diagnostics returns every diagnostic reported during the pass.
func (r *CodeRenderer) Diagnostics() []Diagnostic { return r.diagnostics }

// RenderToCode appends the statements for n to the pass buffer and returns
// the text produced by this call. parentVarName is the variable the root is
// attached to; empty leaves the root unattached.
func (r *CodeRenderer) RenderToCode(n *document.Node, parentVarName string) (string, error) {
	if n == nil {
		return "", errors.New("render: nil node")
	}
	if r.root == nil {
		r.root = n
		if r.opts.RootName != "" {
			r.names.assign(n.ID, r.opts.RootName)
		}
	}
	r.names.reserve(parentVarName)

	start := r.buf.Len()
	diag := &collector{reporter: r.reporter}
	w := &walker[string]{registry: r.registry, toolkit: r.toolkit, sink: &codeSink{r: r}, diag: diag}
	w.bounds(n)
	w.visit(n, parentVarName, true)
	r.diagnostics = append(r.diagnostics, diag.items...)

	out := string(r.buf.Bytes()[start:])
	return strings.TrimPrefix(out, "\n"), errors.Join(diag.errs...)
}

// VarName returns the variable generated for n.
func (r *CodeRenderer) VarName(n *document.Node) string {
	return r.names.name(n.ID, n.Name, n.Kind.String())
}

// NeedsRenderConstructor reports whether n's variable still needs a
// constructor statement in this pass.
func (r *CodeRenderer) NeedsRenderConstructor(n *document.Node) bool {
	if n == r.root && r.opts.RootName == "this" {
		return false
	}
	return !r.buf.Declared(r.VarName(n))
}

// NodeRendersVar reports whether n's declaration introduces a local with
// var. A named root is an existing field.
func (r *CodeRenderer) NodeRendersVar(n *document.Node) bool {
	return !(n == r.root && r.opts.RootName != "")
}

func (r *CodeRenderer) localizer() Localizer {
	if r.opts.Localizer != nil {
		return r.opts.Localizer
	}
	return LocalizerFunc(r.toolkit.Localize)
}

// expr renders v, localizing translatable strings when requested.
func (r *CodeRenderer) expr(v Value) string {
	switch t := v.(type) {
	case Str:
		if t.Translatable && r.opts.TranslateLabels {
			return r.localizer().Localize(t.Code())
		}
		return t.Code()
	case New:
		return "new " + t.Type + "(" + r.exprs(t.Args) + ")"
	case Call:
		return t.Func + "(" + r.exprs(t.Args) + ")"
	default:
		return v.Code()
	}
}

func (r *CodeRenderer) exprs(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = r.expr(v)
	}
	return strings.Join(parts, ", ")
}

type codeSink struct {
	r *CodeRenderer
}

func (s *codeSink) Create(n *document.Node, c Converter, _ document.Rect) (string, Widget) {
	r := s.r
	name := r.VarName(n)
	if r.buf.Len() > 0 {
		r.buf.WriteBlank()
	}
	if r.NeedsRenderConstructor(n) {
		r.buf.WriteConstructor(name, c.GetControlType(n), r.NodeRendersVar(n))
	}
	return name, &codeWidget{name: name, r: r}
}

func (s *codeSink) Attach(parent, child string) {
	if parent == "" {
		return
	}
	s.r.buf.WriteMethod(parent, s.r.toolkit.AddChild(), child)
}

func (s *codeSink) Constrain(parent, child string, anchor string, constant float64) {
	if !s.r.unanchored[child] {
		s.r.buf.WriteEquality(child, "TranslatesAutoresizingMaskIntoConstraints", "false")
		s.r.unanchored[child] = true
	}
	s.r.buf.WriteConstraint(child, anchor, parent, constant)
}

type codeWidget struct {
	name string
	r    *CodeRenderer
}

func (w *codeWidget) Set(member string, v Value) {
	w.r.buf.WriteEquality(w.name, member, w.r.expr(v))
}

func (w *codeWidget) Call(method string, args ...Value) {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = w.r.expr(a)
	}
	w.r.buf.WriteMethod(w.name, method, strs...)
}

func (w *codeWidget) DeferImage(paint document.Paint) {
	a := w.r.toolkit.Image(paint.ImageRef)
	w.r.buf.WriteEquality(w.name, a.Member, w.r.expr(a.Value))
}
