// Package native is a toolkit-neutral retained view tree. Hosts map it onto
// AppKit, UIKit or WPF objects; the renderer and the presenters only ever
// see this model.
package native

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/k-kohey/figkit/internal/document"
)

// Property is a member assignment recorded on a view, in display form.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Invocation is a method call recorded on a view, such as Add("item").
type Invocation struct {
	Method string   `json:"method" yaml:"method"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Constraint pins an anchor of Item to the same anchor of its container.
type Constraint struct {
	Item     *View
	Anchor   string // Left, Right, Top, Bottom, CenterX, CenterY, Width, Height
	Constant float64
}

// View is one node of the retained tree.
type View struct {
	mu sync.RWMutex

	class  string
	name   string
	nodeID string
	frame  document.Rect
	fill   *document.Color

	props       []Property
	calls       []Invocation
	constraints []Constraint

	parent   *View
	children []*View
	disposed bool

	image      image.Image
	generation atomic.Uint64
}

// NewView creates a detached view of the given native class.
func NewView(class string) *View {
	return &View{class: class}
}

func (v *View) Class() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.class
}

func (v *View) Name() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.name
}

func (v *View) NodeID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.nodeID
}

// SetIdentity records the document node the view was built from.
func (v *View) SetIdentity(nodeID, name string) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nodeID, v.name = nodeID, name
	return v
}

// Frame returns the frame relative to the parent view.
func (v *View) Frame() document.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.frame
}

func (v *View) SetFrame(r document.Rect) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = r
	return v
}

// Fill returns the solid background the view was painted with.
func (v *View) Fill() (document.Color, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.fill == nil {
		return document.Color{}, false
	}
	return *v.fill, true
}

func (v *View) SetFill(c document.Color) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fill = &c
	return v
}

// Set assigns a member. A later assignment to the same member replaces the
// earlier one but keeps its position.
func (v *View) Set(name, value string) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.props {
		if v.props[i].Name == name {
			v.props[i].Value = value
			return v
		}
	}
	v.props = append(v.props, Property{Name: name, Value: value})
	return v
}

// Property returns the display value of a member.
func (v *View) Property(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Properties returns a copy of the assigned members in assignment order.
func (v *View) Properties() []Property {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Property, len(v.props))
	copy(out, v.props)
	return out
}

// Invoke records a method call.
func (v *View) Invoke(method string, args ...string) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, Invocation{Method: method, Args: args})
	return v
}

func (v *View) Invocations() []Invocation {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Invocation, len(v.calls))
	copy(out, v.calls)
	return out
}

// AddConstraint attaches a constraint to v, which must be the item's container.
func (v *View) AddConstraint(c Constraint) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.constraints = append(v.constraints, c)
	return v
}

func (v *View) Constraints() []Constraint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Constraint, len(v.constraints))
	copy(out, v.constraints)
	return out
}

// Parent returns the containing view, or nil for a root or detached view.
func (v *View) Parent() *View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.parent
}

// Subviews returns a copy of the children slice.
func (v *View) Subviews() []*View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*View, len(v.children))
	copy(out, v.children)
	return out
}

// AddSubview appends child, detaching it from any previous parent first.
func (v *View) AddSubview(child *View) *View {
	if old := child.Parent(); old != nil {
		old.removeChild(child)
	}

	child.mu.Lock()
	child.parent = v
	child.disposed = false
	child.mu.Unlock()

	v.mu.Lock()
	v.children = append(v.children, child)
	v.mu.Unlock()
	return v
}

func (v *View) removeChild(child *View) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i], v.children[i+1:]...)
			child.mu.Lock()
			child.parent = nil
			child.mu.Unlock()
			return true
		}
	}
	return false
}

// RemoveFromSuperview detaches v and disposes its subtree.
func (v *View) RemoveFromSuperview() {
	if p := v.Parent(); p != nil {
		p.removeChild(v)
	}
	v.dispose()
}

func (v *View) dispose() {
	v.mu.Lock()
	v.disposed = true
	v.image = nil
	children := v.children
	v.mu.Unlock()
	for _, c := range children {
		c.dispose()
	}
}

// Clear removes every subview and constraint, leaving v ready for a rebuild.
func (v *View) Clear() {
	v.mu.Lock()
	children := v.children
	v.children = nil
	v.constraints = nil
	v.mu.Unlock()

	for _, c := range children {
		c.mu.Lock()
		c.parent = nil
		c.mu.Unlock()
		c.dispose()
	}
}

// Disposed reports whether v was torn down by a Clear or RemoveFromSuperview.
func (v *View) Disposed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.disposed
}

// Image returns the bitmap assigned to v, if any.
func (v *View) Image() image.Image {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.image
}

// Generation returns the render pass counter of a container.
func (v *View) Generation() uint64 {
	return v.generation.Load()
}

// NextGeneration starts a new render pass on a container and returns its number.
func (v *View) NextGeneration() uint64 {
	return v.generation.Add(1)
}

// Count returns the number of views in the subtree rooted at v.
func (v *View) Count() int {
	n := 1
	for _, c := range v.Subviews() {
		n += c.Count()
	}
	return n
}
