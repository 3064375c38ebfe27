package document

import "fmt"

// GeometryError reports a node whose bounding box was not finite or had a
// negative size and was clamped.
type GeometryError struct {
	NodeID string
	Name   string
	Box    Rect
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("node %s (%q) has malformed geometry %+v, clamped", e.NodeID, e.Name, e.Box)
}

// CalculateBounds fixes up the bounding boxes of the subtree rooted at n.
//
// Figma omits absoluteBoundingBox for some first-level frames. A node with an
// unset box takes its declared size; without one it takes the union of its
// children. Descendants with an unset box inherit the parent's box. Malformed
// boxes are clamped and returned as *GeometryError values.
func (n *Node) CalculateBounds() []error {
	var errs []error
	n.calculateBounds(&errs)
	return errs
}

func (n *Node) calculateBounds(errs *[]error) {
	if n.Bounds != nil && !n.Bounds.Valid() {
		*errs = append(*errs, &GeometryError{NodeID: n.ID, Name: n.Name, Box: *n.Bounds})
		clamped := n.Bounds.Clamp()
		n.Bounds = &clamped
	}

	if n.Bounds == nil {
		switch {
		case n.Size != nil:
			b := Rect{Width: n.Size.Width, Height: n.Size.Height}
			if n.Parent != nil && n.Parent.Bounds != nil && !n.IsRoot() {
				b.X, b.Y = n.Parent.Bounds.X, n.Parent.Bounds.Y
			}
			if !b.Valid() {
				*errs = append(*errs, &GeometryError{NodeID: n.ID, Name: n.Name, Box: b})
				b = b.Clamp()
			}
			n.Bounds = &b
		case !n.IsRoot() && n.Parent != nil && n.Parent.Bounds != nil:
			b := *n.Parent.Bounds
			n.Bounds = &b
		}
	}

	for _, c := range n.Children {
		c.calculateBounds(errs)
	}

	// Still unset: derive from children now that they are resolved.
	if n.Bounds == nil {
		var union *Rect
		for _, c := range n.Children {
			if c.Bounds == nil {
				continue
			}
			if union == nil {
				b := *c.Bounds
				union = &b
				continue
			}
			u := union.Union(*c.Bounds)
			union = &u
		}
		if union == nil {
			union = &Rect{}
		}
		n.Bounds = union
	}
}
