package view

import (
	"github.com/k-kohey/figkit/internal/native"
)

// BuildTree converts the subviews of root into output nodes. maxDepth <= 0
// means unlimited; deeper subviews are summarized by SubviewCount.
func BuildTree(root *native.View, maxDepth int) []Node {
	depth := -1
	if maxDepth > 0 {
		depth = maxDepth
	}
	var out []Node
	for _, v := range root.Subviews() {
		out = append(out, buildNode(v, depth))
	}
	return out
}

// BuildNode converts a single view and all of its subviews.
func BuildNode(v *native.View) Node {
	return buildNode(v, -1)
}

func buildNode(v *native.View, depth int) Node {
	f := v.Frame()
	n := Node{
		Class:  v.Class(),
		Name:   v.Name(),
		NodeID: v.NodeID(),
		Frame:  &Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
	}
	if c, ok := v.Fill(); ok {
		n.Background = c.Hex()
	}
	for _, p := range v.Properties() {
		n.Properties = append(n.Properties, Property{Name: p.Name, Value: p.Value})
	}
	for _, call := range v.Invocations() {
		n.Invocations = append(n.Invocations, Invocation{Method: call.Method, Args: call.Args})
	}
	for _, c := range v.Constraints() {
		n.Constraints = append(n.Constraints, Constraint{Item: itemName(c.Item), Anchor: c.Anchor, Constant: c.Constant})
	}
	if v.Image() != nil {
		n.Image = ImageLoaded
	}

	subviews := v.Subviews()
	if depth == 0 {
		if len(subviews) > 0 {
			count := len(subviews)
			n.SubviewCount = &count
		}
		return n
	}
	for _, sv := range subviews {
		n.Subviews = append(n.Subviews, buildNode(sv, depth-1))
	}
	return n
}

// MarkPending flags the nodes whose image is still loading.
func MarkPending(nodes []Node, pending []*native.ImageView) {
	ids := make(map[string]bool, len(pending))
	for _, iv := range pending {
		if !iv.Loaded() {
			ids[iv.NodeID] = true
		}
	}
	var mark func(ns []Node)
	mark = func(ns []Node) {
		for i := range ns {
			if ns[i].Image == "" && ids[ns[i].NodeID] {
				ns[i].Image = ImagePending
			}
			mark(ns[i].Subviews)
		}
	}
	mark(nodes)
}

func itemName(v *native.View) string {
	if v == nil {
		return ""
	}
	if name := v.Name(); name != "" {
		return name
	}
	return v.NodeID()
}
