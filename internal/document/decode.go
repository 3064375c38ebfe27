package document

import (
	"encoding/json"
	"fmt"
)

// rawFile is the JSON structure of a Figma file response (GET /v1/files/:key).
type rawFile struct {
	Name         string                  `json:"name"`
	LastModified string                  `json:"lastModified"`
	Document     *rawNode                `json:"document"`
	Components   map[string]rawComponent `json:"components"`
}

type rawComponent struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rawNode struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Type                string               `json:"type"`
	Visible             *bool                `json:"visible"`
	Children            []*rawNode           `json:"children"`
	AbsoluteBoundingBox *rawRect             `json:"absoluteBoundingBox"`
	Size                *rawVector           `json:"size"`
	BackgroundColor     *rawColor            `json:"backgroundColor"`
	Fills               []rawPaint           `json:"fills"`
	Strokes             []rawPaint           `json:"strokes"`
	StrokeWeight        float64              `json:"strokeWeight"`
	CornerRadius        float64              `json:"cornerRadius"`
	Opacity             *float64             `json:"opacity"`
	Characters          string               `json:"characters"`
	Style               *rawTypeStyle        `json:"style"`
	Constraints         *rawLayoutConstraint `json:"constraints"`
	ComponentID         string               `json:"componentId"`
}

type rawRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type rawVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type rawPaint struct {
	Type      string    `json:"type"`
	Visible   *bool     `json:"visible"`
	Opacity   *float64  `json:"opacity"`
	Color     *rawColor `json:"color"`
	ImageRef  string    `json:"imageRef"`
	ScaleMode string    `json:"scaleMode"`
}

type rawTypeStyle struct {
	FontFamily          string  `json:"fontFamily"`
	FontPostScriptName  string  `json:"fontPostScriptName"`
	FontSize            float64 `json:"fontSize"`
	FontWeight          float64 `json:"fontWeight"`
	Italic              bool    `json:"italic"`
	TextAlignHorizontal string  `json:"textAlignHorizontal"`
	TextAlignVertical   string  `json:"textAlignVertical"`
	LineHeightPx        float64 `json:"lineHeightPx"`
}

type rawLayoutConstraint struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

// Parse decodes a Figma file JSON payload into a Document.
func Parse(data []byte) (*Document, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode figma document: %w", err)
	}
	if raw.Document == nil {
		return nil, fmt.Errorf("figma document has no root node")
	}

	doc := &Document{
		Name:         raw.Name,
		LastModified: raw.LastModified,
		Components:   make(map[string]Component, len(raw.Components)),
	}
	for id, c := range raw.Components {
		doc.Components[id] = Component{Key: c.Key, Name: c.Name, Description: c.Description}
	}
	doc.Root = buildNode(raw.Document, nil, doc.Components)
	return doc, nil
}

func isVisible(v *bool) bool {
	return v == nil || *v
}

func buildColor(c *rawColor) *Color {
	if c == nil {
		return nil
	}
	return &Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func buildPaints(raw []rawPaint) []Paint {
	if len(raw) == 0 {
		return nil
	}
	paints := make([]Paint, 0, len(raw))
	for _, p := range raw {
		opacity := 1.0
		if p.Opacity != nil {
			opacity = *p.Opacity
		}
		paints = append(paints, Paint{
			Type:      p.Type,
			Visible:   isVisible(p.Visible),
			Opacity:   opacity,
			Color:     buildColor(p.Color),
			ImageRef:  p.ImageRef,
			ScaleMode: p.ScaleMode,
		})
	}
	return paints
}

// buildNode recursively converts a rawNode, skipping hidden children.
func buildNode(r *rawNode, parent *Node, components map[string]Component) *Node {
	n := &Node{
		ID:              r.ID,
		Name:            r.Name,
		Type:            r.Type,
		Kind:            KindOf(r.Type),
		BackgroundColor: buildColor(r.BackgroundColor),
		Fills:           buildPaints(r.Fills),
		Strokes:         buildPaints(r.Strokes),
		StrokeWeight:    r.StrokeWeight,
		CornerRadius:    r.CornerRadius,
		Opacity:         1,
		Characters:      r.Characters,
		ComponentID:     r.ComponentID,
		Parent:          parent,
	}
	if r.Opacity != nil {
		n.Opacity = *r.Opacity
	}
	if r.AbsoluteBoundingBox != nil {
		b := Rect(*r.AbsoluteBoundingBox)
		n.Bounds = &b
	}
	if r.Size != nil {
		n.Size = &Size{Width: r.Size.X, Height: r.Size.Y}
	}
	if r.Style != nil {
		s := TypeStyle(*r.Style)
		n.Style = &s
	}
	if r.Constraints != nil {
		n.Constraints = &LayoutConstraint{Vertical: r.Constraints.Vertical, Horizontal: r.Constraints.Horizontal}
	}
	if c, ok := components[r.ComponentID]; ok {
		n.ComponentName = c.Name
	}

	for _, child := range r.Children {
		if child == nil || !isVisible(child.Visible) {
			continue
		}
		n.Children = append(n.Children, buildNode(child, n, components))
	}
	return n
}
