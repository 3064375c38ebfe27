// Package view turns rendered native trees into serializable output and
// presents them as YAML, XML plist or an interactive browser.
package view

import (
	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/render"
)

// Rect represents a rectangle with origin and size.
type Rect struct {
	X      float64 `json:"x" yaml:"x" plist:"x"`
	Y      float64 `json:"y" yaml:"y" plist:"y"`
	Width  float64 `json:"width" yaml:"width" plist:"width"`
	Height float64 `json:"height" yaml:"height" plist:"height"`
}

// Property is one member assignment.
type Property struct {
	Name  string `json:"name" yaml:"name" plist:"name"`
	Value string `json:"value" yaml:"value" plist:"value"`
}

// Invocation is one recorded method call.
type Invocation struct {
	Method string   `json:"method" yaml:"method" plist:"method"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty" plist:"args,omitempty"`
}

// Constraint represents a single anchor constraint owned by a view.
type Constraint struct {
	Item     string  `json:"item" yaml:"item" plist:"item"`
	Anchor   string  `json:"anchor" yaml:"anchor" plist:"anchor"`
	Constant float64 `json:"constant" yaml:"constant" plist:"constant"`
}

// Image states.
const (
	ImagePending = "pending"
	ImageLoaded  = "loaded"
)

// Node represents a rendered view (used for both tree and detail).
type Node struct {
	Class       string       `json:"class" yaml:"class" plist:"class"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty" plist:"name,omitempty"`
	NodeID      string       `json:"nodeId,omitempty" yaml:"nodeId,omitempty" plist:"nodeId,omitempty"`
	Frame       *Rect        `json:"frame,omitempty" yaml:"frame,omitempty" plist:"frame,omitempty"`
	Background  string       `json:"background,omitempty" yaml:"background,omitempty" plist:"background,omitempty"`
	Properties  []Property   `json:"properties,omitempty" yaml:"properties,omitempty" plist:"properties,omitempty"`
	Invocations []Invocation `json:"invocations,omitempty" yaml:"invocations,omitempty" plist:"invocations,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty" plist:"constraints,omitempty"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty" plist:"image,omitempty"`
	// SubviewCount is set when maxDepth cut the subviews off.
	SubviewCount *int   `json:"subviewCount,omitempty" yaml:"subviewCount,omitempty" plist:"subviewCount,omitempty"`
	Subviews     []Node `json:"subviews,omitempty" yaml:"subviews,omitempty" plist:"subviews,omitempty"`
}

// Diagnostic is a render diagnostic in output form.
type Diagnostic struct {
	Severity string `json:"severity" yaml:"severity" plist:"severity"`
	NodeID   string `json:"nodeId,omitempty" yaml:"nodeId,omitempty" plist:"nodeId,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" plist:"name,omitempty"`
	Message  string `json:"message" yaml:"message" plist:"message"`
}

// Diagnostics converts render diagnostics to output form.
func Diagnostics(ds []render.Diagnostic) []Diagnostic {
	if len(ds) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = Diagnostic{Severity: d.Severity.String(), NodeID: d.NodeID, Name: d.Name, Message: d.Message}
	}
	return out
}

// ImageStats is the outcome of a pass's image loads.
type ImageStats struct {
	Loaded  int `json:"loaded" yaml:"loaded" plist:"loaded"`
	Missing int `json:"missing" yaml:"missing" plist:"missing"`
	Failed  int `json:"failed" yaml:"failed" plist:"failed"`
	Stale   int `json:"stale" yaml:"stale" plist:"stale"`
}

// Stats converts batch stats to output form.
func Stats(s images.Stats) *ImageStats {
	return &ImageStats{Loaded: s.Loaded, Missing: s.Missing, Failed: s.Failed, Stale: s.Stale}
}

// TreeOutput is the top-level output for tree mode.
type TreeOutput struct {
	PassID      string       `json:"passId,omitempty" yaml:"passId,omitempty" plist:"passId,omitempty"`
	Platform    string       `json:"platform" yaml:"platform" plist:"platform"`
	View        string       `json:"view,omitempty" yaml:"view,omitempty" plist:"view,omitempty"`
	Generation  uint64       `json:"generation" yaml:"generation" plist:"generation"`
	Converted   int          `json:"converted" yaml:"converted" plist:"converted"`
	Views       []Node       `json:"views" yaml:"views" plist:"views"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" plist:"diagnostics,omitempty"`
	Images      *ImageStats  `json:"images,omitempty" yaml:"images,omitempty" plist:"images,omitempty"`
}
