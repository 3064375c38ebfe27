package native

import (
	"image"

	"github.com/k-kohey/figkit/internal/document"
)

// ImageView wraps a view whose content comes from an image fill resolved
// after the synchronous tree build.
type ImageView struct {
	View     *View
	NodeID   string
	ImageRef string
	// ScaleMode is the fill's Figma scale mode (FILL, FIT, TILE, STRETCH).
	ScaleMode string
}

// NewImageView creates a wrapper for view pending the given paint.
func NewImageView(view *View, nodeID string, paint document.Paint) *ImageView {
	return &ImageView{View: view, NodeID: nodeID, ImageRef: paint.ImageRef, ScaleMode: paint.ScaleMode}
}

// Frame returns the wrapped view's frame.
func (w *ImageView) Frame() document.Rect {
	if w.View == nil {
		return document.Rect{}
	}
	return w.View.Frame()
}

// SetImage assigns img to the wrapped view and reports whether it was applied.
// A disposed view ignores the call.
func (w *ImageView) SetImage(img image.Image) bool {
	if w.View == nil || img == nil {
		return false
	}
	w.View.mu.Lock()
	defer w.View.mu.Unlock()
	if w.View.disposed {
		return false
	}
	w.View.image = img
	return true
}

// Loaded reports whether an image has been assigned.
func (w *ImageView) Loaded() bool {
	return w.View != nil && w.View.Image() != nil
}
