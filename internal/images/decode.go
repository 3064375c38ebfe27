// Package images resolves the image fills of a rendered tree from a bundled
// manifest, a local directory or the Figma render API.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/k-kohey/figkit/internal/document"
)

// maxImageSize caps a single downloaded image (20MB).
const maxImageSize = 20 << 20

// Scale is the backing scale images are fitted to.
const Scale = 2

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Decode decodes PNG, JPEG, GIF, BMP, TIFF and WebP data.
func Decode(data []byte) (image.Image, error) {
	if isWebP(data) {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding webp: %w", err)
		}
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Fetch downloads and decodes the image at url.
func Fetch(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}
	return Decode(data)
}

// Fit scales img down to Scale times the frame, preserving aspect ratio.
// Images already small enough and empty frames are returned unchanged.
func Fit(img image.Image, frame document.Rect) image.Image {
	w, h := int(frame.Width*Scale), int(frame.Height*Scale)
	if w <= 0 || h <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
