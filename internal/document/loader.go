package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

// ErrViewNotFound is returned when the requested view or node is missing.
var ErrViewNotFound = errors.New("view not found")

// LoadFile reads and parses a Figma document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read figma file: %w", err)
	}
	return Parse(data)
}

// LoadResource reads and parses a document bundled in fsys (typically an embed.FS).
func LoadResource(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read figma resource %s: %w", name, err)
	}
	return Parse(data)
}

// LoadURL downloads and parses a document referenced by URL.
func LoadURL(ctx context.Context, client *http.Client, url string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching figma file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching figma file: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading figma file: %w", err)
	}
	return Parse(data)
}

// FindView returns the top-level frame named viewName (the first frame when
// viewName is empty) and, when nodeName is set, the descendant with that name.
func (d *Document) FindView(viewName, nodeName string) (*Node, error) {
	var view *Node
	for _, page := range d.Pages() {
		for _, frame := range page.Children {
			if viewName == "" || frame.Name == viewName {
				view = frame
				break
			}
		}
		if view != nil {
			break
		}
	}
	if view == nil {
		return nil, notFound(viewName, nodeName)
	}
	if nodeName == "" {
		return view, nil
	}

	var found *Node
	view.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Name == nodeName {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, notFound(viewName, nodeName)
	}
	return found, nil
}

func notFound(viewName, nodeName string) error {
	if nodeName != "" {
		return fmt.Errorf("figma file does not have a view name: %q or node name: %q: %w", viewName, nodeName, ErrViewNotFound)
	}
	return fmt.Errorf("figma file does not have a view name: %q: %w", viewName, ErrViewNotFound)
}
