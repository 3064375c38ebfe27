package view

import (
	"fmt"
	"io"
	"strings"

	"howett.net/plist"
)

// Format selects a presenter.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatPlist Format = "plist"
)

// ParseFormat parses an output format name. Empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "plist", "xml":
		return FormatPlist, nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml or plist)", s)
	}
}

// PresentTreePlist writes TreeOutput as an XML property list to w.
func PresentTreePlist(w io.Writer, tree TreeOutput) error {
	data, err := plist.MarshalIndent(tree, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal plist: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Present writes tree in the given format.
func Present(w io.Writer, format Format, tree TreeOutput) error {
	if format == FormatPlist {
		return PresentTreePlist(w, tree)
	}
	return PresentTreeYAML(w, tree)
}
