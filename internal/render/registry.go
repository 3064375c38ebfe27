package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/k-kohey/figkit/internal/document"
)

var (
	// ErrNoConverter is returned when no converter handles a node.
	ErrNoConverter = errors.New("no converter found")
	// ErrAmbiguous is returned by NewRegistry when two converters accept the
	// same key and the tie-break table does not order them.
	ErrAmbiguous = errors.New("ambiguous converter set")
)

// TieBreak orders, per key, the converters that accept it. The first one
// whose CanConvert holds wins.
type TieBreak map[Capability][]string

// Registry dispatches nodes to converters by capability key.
type Registry struct {
	converters []Converter
	rules      map[Capability][]Converter
}

// NewRegistry indexes converters by key. Every key accepted by more than one
// converter must have a tie-break entry naming all of them.
func NewRegistry(set ConverterSet) (*Registry, error) {
	r := &Registry{rules: make(map[Capability][]Converter)}
	byName := make(map[string]Converter, len(set.Converters))

	for _, c := range set.Converters {
		if _, dup := byName[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate converter %q: %w", c.Name(), ErrAmbiguous)
		}
		byName[c.Name()] = c
		r.converters = append(r.converters, c)
		for _, key := range c.Accepts() {
			r.rules[key] = append(r.rules[key], c)
		}
	}

	var errs []error
	for key, candidates := range r.rules {
		if len(candidates) < 2 {
			continue
		}
		order, ok := set.TieBreak[key]
		if !ok {
			errs = append(errs, fmt.Errorf("key %s accepted by %s with no tie-break: %w", key, names(candidates), ErrAmbiguous))
			continue
		}
		ordered, err := applyOrder(key, candidates, order)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.rules[key] = ordered
	}
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return nil, errors.Join(errs...)
	}
	return r, nil
}

func applyOrder(key Capability, candidates []Converter, order []string) ([]Converter, error) {
	index := make(map[string]Converter, len(candidates))
	for _, c := range candidates {
		index[c.Name()] = c
	}
	ordered := make([]Converter, 0, len(candidates))
	for _, name := range order {
		c, ok := index[name]
		if !ok {
			continue
		}
		ordered = append(ordered, c)
		delete(index, name)
	}
	if len(index) > 0 {
		var missing []string
		for name := range index {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("tie-break for %s does not rank %s: %w", key, strings.Join(missing, ", "), ErrAmbiguous)
	}
	return ordered, nil
}

func names(cs []Converter) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// SelectConverter returns the converter for n. The result depends only on
// the converter set and n's capability key.
func (r *Registry) SelectConverter(n *document.Node) (Converter, error) {
	key := CapabilityOf(n)
	for _, c := range r.rules[key] {
		if c.CanConvert(n) {
			return c, nil
		}
	}
	return nil, &ConversionError{NodeID: n.ID, Name: n.Name, Key: key, Err: ErrNoConverter}
}

// Converters returns the registered converters in registration order.
func (r *Registry) Converters() []Converter {
	out := make([]Converter, len(r.converters))
	copy(out, r.converters)
	return out
}

// ConversionError is a structural failure for the subtree rooted at a node.
type ConversionError struct {
	NodeID string
	Name   string
	Key    Capability
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("node %s (%q, %s): %v", e.NodeID, e.Name, e.Key, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
