package render

import "fmt"

// Localizer turns a quoted string literal into a localized string lookup.
type Localizer interface {
	Localize(literal string) string
}

// LocalizerFunc adapts a function to Localizer.
type LocalizerFunc func(literal string) string

func (f LocalizerFunc) Localize(literal string) string { return f(literal) }

// FormatLocalizer builds a Localizer from a format with one %s verb, for
// example "Strings.Get(%s)".
func FormatLocalizer(format string) Localizer {
	return LocalizerFunc(func(literal string) string {
		return fmt.Sprintf(format, literal)
	})
}
