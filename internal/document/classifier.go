package document

import (
	"strings"
	"unicode"
)

// ControlType identifies the native widget a tagged node stands for.
type ControlType int

const (
	ControlNone ControlType = iota
	ControlButton
	ControlComboBox
	ControlPopUpButton
	ControlCheckBox
	ControlRadioButton
	ControlSwitch
	ControlTextField
)

var controlNames = [...]string{
	"None", "Button", "ComboBox", "PopUpButton", "CheckBox", "RadioButton", "Switch", "TextField",
}

func (c ControlType) String() string {
	if int(c) >= 0 && int(c) < len(controlNames) {
		return controlNames[c]
	}
	return "None"
}

// SizeClass is the control size variant.
type SizeClass int

const (
	SizeStandard SizeClass = iota
	SizeSmall
)

func (s SizeClass) String() string {
	if s == SizeSmall {
		return "Small"
	}
	return "Standard"
}

// ComponentType is a concrete control variant such as ComboBoxSmallDark.
type ComponentType struct {
	Control ControlType
	Size    SizeClass
	Dark    bool
}

func (t ComponentType) String() string {
	if t.Control == ControlNone {
		return "None"
	}
	s := t.Control.String() + t.Size.String()
	if t.Dark {
		s += "Dark"
	}
	return s
}

// componentTypes maps the normalized tag to its variant. Built once from
// every control crossed with size and appearance.
var componentTypes = func() map[string]ComponentType {
	m := make(map[string]ComponentType)
	for c := ControlButton; c <= ControlTextField; c++ {
		for _, size := range []SizeClass{SizeStandard, SizeSmall} {
			for _, dark := range []bool{false, true} {
				t := ComponentType{Control: c, Size: size, Dark: dark}
				m[strings.ToLower(t.String())] = t
			}
		}
	}
	return m
}()

// normalizeTag strips separators and spaces and lowercases the tag,
// so "ComboBox/Small Dark" and "combobox-small-dark" compare equal.
func normalizeTag(tag string) string {
	var b strings.Builder
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ParseComponentType resolves a native control tag.
func ParseComponentType(tag string) (ComponentType, bool) {
	t, ok := componentTypes[normalizeTag(tag)]
	return t, ok
}

// nativeControlTag returns the tag source: the resolved component name of an
// instance, falling back to the node name.
func (n *Node) nativeControlTag() string {
	if n.ComponentName != "" {
		return n.ComponentName
	}
	return n.Name
}

// TryGetNativeControlComponentType reports the control variant the node is
// tagged with. A missing tag is not an error: the node renders as a generic
// container or shape.
func (n *Node) TryGetNativeControlComponentType() (ComponentType, bool) {
	if n.Kind != KindFrame && n.Kind != KindInstance {
		return ComponentType{}, false
	}
	if t, ok := ParseComponentType(n.nativeControlTag()); ok {
		return t, true
	}
	// Instances of an unrecognized component may still be named after a control.
	if n.ComponentName != "" {
		return ParseComponentType(n.Name)
	}
	return ComponentType{}, false
}

// TryGetNativeControlType reports which native control the node maps to.
func (n *Node) TryGetNativeControlType() (ControlType, bool) {
	t, ok := n.TryGetNativeControlComponentType()
	if !ok {
		return ControlNone, false
	}
	return t.Control, true
}
