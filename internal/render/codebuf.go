package render

import (
	"bytes"
	"fmt"
	"strings"
)

// CodeBuffer is the append-only statement buffer of one code render pass,
// plus the set of variables already declared in it.
type CodeBuffer struct {
	bytes.Buffer
	declared map[string]bool
}

func NewCodeBuffer() *CodeBuffer {
	return &CodeBuffer{declared: make(map[string]bool)}
}

func (b *CodeBuffer) line(format string, args ...any) {
	fmt.Fprintf(&b.Buffer, format+"\n", args...)
}

// Declared reports whether name already has a constructor statement.
func (b *CodeBuffer) Declared(name string) bool {
	return b.declared[name]
}

// WriteConstructor writes `var name = new T();`, or `name = new T();` for an
// existing field.
func (b *CodeBuffer) WriteConstructor(name, typ string, withVar bool) {
	if withVar {
		b.line("var %s = new %s();", name, typ)
	} else {
		b.line("%s = new %s();", name, typ)
	}
	b.declared[name] = true
}

// WriteEquality writes `owner.member = value;`.
func (b *CodeBuffer) WriteEquality(owner, member, value string) {
	b.line("%s.%s = %s;", owner, member, value)
}

// WriteMethod writes `owner.method(args);`.
func (b *CodeBuffer) WriteMethod(owner, method string, args ...string) {
	b.line("%s.%s(%s);", owner, method, strings.Join(args, ", "))
}

// WriteConstraint writes an active anchor constraint. Width and Height pin
// item to a constant; other anchors pin it to the same anchor of target.
func (b *CodeBuffer) WriteConstraint(item, anchor, target string, constant float64) {
	c := Float(constant).Code()
	if anchor == "Width" || anchor == "Height" {
		b.line("%s.%sAnchor.ConstraintEqualToConstant(%s).Active = true;", item, anchor, c)
		return
	}
	b.line("%s.%sAnchor.ConstraintEqualToAnchor(%s.%sAnchor, %s).Active = true;", item, anchor, target, anchor, c)
}

// WriteBlank separates the statements of sibling nodes.
func (b *CodeBuffer) WriteBlank() {
	b.WriteByte('\n')
}
