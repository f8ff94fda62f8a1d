// Package model defines the data structures shared by the interposition engine.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SetterSuffix marks a target path as addressing the setter half of an accessor.
const SetterSuffix = "#set"

// TargetPath identifies a callable or accessor inside a namespace graph.
// Segments holds the unescaped keys; the first names a root binding and the
// last names the member.
type TargetPath struct {
	Segments []string
	Setter   bool
}

// Root returns the root binding name.
func (p TargetPath) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// Member returns the member name.
func (p TargetPath) Member() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[len(p.Segments)-1]
}

// Parent returns the path without its member.
func (p TargetPath) Parent() TargetPath {
	if len(p.Segments) <= 1 {
		return TargetPath{}
	}

	return TargetPath{Segments: p.Segments[:len(p.Segments)-1]}
}

// String renders the canonical form: identifiers are dotted, other keys are
// bracketed and double-quoted.
func (p TargetPath) String() string {
	var b strings.Builder

	for i, seg := range p.Segments {
		switch {
		case isIdentifier(seg) && i == 0:
			b.WriteString(seg)
		case isIdentifier(seg):
			b.WriteByte('.')
			b.WriteString(seg)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(seg))
			b.WriteByte(']')
		}
	}

	if p.Setter {
		b.WriteString(SetterSuffix)
	}

	return b.String()
}

// GoString makes paths readable in test failures.
func (p TargetPath) GoString() string {
	return fmt.Sprintf("model.TargetPath(%q)", p.String())
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
