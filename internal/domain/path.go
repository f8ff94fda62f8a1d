package domain

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/interpose/internal/model"
)

// ParseTargetPath tokenizes a path made of dotted identifiers and bracketed,
// quoted keys, e.g. `Foo.prototype["odd key"]`. Backslash escapes are
// honored everywhere. A trailing "#set" selects the setter.
func ParseTargetPath(target string) (m.TargetPath, error) {
	raw, setter := strings.CutSuffix(target, m.SetterSuffix)

	var segments []string

	for i := 0; i < len(raw); {
		switch raw[i] {
		case '.':
			if i == 0 || i == len(raw)-1 || raw[i+1] == '.' {
				return m.TargetPath{}, malformed(target, "empty segment")
			}

			i++
		case '[':
			seg, next, err := scanQuoted(raw, i)
			if err != nil {
				return m.TargetPath{}, malformed(target, err.Error())
			}

			segments = append(segments, seg)
			i = next
		default:
			seg, next := scanPlain(raw, i)
			segments = append(segments, seg)
			i = next
		}
	}

	if len(segments) == 0 {
		return m.TargetPath{}, malformed(target, "empty path")
	}

	return m.TargetPath{Segments: segments, Setter: setter}, nil
}

// scanPlain reads up to the next unescaped '.' or '['.
func scanPlain(raw string, start int) (string, int) {
	var b strings.Builder

	i := start
	for i < len(raw) {
		c := raw[i]
		if c == '.' || c == '[' {
			break
		}

		if c == '\\' && i+1 < len(raw) {
			b.WriteByte(raw[i+1])
			i += 2

			continue
		}

		b.WriteByte(c)
		i++
	}

	return b.String(), i
}

// scanQuoted reads ['...'] or ["..."] starting at the '['.
func scanQuoted(raw string, start int) (string, int, error) {
	if start+1 >= len(raw) || (raw[start+1] != '\'' && raw[start+1] != '"') {
		return "", 0, fmt.Errorf("bracketed key at %d must be quoted", start)
	}

	quote := raw[start+1]

	var b strings.Builder

	for i := start + 2; i < len(raw); i++ {
		c := raw[i]

		switch {
		case c == '\\' && i+1 < len(raw):
			b.WriteByte(raw[i+1])
			i++
		case c == quote:
			if i+1 >= len(raw) || raw[i+1] != ']' {
				return "", 0, fmt.Errorf("missing ] after key at %d", i)
			}

			if b.Len() == 0 {
				return "", 0, fmt.Errorf("empty key at %d", start)
			}

			return b.String(), i + 2, nil
		default:
			b.WriteByte(c)
		}
	}

	return "", 0, fmt.Errorf("unterminated key at %d", start)
}

func malformed(target, reason string) error {
	return &TargetNotFoundError{Target: target, Reason: "malformed path: " + reason}
}
