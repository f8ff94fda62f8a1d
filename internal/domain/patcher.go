package domain

import (
	"fmt"
	"go/scanner"
	"go/token"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

const (
	lineDelimiter      = "\n"
	statementDelimiter = ";"
	funcKeyword        = "func"
)

var asyncFuncPrefix = regexp.MustCompile(`^async\s+func[\s(]`)

// Patcher applies anchored edits to the source of a callable and compiles
// the result into a new callable. It never mutates live objects.
type Patcher struct {
	compiler adapter.ScriptCompiler
	logger   *slog.Logger
}

// NewPatcher constructs a Patcher. A nil logger uses slog.Default().
func NewPatcher(compiler adapter.ScriptCompiler, logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Patcher{
		compiler: compiler,
		logger:   logger.With(slog.String("component", "patcher")),
	}
}

// Patch returns a new function built from fn's source with every anchor
// replaced. fn is left untouched whether or not patching succeeds. The
// result keeps fn's name and async nature; its Source is the edited text.
func (p *Patcher) Patch(fn *host.Function, patches []m.AnchorPatch) (*host.Function, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrPatchMismatch)
	}

	if fn.Source == "" {
		return nil, fmt.Errorf("%w: %s has no source text", ErrPatchMismatch, fn.Name)
	}

	edited, err := PatchText(fn.Name, fn.Source, patches)
	if err != nil {
		p.logger.Warn("anchor mismatch", slog.String("function", fn.Name), slog.String("error", err.Error()))

		return nil, err
	}

	normalized := Normalize(edited)

	compiled, err := p.compiler.Compile(fn.Name, normalized)
	if err != nil {
		p.logger.Error("patched function does not compile", slog.String("function", fn.Name), slog.String("error", err.Error()))

		return nil, &PatchCompileError{Function: fn.Name, Text: normalized, Err: err}
	}

	if compiled.Async != fn.Async {
		return nil, &PatchCompileError{
			Function: fn.Name,
			Text:     normalized,
			Err:      fmt.Errorf("async=%t does not match original async=%t", compiled.Async, fn.Async),
		}
	}

	compiled.Name = fn.Name
	compiled.Source = edited

	p.logger.Debug("patched function", slog.String("function", fn.Name), slog.Int("anchors", len(patches)))

	return compiled, nil
}

// PatchText verifies every anchor against src and returns the edited text.
// Lines are compared after trimming; the replacement keeps the line's
// surrounding whitespace. Any mismatch aborts with *PatchMismatchError.
func PatchText(name, src string, patches []m.AnchorPatch) (string, error) {
	lines, delim := splitSource(src)

	for _, patch := range patches {
		if patch.Line < 0 || patch.Line >= len(lines) {
			return "", &PatchMismatchError{
				Function:    name,
				Anchor:      patch.Line,
				Expected:    strings.TrimSpace(patch.Expected),
				OutOfRange:  true,
				Source:      src,
				Fingerprint: adapter.Fingerprint(src),
			}
		}

		line := lines[patch.Line]
		actual := strings.TrimSpace(line)
		expected := strings.TrimSpace(patch.Expected)

		if actual != expected {
			return "", &PatchMismatchError{
				Function:    name,
				Anchor:      patch.Line,
				Expected:    expected,
				Actual:      actual,
				Source:      src,
				Fingerprint: adapter.Fingerprint(src),
			}
		}

		lines[patch.Line] = replaceTrimmed(line, patch.Replacement)
	}

	return strings.Join(lines, delim), nil
}

// Normalize turns edited text into a standalone callable: member shorthand
// gets the func keyword and the async qualifier is moved before it.
func Normalize(text string) string {
	fixed := strings.TrimLeftFunc(text, unicode.IsSpace)

	if !hasKeyword(fixed, funcKeyword) && !asyncFuncPrefix.MatchString(fixed) {
		fixed = funcKeyword + " " + fixed
	}

	if rest, ok := strings.CutPrefix(fixed, "func async "); ok {
		fixed = "async func " + strings.TrimLeftFunc(rest, unicode.IsSpace)
	}

	return fixed
}

func hasKeyword(text, keyword string) bool {
	rest, ok := strings.CutPrefix(text, keyword)
	if !ok {
		return false
	}

	return rest == "" || rest[0] == '(' || unicode.IsSpace(rune(rest[0]))
}

// splitSource splits by newline, or by statement when the source is on a
// single line.
func splitSource(src string) ([]string, string) {
	if strings.Contains(src, lineDelimiter) {
		return strings.Split(src, lineDelimiter), lineDelimiter
	}

	return splitStatements(src), statementDelimiter
}

// splitStatements cuts at explicit semicolon tokens. Semicolons inside
// string literals and comments are not tokens and stay put.
func splitStatements(src string) []string {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, scanner.ScanComments)

	var parts []string

	start := 0

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}

		if tok == token.SEMICOLON && lit == statementDelimiter {
			off := file.Offset(pos)
			parts = append(parts, src[start:off])
			start = off + 1
		}
	}

	return append(parts, src[start:])
}

func replaceTrimmed(line, replacement string) string {
	body := strings.TrimSpace(line)
	if body == "" {
		return line + replacement
	}

	lead := line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
	trail := line[len(strings.TrimRightFunc(line, unicode.IsSpace)):]

	return lead + replacement + trail
}
