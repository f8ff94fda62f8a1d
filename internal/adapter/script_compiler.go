package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/mouse-blink/interpose/internal/host"
)

const (
	hostImportPath = "github.com/mouse-blink/interpose/internal/host"
	scriptPackage  = "script"
	entrySymbol    = "Entry"
	asyncQualifier = "async"
)

// ErrCallingConvention is returned when compiled text is not a function with
// the host calling convention.
var ErrCallingConvention = errors.New("function does not match func(this any, args ...any) (any, error)")

// ScriptCompiler turns the text of a standalone callable into a host
// function. It keeps the domain free of interpreter details.
type ScriptCompiler interface {
	// Compile evaluates text in a fresh global scope. text is a function
	// literal or declaration, optionally preceded by the async qualifier.
	Compile(name string, text string) (*host.Function, error)
}

// Symbols exposes the host package to scripts.
var Symbols = interp.Exports{
	hostImportPath + "/host": {
		"Object":   reflect.ValueOf((*host.Object)(nil)),
		"Function": reflect.ValueOf((*host.Function)(nil)),
		"Pending":  reflect.ValueOf((*host.Pending)(nil)),
		"Next":     reflect.ValueOf((*host.Next)(nil)),
		"Invoke":   reflect.ValueOf(host.Invoke),
		"Get":      reflect.ValueOf(host.Get),
		"Continue": reflect.ValueOf(host.Continue),
		"Go":       reflect.ValueOf(host.Go),
		"Resolved": reflect.ValueOf(host.Resolved),
	},
}

// defaultImports maps package names scripts may reference to import paths.
var defaultImports = map[string]string{
	"errors":  "errors",
	"fmt":     "fmt",
	"sort":    "sort",
	"strconv": "strconv",
	"strings": "strings",
	"host":    hostImportPath,
}

// YaegiCompiler is a ScriptCompiler backed by the yaegi interpreter.
type YaegiCompiler struct {
	imports map[string]string
}

// NewYaegiCompiler constructs a compiler with the default import set.
func NewYaegiCompiler() *YaegiCompiler {
	return &YaegiCompiler{imports: defaultImports}
}

// Compile implements ScriptCompiler.
func (c *YaegiCompiler) Compile(name string, text string) (*host.Function, error) {
	body, async := SplitAsync(text)

	literal, err := toLiteral(body)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	unit, err := c.buildUnit(literal)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("compile %s: load stdlib: %w", name, err)
	}

	if err := i.Use(Symbols); err != nil {
		return nil, fmt.Errorf("compile %s: load host symbols: %w", name, err)
	}

	if _, err := i.Eval(unit); err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	v, err := i.Eval(scriptPackage + "." + entrySymbol)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("compile %s: %w", name, ErrCallingConvention)
	}

	fn, ok := v.Interface().(func(any, ...any) (any, error))
	if !ok {
		return nil, fmt.Errorf("compile %s: %w: got %s", name, ErrCallingConvention, v.Type())
	}

	impl := host.Func(fn)
	if async {
		impl = asyncFunc(impl)
	}

	return &host.Function{Name: name, Source: text, Async: async, Fn: impl}, nil
}

// buildUnit wraps a function literal into a compilable file, adding imports
// for the packages it references.
func (c *YaegiCompiler) buildUnit(literal string) (string, error) {
	src := "package " + scriptPackage + "\n\nvar " + entrySymbol + " = " + literal + "\n"

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "script.go", src, parser.ParseComments)
	if err != nil {
		return "", err
	}

	for _, name := range referencedPackages(file) {
		path, ok := c.imports[name]
		if !ok {
			continue
		}

		astutil.AddImport(fset, file, path)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// referencedPackages returns unresolved identifiers used as selector
// operands, which is how package references look before imports exist.
func referencedPackages(file *ast.File) []string {
	seen := make(map[string]struct{})

	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		if id, ok := sel.X.(*ast.Ident); ok && id.Obj == nil {
			seen[id.Name] = struct{}{}
		}

		return true
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// SplitAsync strips a leading async qualifier.
func SplitAsync(text string) (string, bool) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)

	rest, ok := strings.CutPrefix(trimmed, asyncQualifier)
	if !ok || rest == "" || !unicode.IsSpace(rune(rest[0])) {
		return text, false
	}

	return strings.TrimLeftFunc(rest, unicode.IsSpace), true
}

// toLiteral turns "func name(...)" into "func (...)"; literals pass through.
func toLiteral(text string) (string, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(text))

	var s scanner.Scanner
	s.Init(file, []byte(text), nil, 0)

	_, tok, _ := s.Scan()
	if tok != token.FUNC {
		return "", fmt.Errorf("expected func, found %s", tok)
	}

	pos, tok, lit := s.Scan()
	if tok != token.IDENT {
		return text, nil
	}

	start := file.Offset(pos)

	return text[:start] + text[start+len(lit):], nil
}

func asyncFunc(fn host.Func) host.Func {
	return func(this any, args ...any) (any, error) {
		return host.Go(func() (any, error) {
			return fn(this, args...)
		}), nil
	}
}
