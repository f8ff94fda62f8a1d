// Package host models the addressable object graph of a host application:
// objects with own properties, prototype links, and callables that carry
// their own source text.
package host

import (
	"errors"
	"fmt"
)

// ErrNotCallable is returned when invoking something that is not a function.
var ErrNotCallable = errors.New("not callable")

// Func is the calling convention shared by every callable in the graph.
// this is the receiver the call was made on.
type Func func(this any, args ...any) (any, error)

// Next invokes the next inward link of an interposition chain with the
// receiver of the current call.
type Next func(args ...any) (any, error)

// Behavior is a callable installed into an interposition chain. next is nil
// for behaviors that replace the chain instead of wrapping it.
type Behavior func(this any, next Next, args ...any) (any, error)

// Function is a named callable. Source holds its textual representation and
// is empty for native functions.
type Function struct {
	Name   string
	Source string
	Async  bool
	Fn     Func
}

// NewFunction wraps a native Go implementation.
func NewFunction(name string, fn Func) *Function {
	return &Function{Name: name, Fn: fn}
}

// Call invokes the function bound to this.
func (f *Function) Call(this any, args ...any) (any, error) {
	if f == nil || f.Fn == nil {
		return nil, ErrNotCallable
	}

	return f.Fn(this, args...)
}

// String returns the source text, or a placeholder for native functions.
func (f *Function) String() string {
	if f == nil {
		return "<nil>"
	}

	if f.Source != "" {
		return f.Source
	}

	return fmt.Sprintf("func %s() { [native code] }", f.Name)
}

// Continue calls a continuation received as an untyped argument. Scripts use
// it to forward to the next link of a chain.
func Continue(next any, args ...any) (any, error) {
	fn, ok := next.(Next)
	if !ok || fn == nil {
		return nil, fmt.Errorf("continue: %w: %T", ErrNotCallable, next)
	}

	return fn(args...)
}
