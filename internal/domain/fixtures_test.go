package domain

import (
	"sync"
	"testing"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	"github.com/stretchr/testify/require"
)

// callLog records call order across behaviors.
type callLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, s)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.entries...)
}

// fooFixture is a namespace with a global Foo whose bar member returns
// "original" and records into the log.
type fooFixture struct {
	ns  *host.Namespace
	foo *host.Object
	bar *host.Function
	log *callLog
}

func newFooFixture(t *testing.T) *fooFixture {
	t.Helper()

	f := &fooFixture{ns: host.NewNamespace(), log: &callLog{}}
	f.foo = host.NewObject("Foo", nil)
	f.bar = host.NewFunction("bar", func(this any, args ...any) (any, error) {
		f.log.add("original")

		return "original", nil
	})

	require.NoError(t, host.DefineMethod(f.foo, f.bar))
	require.NoError(t, f.ns.Bind("Foo", f.foo))

	return f
}

func (f *fooFixture) registry() *ShimRegistry {
	return NewShimRegistry(NewResolver(f.ns))
}

// logging returns a WRAPPER behavior that logs name and continues.
func logging(log *callLog, name string) host.Behavior {
	return func(this any, next host.Next, args ...any) (any, error) {
		log.add(name)

		return next(args...)
	}
}

var (
	sharedCompiler     *adapter.YaegiCompiler
	sharedCompilerOnce sync.Once
)

func yaegi() *adapter.YaegiCompiler {
	sharedCompilerOnce.Do(func() { sharedCompiler = adapter.NewYaegiCompiler() })

	return sharedCompiler
}

func compile(t *testing.T, name, text string) *host.Function {
	t.Helper()

	fn, err := yaegi().Compile(name, text)
	require.NoError(t, err)

	return fn
}
