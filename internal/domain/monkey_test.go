package domain

import (
	"testing"

	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGreeterMonkey(t *testing.T, owner string) (*Monkey, *ShimRegistry, *host.Object) {
	t.Helper()

	ns := host.NewNamespace()
	greeter := host.NewObject("Greeter", nil)
	require.NoError(t, host.DefineMethod(greeter, compile(t, "greet", greetSource)))
	require.NoError(t, ns.Bind("Greeter", greeter))

	resolver := NewResolver(ns)
	registry := NewShimRegistry(resolver)

	return NewMonkey(owner, registry, resolver, NewPatcher(yaegi(), nil)), registry, greeter
}

var goodbyeAnchor = []m.AnchorPatch{
	{Line: 2, Expected: `return "hello " + name, nil`, Replacement: `return "goodbye " + name, nil`},
}

func TestMonkey_Patch(t *testing.T) {
	monkey, registry, greeter := newGreeterMonkey(t, "farewell")
	assert.Equal(t, "farewell", monkey.Owner())

	handle, err := monkey.Patch("Greeter.greet", goodbyeAnchor)
	require.NoError(t, err)
	assert.Equal(t, m.ModeOverride, handle.Mode)
	assert.Equal(t, "farewell", handle.Owner)

	got, err := greeter.Invoke("greet", "ann")
	require.NoError(t, err)
	assert.Equal(t, "goodbye ann", got)

	original, ok := registry.Original("Greeter.greet")
	require.True(t, ok)
	assert.Equal(t, greetSource, original.Source)
}

func TestMonkey_PatchMismatchRegistersNothing(t *testing.T) {
	monkey, registry, greeter := newGreeterMonkey(t, "farewell")

	_, err := monkey.Patch("Greeter.greet", []m.AnchorPatch{{Line: 2, Expected: "return nil, nil", Replacement: "x"}})
	require.ErrorIs(t, err, ErrPatchMismatch)
	assert.Empty(t, registry.Chains())

	got, err := greeter.Invoke("greet", "ann")
	require.NoError(t, err)
	assert.Equal(t, "hello ann", got)
}

func TestMonkey_CurrentReturnsOriginalWhenChained(t *testing.T) {
	monkey, _, greeter := newGreeterMonkey(t, "shout")

	_, err := monkey.Wrap("Greeter.greet", func(this any, next host.Next, args ...any) (any, error) {
		v, err := next(args...)
		if err != nil {
			return nil, err
		}

		return v.(string) + "!", nil
	})
	require.NoError(t, err)

	current, err := monkey.Current("Greeter.greet")
	require.NoError(t, err)
	assert.Equal(t, greetSource, current.Source)

	patched, err := monkey.PatchTarget("Greeter.greet", goodbyeAnchor)
	require.NoError(t, err)

	_, err = monkey.Replace("Greeter.greet", patched)
	require.NoError(t, err)

	got, err := greeter.Invoke("greet", "ann")
	require.NoError(t, err)
	assert.Equal(t, "goodbye ann", got)
}

func TestMonkey_WrapperAdapterPassesContinuationFirst(t *testing.T) {
	monkey, _, greeter := newGreeterMonkey(t, "shout")

	wrapper := compile(t, "greet", `func(this any, args ...any) (any, error) {
	v, err := host.Continue(args[0], args[2])
	if err != nil {
		return nil, err
	}
	return args[1].(string) + v.(string), nil
}`)

	_, err := monkey.Register("Greeter.greet", Wrapper(wrapper), m.ModeMixed, WithBoundArgs(">> "))
	require.NoError(t, err)

	got, err := greeter.Invoke("greet", "ann")
	require.NoError(t, err)
	assert.Equal(t, ">> hello ann", got)
}

func TestMonkey_PatchFunction(t *testing.T) {
	monkey, _, _ := newGreeterMonkey(t, "farewell")

	fn := compile(t, "greet", greetSource)

	patched, err := monkey.PatchFunction(fn, goodbyeAnchor)
	require.NoError(t, err)

	got, err := patched.Call(nil, "ann")
	require.NoError(t, err)
	assert.Equal(t, "goodbye ann", got)
}

func TestMonkey_Define(t *testing.T) {
	monkey, registry, greeter := newGreeterMonkey(t, "extras")

	wave := host.NewFunction("wave", func(any, ...any) (any, error) { return "wave", nil })
	require.NoError(t, monkey.Define("Greeter.wave", wave))

	got, err := greeter.Invoke("wave")
	require.NoError(t, err)
	assert.Equal(t, "wave", got)

	_, err = registry.Register("other", "Greeter.wave", logging(&callLog{}, "other"), m.ModeWrapper)
	require.NoError(t, err)

	require.ErrorIs(t, monkey.Define("Greeter.wave#set", wave), ErrTargetNotFound)
	require.ErrorIs(t, monkey.Define("Missing.wave", wave), ErrTargetNotFound)
}

func TestMonkey_DefineRefusesChainedMember(t *testing.T) {
	f := newFooFixture(t)
	registry := f.registry()
	monkey := NewMonkey("extras", registry, NewResolver(f.ns), NewPatcher(yaegi(), nil))

	_, err := registry.Register("A", "Foo.bar", logging(f.log, "A"), m.ModeWrapper)
	require.NoError(t, err)

	defined := host.NewFunction("bar", func(any, ...any) (any, error) {
		f.log.add("defined")

		return "defined", nil
	})

	err = monkey.Define("Foo.bar", defined)
	require.ErrorIs(t, err, ErrTargetNotFound)
	assert.Contains(t, err.Error(), "chained by the registry")

	_, err = registry.Register("B", "Foo.bar", logging(f.log, "B"), m.ModeWrapper)
	require.NoError(t, err)

	got, err := f.foo.Invoke("bar")
	require.NoError(t, err)
	assert.Equal(t, "original", got)
	assert.Equal(t, []string{"B", "A", "original"}, f.log.list())
}

func TestMonkey_DefineRefusesExistingMember(t *testing.T) {
	monkey, _, greeter := newGreeterMonkey(t, "extras")

	require.NoError(t, greeter.DefineProperty("locked", host.Descriptor{Value: "locked"}))

	wave := host.NewFunction("wave", func(any, ...any) (any, error) { return "wave", nil })

	err := monkey.Define("Greeter.greet", wave)
	require.ErrorIs(t, err, ErrTargetNotFound)
	assert.Contains(t, err.Error(), "member already exists")

	err = monkey.Define("Greeter.locked", wave)
	require.ErrorIs(t, err, ErrTargetNotFound)
	assert.Contains(t, err.Error(), "not configurable")

	got, err := greeter.Invoke("greet", "ann")
	require.NoError(t, err)
	assert.Equal(t, "hello ann", got)
}
