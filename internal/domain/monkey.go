package domain

import (
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

// Monkey is the add-on facing helper: every change it makes goes through
// the registry under one owner identifier.
type Monkey struct {
	owner    string
	registry Registry
	resolver *Resolver
	patcher  *Patcher
}

// NewMonkey constructs a Monkey acting for owner.
func NewMonkey(owner string, registry Registry, resolver *Resolver, patcher *Patcher) *Monkey {
	return &Monkey{
		owner:    owner,
		registry: registry,
		resolver: resolver,
		patcher:  patcher,
	}
}

// Owner returns the owner identifier used for registrations.
func (mk *Monkey) Owner() string {
	return mk.owner
}

// Patch applies anchored edits to the target's own code and installs the
// result as an override.
func (mk *Monkey) Patch(target string, patches []m.AnchorPatch, opts ...RegisterOption) (Handle, error) {
	patched, err := mk.PatchTarget(target, patches)
	if err != nil {
		return Handle{}, err
	}

	return mk.registry.Register(mk.owner, target, Override(patched), m.ModeOverride, opts...)
}

// PatchTarget returns the patched version of the target without installing
// it. Anchors are checked against the innermost original when the target is
// already chained.
func (mk *Monkey) PatchTarget(target string, patches []m.AnchorPatch) (*host.Function, error) {
	fn, err := mk.Current(target)
	if err != nil {
		return nil, err
	}

	return mk.patcher.Patch(fn, patches)
}

// PatchFunction patches a standalone function.
func (mk *Monkey) PatchFunction(fn *host.Function, patches []m.AnchorPatch) (*host.Function, error) {
	return mk.patcher.Patch(fn, patches)
}

// Replace overrides the target with fn.
func (mk *Monkey) Replace(target string, fn *host.Function, opts ...RegisterOption) (Handle, error) {
	return mk.registry.Register(mk.owner, target, Override(fn), m.ModeOverride, opts...)
}

// Wrap registers behavior as a WRAPPER around the target.
func (mk *Monkey) Wrap(target string, behavior host.Behavior, opts ...RegisterOption) (Handle, error) {
	return mk.registry.Register(mk.owner, target, behavior, m.ModeWrapper, opts...)
}

// Register forwards to the registry under the monkey's owner.
func (mk *Monkey) Register(target string, behavior host.Behavior, mode m.Mode, opts ...RegisterOption) (Handle, error) {
	return mk.registry.Register(mk.owner, target, behavior, mode, opts...)
}

// Define installs fn as a new configurable member at path. An own member
// already at path is refused, chained or not; inherited members may be
// shadowed.
func (mk *Monkey) Define(path string, fn *host.Function) error {
	p, owner, err := mk.CheckDefine(path)
	if err != nil {
		return err
	}

	return owner.DefineProperty(p.Member(), host.Descriptor{Value: fn, Configurable: true})
}

// CheckDefine reports whether Define(path) would succeed and returns the
// object the member would be defined on.
func (mk *Monkey) CheckDefine(path string) (m.TargetPath, *host.Object, error) {
	p, owner, err := mk.resolver.Locate(path)
	if err != nil {
		return m.TargetPath{}, nil, err
	}

	if p.Setter {
		return m.TargetPath{}, nil, &TargetNotFoundError{Target: path, Reason: "cannot define a setter path"}
	}

	if inspector, ok := mk.registry.(ChainInspector); ok {
		if _, chained := inspector.Original(path); chained {
			return m.TargetPath{}, nil, &TargetNotFoundError{Target: path, Reason: "member is chained by the registry"}
		}
	}

	if d, exists := owner.OwnProperty(p.Member()); exists {
		reason := "member already exists"
		if !d.Configurable {
			reason = "existing member is not configurable"
		}

		return m.TargetPath{}, nil, &TargetNotFoundError{Target: path, Reason: reason}
	}

	return p, owner, nil
}

// Current returns the innermost behavior of target: the chain's original
// when chained, otherwise the member's current callable.
func (mk *Monkey) Current(target string) (*host.Function, error) {
	if inspector, ok := mk.registry.(ChainInspector); ok {
		if fn, ok := inspector.Original(target); ok {
			return fn, nil
		}
	}

	resolved, err := mk.resolver.Resolve(target)
	if err != nil {
		return nil, err
	}

	return resolved.Callable()
}

// Override adapts fn to a behavior that never continues.
func Override(fn *host.Function) host.Behavior {
	return func(this any, _ host.Next, args ...any) (any, error) {
		return fn.Call(this, args...)
	}
}

// Wrapper adapts fn to a behavior that receives the continuation as its
// first argument.
func Wrapper(fn *host.Function) host.Behavior {
	return func(this any, next host.Next, args ...any) (any, error) {
		callArgs := make([]any, 0, len(args)+1)
		callArgs = append(callArgs, next)
		callArgs = append(callArgs, args...)

		return fn.Call(this, callArgs...)
	}
}
