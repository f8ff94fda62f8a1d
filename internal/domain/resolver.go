// Package domain contains the interposition engine: target resolution,
// anchored source patching, and the wrapper-chain registry.
package domain

import (
	"fmt"

	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

// ResolvedTarget is the result of resolving a TargetPath. Owner is the object
// reached by the path; DefinedOn is where the descriptor was found, which is
// Owner or one of its prototypes.
type ResolvedTarget struct {
	Path       m.TargetPath
	Owner      *host.Object
	Member     string
	DefinedOn  *host.Object
	Descriptor host.Descriptor
	IsSetter   bool
}

// Resolver maps TargetPath strings to members of a namespace. It holds no
// state beyond the namespace it reads.
type Resolver struct {
	ns *host.Namespace
}

// NewResolver constructs a Resolver over ns.
func NewResolver(ns *host.Namespace) *Resolver {
	return &Resolver{ns: ns}
}

// Namespace returns the namespace the resolver reads.
func (r *Resolver) Namespace() *host.Namespace {
	return r.ns
}

// Locate walks every segment but the last and returns the object reached and
// the member name. The member itself need not exist.
func (r *Resolver) Locate(target string) (m.TargetPath, *host.Object, error) {
	path, err := ParseTargetPath(target)
	if err != nil {
		return m.TargetPath{}, nil, err
	}

	if len(path.Segments) == 1 {
		return path, r.ns.Global(), nil
	}

	rootName := path.Root()

	root, ok := r.ns.Lookup(rootName)
	if !ok {
		return path, nil, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s is not defined", rootName)}
	}

	obj, ok := root.(*host.Object)
	if !ok || obj == nil {
		return path, nil, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s is not an object", rootName)}
	}

	for _, seg := range path.Segments[1 : len(path.Segments)-1] {
		v, err := obj.Get(seg)
		if err != nil {
			return path, nil, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("reading %s: %v", seg, err)}
		}

		next, ok := v.(*host.Object)
		if !ok || next == nil {
			return path, nil, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s.%s is not an object", obj.Name(), seg)}
		}

		obj = next
	}

	return path, obj, nil
}

// Resolve locates the member and finds its nearest descriptor along the
// lookup chain. Missing and non-configurable members fail with
// ErrTargetNotFound before anything is mutated.
func (r *Resolver) Resolve(target string) (ResolvedTarget, error) {
	path, owner, err := r.Locate(target)
	if err != nil {
		return ResolvedTarget{}, err
	}

	member := path.Member()

	desc, definedOn, ok := owner.Lookup(member)
	if !ok {
		return ResolvedTarget{}, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s has no member %s", owner.Name(), member)}
	}

	if !desc.Configurable {
		return ResolvedTarget{}, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s.%s is not configurable", definedOn.Name(), member)}
	}

	if path.Setter && desc.Set == nil {
		return ResolvedTarget{}, &TargetNotFoundError{Target: target, Reason: fmt.Sprintf("%s.%s does not have a setter", definedOn.Name(), member)}
	}

	return ResolvedTarget{
		Path:       path,
		Owner:      owner,
		Member:     member,
		DefinedOn:  definedOn,
		Descriptor: desc,
		IsSetter:   path.Setter,
	}, nil
}

// Callable returns the half of the descriptor the target addresses: the
// setter for setter paths, otherwise the function value or the getter.
func (t ResolvedTarget) Callable() (*host.Function, error) {
	switch {
	case t.IsSetter:
		return t.Descriptor.Set, nil
	case t.Descriptor.IsAccessor():
		if t.Descriptor.Get == nil {
			return nil, &TargetNotFoundError{Target: t.Path.String(), Reason: "accessor has no getter"}
		}

		return t.Descriptor.Get, nil
	default:
		fn, ok := t.Descriptor.Callable()
		if !ok {
			return nil, &TargetNotFoundError{Target: t.Path.String(), Reason: fmt.Sprintf("value is %T, not a function", t.Descriptor.Value)}
		}

		return fn, nil
	}
}
