package sandbox

import (
	"fmt"
	"slices"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

const (
	prototypeKey   = "prototype"
	constructorKey = "constructor"
	catalogDepth   = 2
)

// Targets lists the members reachable from the global bindings down to
// class prototypes, sorted by path.
func (h *Host) Targets() []m.TargetInfo {
	var infos []m.TargetInfo

	seen := make(map[*host.Object]struct{})

	for _, name := range h.ns.Global().Keys() {
		v, err := h.ns.Global().Get(name)
		if err != nil {
			continue
		}

		if obj, ok := v.(*host.Object); ok {
			infos = collect(infos, []string{name}, obj, catalogDepth, seen)
		}
	}

	slices.SortFunc(infos, func(a, b m.TargetInfo) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		default:
			return 0
		}
	})

	return infos
}

func collect(infos []m.TargetInfo, prefix []string, obj *host.Object, depth int, seen map[*host.Object]struct{}) []m.TargetInfo {
	if _, ok := seen[obj]; ok {
		return infos
	}

	seen[obj] = struct{}{}

	for _, key := range obj.Keys() {
		if key == constructorKey {
			continue
		}

		d, _ := obj.OwnProperty(key)
		segments := append(slices.Clone(prefix), key)

		if child, ok := d.Value.(*host.Object); ok {
			if key == prototypeKey && depth > 0 {
				infos = collect(infos, segments, child, depth-1, seen)
			}

			continue
		}

		infos = append(infos, describe(m.TargetPath{Segments: segments}.String(), d))
	}

	return infos
}

func describe(path string, d host.Descriptor) m.TargetInfo {
	info := m.TargetInfo{Path: path, Kind: m.KindValue, Configurable: d.Configurable}

	var fn *host.Function

	switch {
	case d.IsAccessor():
		info.Kind = m.KindAccessor
		fn = d.Get
	default:
		if f, ok := d.Value.(*host.Function); ok {
			info.Kind = m.KindMethod
			fn = f
		}
	}

	if fn != nil {
		info.Async = fn.Async
		info.Native = fn.Source == ""
		info.Fingerprint = adapter.Fingerprint(fn.Source)
	}

	return info
}

// Invoke calls member on owner with a sample markup argument. Members of a
// class prototype are called on a fresh instance. Pending results are
// awaited.
func (h *Host) Invoke(owner *host.Object, member string) (any, error) {
	this := owner
	if ctor, ok := owner.OwnProperty(constructorKey); ok {
		class, isObj := ctor.Value.(*host.Object)
		if !isObj {
			return nil, fmt.Errorf("invoke %s: constructor is %T", member, ctor.Value)
		}

		instance, err := host.Instantiate(class)
		if err != nil {
			return nil, err
		}

		this = instance
	}

	result, err := this.Invoke(member, SampleHTML)
	if err != nil {
		return nil, err
	}

	if pending, ok := result.(*host.Pending); ok {
		return pending.Await()
	}

	return result, nil
}

// SampleHTML is the markup argument passed by Invoke.
const SampleHTML = `<ol class="directory-list"></ol>`
