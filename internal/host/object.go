package host

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNonConfigurable is returned when redefining a non-configurable property.
var ErrNonConfigurable = errors.New("property is not configurable")

// Descriptor is the current definition of a property: either a data value
// or an accessor pair.
type Descriptor struct {
	Value        any
	Get          *Function
	Set          *Function
	Configurable bool
}

// IsAccessor reports whether the descriptor defines a getter or setter.
func (d Descriptor) IsAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// Callable returns the data value when it is a function.
func (d Descriptor) Callable() (*Function, bool) {
	fn, ok := d.Value.(*Function)

	return fn, ok && fn != nil
}

// Object is a node of the host graph. Property lookups that miss on the
// object continue along its prototype chain.
type Object struct {
	name  string
	proto *Object

	mu    sync.RWMutex
	props map[string]Descriptor
	order []string
}

// NewObject creates an empty object whose prototype is proto (may be nil).
func NewObject(name string, proto *Object) *Object {
	return &Object{
		name:  name,
		proto: proto,
		props: make(map[string]Descriptor),
	}
}

// Name returns the diagnostic name of the object.
func (o *Object) Name() string {
	return o.name
}

// Prototype returns the next object of the lookup chain.
func (o *Object) Prototype() *Object {
	return o.proto
}

// OwnProperty returns the descriptor defined directly on the object.
func (o *Object) OwnProperty(name string) (Descriptor, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	d, ok := o.props[name]

	return d, ok
}

// Keys returns own property names in definition order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]string, len(o.order))
	copy(out, o.order)

	return out
}

// DefineProperty creates or replaces an own property. Replacing a
// non-configurable property fails.
func (o *Object) DefineProperty(name string, d Descriptor) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.props[name]; ok {
		if !existing.Configurable {
			return fmt.Errorf("define %s.%s: %w", o.name, name, ErrNonConfigurable)
		}
	} else {
		o.order = append(o.order, name)
	}

	o.props[name] = d

	return nil
}

// Lookup walks the prototype chain and returns the first descriptor found
// together with the object that owns it.
func (o *Object) Lookup(name string) (Descriptor, *Object, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		if d, ok := cur.OwnProperty(name); ok {
			return d, cur, true
		}
	}

	return Descriptor{}, nil, false
}

// Get reads a property through the lookup chain. Getters run with o as the
// receiver. A missing property yields nil.
func (o *Object) Get(name string) (any, error) {
	d, _, ok := o.Lookup(name)
	if !ok {
		return nil, nil
	}

	if d.IsAccessor() {
		if d.Get == nil {
			return nil, nil
		}

		return d.Get.Call(o)
	}

	return d.Value, nil
}

// Put writes a property. Setters found on the chain run with o as the
// receiver; otherwise an own data property is created or updated.
func (o *Object) Put(name string, value any) error {
	if d, _, ok := o.Lookup(name); ok && d.IsAccessor() {
		if d.Set == nil {
			return fmt.Errorf("set %s.%s: no setter", o.name, name)
		}

		_, err := d.Set.Call(o, value)

		return err
	}

	if own, ok := o.OwnProperty(name); ok {
		own.Value = value
		o.mu.Lock()
		o.props[name] = own
		o.mu.Unlock()

		return nil
	}

	return o.DefineProperty(name, Descriptor{Value: value, Configurable: true})
}

// Invoke calls the method name with o as the receiver.
func (o *Object) Invoke(name string, args ...any) (any, error) {
	v, err := o.Get(name)
	if err != nil {
		return nil, err
	}

	fn, ok := v.(*Function)
	if !ok || fn == nil {
		return nil, fmt.Errorf("%s.%s: %w", o.name, name, ErrNotCallable)
	}

	return fn.Call(o, args...)
}

// Invoke calls a method on an untyped receiver. Scripts use it because they
// receive this as any.
func Invoke(this any, name string, args ...any) (any, error) {
	obj, ok := this.(*Object)
	if !ok || obj == nil {
		return nil, fmt.Errorf("invoke %s on %T: %w", name, this, ErrNotCallable)
	}

	return obj.Invoke(name, args...)
}

// Get reads a property from an untyped receiver.
func Get(this any, name string) (any, error) {
	obj, ok := this.(*Object)
	if !ok || obj == nil {
		return nil, fmt.Errorf("get %s on %T: not an object", name, this)
	}

	return obj.Get(name)
}
