package host

import "fmt"

const (
	prototypeKey   = "prototype"
	constructorKey = "constructor"
)

// NewClass creates a constructor object with a prototype object. Statics
// inherit from super and the prototype inherits from super's prototype.
func NewClass(name string, super *Object) *Object {
	var superProto *Object

	if super != nil {
		superProto, _ = PrototypeOf(super)
	}

	proto := NewObject(name+".prototype", superProto)
	class := NewObject(name, super)

	// Class prototypes cannot be redefined, mirroring the host runtime.
	class.props[prototypeKey] = Descriptor{Value: proto}
	class.order = append(class.order, prototypeKey)
	proto.props[constructorKey] = Descriptor{Value: class, Configurable: true}
	proto.order = append(proto.order, constructorKey)

	return class
}

// PrototypeOf returns the prototype object of a class.
func PrototypeOf(class *Object) (*Object, bool) {
	d, ok := class.OwnProperty(prototypeKey)
	if !ok {
		return nil, false
	}

	proto, ok := d.Value.(*Object)

	return proto, ok
}

// Instantiate creates an instance whose lookup chain starts at the class
// prototype.
func Instantiate(class *Object) (*Object, error) {
	proto, ok := PrototypeOf(class)
	if !ok {
		return nil, fmt.Errorf("instantiate %s: not a class", class.Name())
	}

	return NewObject(class.Name(), proto), nil
}

// DefineMethod installs fn as a configurable data property named fn.Name.
func DefineMethod(obj *Object, fn *Function) error {
	return obj.DefineProperty(fn.Name, Descriptor{Value: fn, Configurable: true})
}

// DefineAccessor installs a configurable getter/setter pair.
func DefineAccessor(obj *Object, name string, get, set *Function) error {
	return obj.DefineProperty(name, Descriptor{Get: get, Set: set, Configurable: true})
}
