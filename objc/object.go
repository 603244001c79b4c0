package objc

import (
	"tangerine/mem"
)

// ---------------------------------------------------------------------------
// ID: guest object references
// ---------------------------------------------------------------------------

// ID is a guest reference to an Objective-C object: the address of the
// object's isa word.
type ID mem.Ptr

// Class is a guest reference to a class or metaclass. Classes are
// objects; the distinct name just keeps signatures readable.
type Class = ID

// Nil is the guest nil reference.
const Nil ID = 0

// IsNil returns true for the guest nil reference.
func (r ID) IsNil() bool { return r == Nil }

// String formats the reference as a guest address.
func (r ID) String() string { return mem.Ptr(r).String() }

// ---------------------------------------------------------------------------
// HostObject: host-side payloads of guest objects
// ---------------------------------------------------------------------------

// HostObject is the host-side payload of a permanent guest object. The
// guest sees only the isa word; everything else about the object lives
// on the host side.
type HostObject interface {
	isHostObject()
}

// ---------------------------------------------------------------------------
// Object bank
// ---------------------------------------------------------------------------

// ReadIsa reads an object's isa reference from guest memory.
func (o *ObjC) ReadIsa(ref ID, m *mem.Mem) Class {
	return Class(m.ReadPtr(mem.Ptr(ref)))
}

// WriteIsa overwrites an object's isa reference in guest memory.
func (o *ObjC) WriteIsa(ref, isa ID, m *mem.Mem) {
	m.WritePtr(mem.Ptr(ref), mem.Ptr(isa))
}

// AllocStaticObject creates a permanent guest object: a freshly
// allocated isa word in static guest memory bound to the given host
// payload. Static objects are never deallocated.
func (o *ObjC) AllocStaticObject(isa Class, host HostObject, m *mem.Mem) ID {
	ref := ID(m.AllocStatic(mem.PtrSize))
	o.WriteIsa(ref, isa, m)
	o.objects[ref] = host
	return ref
}

// RegisterStaticObject binds a host payload to an object that already
// exists in guest memory (a class baked into the app binary). No guest
// storage is allocated; any previous payload for the address is
// replaced.
func (o *ObjC) RegisterStaticObject(ref ID, host HostObject) {
	o.objects[ref] = host
}

// HostObjectFor returns the host payload bound to a guest reference, or
// nil if the reference is not a registered permanent object.
func (o *ObjC) HostObjectFor(ref ID) HostObject {
	return o.objects[ref]
}
