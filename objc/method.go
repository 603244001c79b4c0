package objc

import (
	"tangerine/mem"
)

// ---------------------------------------------------------------------------
// IMP: method implementations
// ---------------------------------------------------------------------------

// IMP is an implementation bound to a selector in a class's method
// table. It is either a GuestIMP (code inside the app binary) or one of
// the host method wrappers below.
type IMP interface {
	isIMP()
}

// GuestIMP is the guest address of a method implementation compiled
// into the app binary. Invoking it is the dispatcher's job, not ours.
type GuestIMP mem.Ptr

func (GuestIMP) isIMP() {}

// HostIMP is a method implemented natively by a host framework.
type HostIMP interface {
	IMP

	// Invoke calls the host implementation. Arguments and the return
	// value are raw guest register words.
	Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32

	// Name returns the selector name the implementation was declared
	// under.
	Name() string

	// Arity returns the declared argument count, or -1 for variadic
	// primitives.
	Arity() int
}

// ---------------------------------------------------------------------------
// Arity-specialized host method wrappers
// ---------------------------------------------------------------------------

// HostFunc0 is a host implementation taking no arguments beyond the
// receiver and selector.
type HostFunc0 func(env *Env, this ID, cmd SEL) uint32

// HostFunc1 is a host implementation taking one argument.
type HostFunc1 func(env *Env, this ID, cmd SEL, a1 uint32) uint32

// HostFunc2 is a host implementation taking two arguments.
type HostFunc2 func(env *Env, this ID, cmd SEL, a1, a2 uint32) uint32

// HostFunc3 is a host implementation taking three arguments.
type HostFunc3 func(env *Env, this ID, cmd SEL, a1, a2, a3 uint32) uint32

// HostPrimitiveFunc is a variable-arity host implementation.
type HostPrimitiveFunc func(env *Env, this ID, cmd SEL, args []uint32) uint32

// HostMethod0 wraps a zero-argument host implementation.
type HostMethod0 struct {
	name string
	fn   HostFunc0
}

func (*HostMethod0) isIMP() {}

func (h *HostMethod0) Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32 {
	return h.fn(env, this, cmd)
}

func (h *HostMethod0) Name() string { return h.name }
func (h *HostMethod0) Arity() int   { return 0 }

// HostMethod1 wraps a one-argument host implementation.
type HostMethod1 struct {
	name string
	fn   HostFunc1
}

func (*HostMethod1) isIMP() {}

func (h *HostMethod1) Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32 {
	return h.fn(env, this, cmd, args[0])
}

func (h *HostMethod1) Name() string { return h.name }
func (h *HostMethod1) Arity() int   { return 1 }

// HostMethod2 wraps a two-argument host implementation.
type HostMethod2 struct {
	name string
	fn   HostFunc2
}

func (*HostMethod2) isIMP() {}

func (h *HostMethod2) Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32 {
	return h.fn(env, this, cmd, args[0], args[1])
}

func (h *HostMethod2) Name() string { return h.name }
func (h *HostMethod2) Arity() int   { return 2 }

// HostMethod3 wraps a three-argument host implementation.
type HostMethod3 struct {
	name string
	fn   HostFunc3
}

func (*HostMethod3) isIMP() {}

func (h *HostMethod3) Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32 {
	return h.fn(env, this, cmd, args[0], args[1], args[2])
}

func (h *HostMethod3) Name() string { return h.name }
func (h *HostMethod3) Arity() int   { return 3 }

// HostPrimitive wraps a variable-arity host implementation.
type HostPrimitive struct {
	name string
	fn   HostPrimitiveFunc
}

func (*HostPrimitive) isIMP() {}

func (h *HostPrimitive) Invoke(env *Env, this ID, cmd SEL, args []uint32) uint32 {
	return h.fn(env, this, cmd, args)
}

func (h *HostPrimitive) Name() string { return h.name }
func (h *HostPrimitive) Arity() int   { return -1 }

// NewHostMethod0 wraps a zero-argument implementation as a HostIMP.
func NewHostMethod0(name string, fn HostFunc0) HostIMP {
	return &HostMethod0{name: name, fn: fn}
}

// NewHostMethod1 wraps a one-argument implementation as a HostIMP.
func NewHostMethod1(name string, fn HostFunc1) HostIMP {
	return &HostMethod1{name: name, fn: fn}
}

// NewHostMethod2 wraps a two-argument implementation as a HostIMP.
func NewHostMethod2(name string, fn HostFunc2) HostIMP {
	return &HostMethod2{name: name, fn: fn}
}

// NewHostMethod3 wraps a three-argument implementation as a HostIMP.
func NewHostMethod3(name string, fn HostFunc3) HostIMP {
	return &HostMethod3{name: name, fn: fn}
}

// NewHostPrimitive wraps a variable-arity implementation as a HostIMP.
func NewHostPrimitive(name string, fn HostPrimitiveFunc) HostIMP {
	return &HostPrimitive{name: name, fn: fn}
}

// ---------------------------------------------------------------------------
// Binary method lists
// ---------------------------------------------------------------------------

// method_t in the app binary: name pointer, type-encoding pointer,
// implementation address. 12 bytes, packed.
const methodTSize = 12

// method_list_t header: entsize_and_flags u32, count u32.
const methodListHeaderSize = 8

// MethodEntry is one decoded (selector, implementation) pair.
type MethodEntry struct {
	Sel SEL
	IMP IMP
}

// decodeMethodList reads a method_list_t from guest memory and resolves
// every entry's name through the selector table. Names the host has
// never seen are registered on demand: app binaries routinely introduce
// their own selectors.
func decodeMethodList(list mem.Ptr, m *mem.Mem, selectors *SelectorTable) []MethodEntry {
	// The low two bits of entsize are flags in the real runtime.
	entsize := m.ReadU32(list) &^ 3
	count := m.ReadU32(list + 4)

	entries := make([]MethodEntry, 0, count)
	at := list + methodListHeaderSize
	for i := uint32(0); i < count; i++ {
		namePtr := m.ReadPtr(at)
		imp := m.ReadPtr(at + 8)

		name := m.CString(namePtr)
		sel := selectors.Register(name, m)
		entries = append(entries, MethodEntry{Sel: sel, IMP: GuestIMP(imp)})

		at += mem.Ptr(entsize)
	}
	return entries
}
