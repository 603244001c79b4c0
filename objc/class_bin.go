package objc

import (
	"errors"
	"fmt"

	"tangerine/mem"
)

// ---------------------------------------------------------------------------
// Binary layouts
// ---------------------------------------------------------------------------

// The structure layouts below are part of the emulated ABI and must
// stay bit-exact: field order and width match what the iPhone OS
// toolchain emits, with no implicit padding.

// class_t: isa, superclass, cache, vtable, data pointer. 20 bytes.
type classT struct {
	isa        Class
	superclass Class
	cache      mem.Ptr // unused by this runtime
	vtable     mem.Ptr // unused by this runtime
	data       mem.Ptr // -> classRWT
}

func readClassT(m *mem.Mem, at mem.Ptr) classT {
	return classT{
		isa:        Class(m.ReadPtr(at)),
		superclass: Class(m.ReadPtr(at + 4)),
		cache:      m.ReadPtr(at + 8),
		vtable:     m.ReadPtr(at + 12),
		data:       m.ReadPtr(at + 16),
	}
}

// classRWT: the main class data record. 40 bytes.
//
// The protocol list, ivar list and property list pointers are carried
// for layout compatibility but not interpreted.
type classRWT struct {
	flags          uint32
	instanceStart  uint32
	instanceSize   uint32
	reserved       uint32
	name           mem.Ptr // -> cstring
	baseMethods    mem.Ptr // -> method_list_t, may be null
	baseProtocols  mem.Ptr
	ivars          mem.Ptr
	weakIvarLayout uint32
	baseProperties mem.Ptr
}

func readClassRWT(m *mem.Mem, at mem.Ptr) classRWT {
	return classRWT{
		flags:          m.ReadU32(at),
		instanceStart:  m.ReadU32(at + 4),
		instanceSize:   m.ReadU32(at + 8),
		reserved:       m.ReadU32(at + 12),
		name:           m.ReadPtr(at + 16),
		baseMethods:    m.ReadPtr(at + 20),
		baseProtocols:  m.ReadPtr(at + 24),
		ivars:          m.ReadPtr(at + 28),
		weakIvarLayout: m.ReadU32(at + 32),
		baseProperties: m.ReadPtr(at + 36),
	}
}

// category_t: a bundle of methods declared against another class.
// 24 bytes.
type categoryT struct {
	name            mem.Ptr // -> cstring
	class           Class
	instanceMethods mem.Ptr // -> method_list_t, may be null
	classMethods    mem.Ptr // -> method_list_t, may be null
	protocols       mem.Ptr // unused by this runtime
	properties      mem.Ptr // unused by this runtime
}

func readCategoryT(m *mem.Mem, at mem.Ptr) categoryT {
	return categoryT{
		name:            m.ReadPtr(at),
		class:           Class(m.ReadPtr(at + 4)),
		instanceMethods: m.ReadPtr(at + 8),
		classMethods:    m.ReadPtr(at + 12),
		protocols:       m.ReadPtr(at + 16),
		properties:      m.ReadPtr(at + 20),
	}
}

// ---------------------------------------------------------------------------
// Section contracts
// ---------------------------------------------------------------------------

// Binary is the view of a loaded executable that ingestion needs: the
// ability to locate its Objective-C list sections.
type Binary interface {
	// Section returns the guest address and byte size of a section, or
	// ok=false if the binary has no such section.
	Section(segment, section string) (addr mem.Ptr, size uint32, ok bool)
}

const (
	dataSegment         = "__DATA"
	classListSection    = "__objc_classlist"
	categoryListSection = "__objc_catlist"
)

// Corrupt-binary errors. These abort the load of the offending binary:
// continuing past any of them would leave the registry inconsistent.
var (
	ErrMisalignedClassList    = errors.New("objc: class list size is not a multiple of 4")
	ErrMisalignedCategoryList = errors.New("objc: category list size is not a multiple of 4")
	ErrClassNameMismatch      = errors.New("objc: class and metaclass disagree on the class name")
	ErrUnknownCategoryClass   = errors.New("objc: category targets a class with no registered implementation")
)

// ---------------------------------------------------------------------------
// Class construction from the binary
// ---------------------------------------------------------------------------

// newClassFromBin builds a class or metaclass host object directly from
// the class structure baked into the app binary. Name and superclass
// come straight from guest memory; methods come from the class's own
// method list when it has one.
func (o *ObjC) newClassFromBin(class Class, isMetaclass bool, m *mem.Mem) *ClassHostObject {
	data1 := readClassT(m, mem.Ptr(class))
	data2 := readClassRWT(m, data1.data)

	host := &ClassHostObject{
		Name:        m.CString(data2.name),
		IsMetaclass: isMetaclass,
		Superclass:  data1.superclass,
		Methods:     make(map[SEL]IMP),
	}

	if !data2.baseMethods.IsNull() {
		for _, entry := range decodeMethodList(data2.baseMethods, m, o.selectors) {
			host.Methods[entry.Sel] = entry.IMP
		}
	}

	return host
}

// ---------------------------------------------------------------------------
// Ingestion
// ---------------------------------------------------------------------------

// RegisterBinClasses registers every class defined by the app binary.
// Binaries that define no classes of their own are fine: no class-list
// section means nothing to do.
//
// The class structures already live in guest memory, so no guest
// storage is allocated; host payloads are bound to the existing
// addresses, and the registry entry overwrites any prior class with the
// same name.
func (o *ObjC) RegisterBinClasses(bin Binary, m *mem.Mem) error {
	addr, size, ok := bin.Section(dataSegment, classListSection)
	if !ok {
		return nil
	}
	if size%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMisalignedClassList, size)
	}

	for i := uint32(0); i < size/4; i++ {
		class := Class(m.ReadPtr(addr + mem.Ptr(4*i)))
		metaclass := o.ReadIsa(class, m)

		classHost := o.newClassFromBin(class, false, m)
		metaclassHost := o.newClassFromBin(metaclass, true, m)

		if classHost.Name != metaclassHost.Name {
			return fmt.Errorf("%w: %q vs %q at %v", ErrClassNameMismatch, classHost.Name, metaclassHost.Name, class)
		}

		o.RegisterStaticObject(class, classHost)
		o.RegisterStaticObject(metaclass, metaclassHost)

		o.classes[classHost.Name] = class
		o.log.Debugf("registered app class %q (%v, metaclass %v, %d methods)",
			classHost.Name, class, metaclass, len(classHost.Methods))
	}
	return nil
}

// RegisterBinCategories merges every category defined by the app binary
// into its target class. Must run after RegisterBinClasses: a category
// target is expected to be registered already, whether it came from the
// binary or from a host framework template.
//
// Category methods override existing entries for the same selector, so
// categories loaded later win over earlier definitions and over the
// base implementation.
func (o *ObjC) RegisterBinCategories(bin Binary, m *mem.Mem) error {
	addr, size, ok := bin.Section(dataSegment, categoryListSection)
	if !ok {
		return nil
	}
	if size%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMisalignedCategoryList, size)
	}

	for i := uint32(0); i < size/4; i++ {
		catPtr := m.ReadPtr(addr + mem.Ptr(4*i))
		cat := readCategoryT(m, catPtr)
		name := m.CString(cat.name)

		classHost, ok := o.HostObjectFor(cat.class).(*ClassHostObject)
		if !ok {
			// Either the reference never resolved to a registered class,
			// or it resolved to a placeholder, which has no method table
			// to merge into.
			return fmt.Errorf("%w: category %q, class ref %v", ErrUnknownCategoryClass, name, cat.class)
		}
		metaclassHost, ok := o.HostObjectFor(o.ReadIsa(cat.class, m)).(*ClassHostObject)
		if !ok {
			return fmt.Errorf("%w: category %q, metaclass of %q", ErrUnknownCategoryClass, name, classHost.Name)
		}

		merged := 0
		if !cat.instanceMethods.IsNull() {
			for _, entry := range decodeMethodList(cat.instanceMethods, m, o.selectors) {
				classHost.Methods[entry.Sel] = entry.IMP
				merged++
			}
		}
		if !cat.classMethods.IsNull() {
			for _, entry := range decodeMethodList(cat.classMethods, m, o.selectors) {
				metaclassHost.Methods[entry.Sel] = entry.IMP
				merged++
			}
		}

		o.log.Debugf("applied category %q to class %q (%d methods)", name, classHost.Name, merged)
	}
	return nil
}
