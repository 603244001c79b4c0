// Package objc implements the Objective-C object model of the emulated
// runtime.
//
// This package contains:
//   - Selector interning backed by guest memory
//   - Host and guest method implementations (IMPs)
//   - The guest object bank for permanent runtime objects
//   - Class and metaclass construction from host templates and from
//     structures embedded in the app binary
//   - The name-keyed class registry used by dynamic linking
//
// The runtime is owned by the emulator's single execution context and is
// not safe for concurrent use.
package objc

import (
	"github.com/tliron/commonlog"

	"tangerine/mem"
)

// ObjC is the runtime state: one instance per emulated process.
type ObjC struct {
	selectors *SelectorTable

	// Host payloads of permanent guest objects, keyed by guest address.
	objects map[ID]HostObject

	// The class registry. The single source of truth for whether a class
	// with a given name exists; values are guest references to the
	// class-side object (the metaclass is reached through its isa).
	classes map[string]Class

	// Host framework class templates, searched in order.
	catalogs []ClassExports

	log commonlog.Logger
}

// New creates a runtime with the given host framework catalogs. Catalog
// order is search order: the first template matching a name wins.
func New(catalogs ...ClassExports) *ObjC {
	return &ObjC{
		selectors: NewSelectorTable(),
		objects:   make(map[ID]HostObject),
		classes:   make(map[string]Class),
		catalogs:  catalogs,
		log:       commonlog.GetLogger("objc"),
	}
}

// Selectors returns the runtime's selector table.
func (o *ObjC) Selectors() *SelectorTable {
	return o.selectors
}

// RegisterHostSelectors interns every method name declared by the host
// framework catalogs. Must be called before any class is linked from a
// template: template construction assumes its names are registered.
func (o *ObjC) RegisterHostSelectors(m *mem.Mem) {
	for _, exports := range o.catalogs {
		for _, t := range exports {
			for _, method := range t.ClassMethods {
				o.selectors.Register(method.Name, m)
			}
			for _, method := range t.InstanceMethods {
				o.selectors.Register(method.Name, m)
			}
		}
	}
}

// Env is the emulator context passed to host method implementations.
type Env struct {
	Mem     *mem.Mem
	Runtime *ObjC
}
