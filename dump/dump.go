// Package dump serializes the state of the class registry for
// inspection: which classes exist, where they live in guest memory,
// and which selectors each side answers to.
//
// The wire format is canonical CBOR, so identical registries produce
// identical dumps.
package dump

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"tangerine/mem"
	"tangerine/objc"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dump: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ClassDump describes one registered class and its metaclass.
type ClassDump struct {
	Name              string   `cbor:"name"`
	Placeholder       bool     `cbor:"placeholder,omitempty"`
	Superclass        string   `cbor:"superclass,omitempty"`
	Address           uint32   `cbor:"address"`
	MetaAddress       uint32   `cbor:"meta-address"`
	InstanceSelectors []string `cbor:"instance-selectors,omitempty"`
	ClassSelectors    []string `cbor:"class-selectors,omitempty"`
}

// Dump is a snapshot of the whole class registry.
type Dump struct {
	Classes []ClassDump `cbor:"classes"`
}

// Snapshot captures the registry's current state. Classes appear in
// name order.
func Snapshot(o *objc.ObjC, m *mem.Mem) *Dump {
	d := &Dump{}
	for _, name := range o.ClassNames() {
		class, _ := o.ClassByName(name)
		metaclass := o.ReadIsa(class, m)

		entry := ClassDump{
			Name:        name,
			Address:     uint32(class),
			MetaAddress: uint32(metaclass),
		}

		switch host := o.HostObjectFor(class).(type) {
		case *objc.ClassHostObject:
			if !host.Superclass.IsNil() {
				entry.Superclass = o.ClassNameFor(host.Superclass)
			}
			entry.InstanceSelectors = selectorNames(host.Methods, o.Selectors())
		case *objc.UnimplementedClass:
			entry.Placeholder = true
		}

		if metaclassHost, ok := o.HostObjectFor(metaclass).(*objc.ClassHostObject); ok {
			entry.ClassSelectors = selectorNames(metaclassHost.Methods, o.Selectors())
		}

		d.Classes = append(d.Classes, entry)
	}
	return d
}

func selectorNames(methods map[objc.SEL]objc.IMP, selectors *objc.SelectorTable) []string {
	names := make([]string, 0, len(methods))
	for sel := range methods {
		names = append(names, selectors.Name(sel))
	}
	sort.Strings(names)
	return names
}

// Marshal serializes a dump to canonical CBOR bytes.
func Marshal(d *Dump) ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// Unmarshal deserializes a dump from CBOR bytes.
func Unmarshal(data []byte) (*Dump, error) {
	var d Dump
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dump: unmarshal: %w", err)
	}
	return &d, nil
}
