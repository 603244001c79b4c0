package loader

import (
	"tangerine/mem"
)

// Synthetic is an in-memory stand-in for a loaded binary: a set of
// named section ranges over guest memory the caller has populated by
// hand. It satisfies objc.Binary, so synthetic class and category
// tables can be ingested exactly like real ones. Used in tests and for
// booting the runtime without an app binary.
type Synthetic struct {
	Name     string
	sections map[string]sectionRange
}

type sectionRange struct {
	addr mem.Ptr
	size uint32
}

// NewSynthetic creates an empty synthetic binary.
func NewSynthetic(name string) *Synthetic {
	return &Synthetic{
		Name:     name,
		sections: make(map[string]sectionRange),
	}
}

// AddSection declares a section covering [addr, addr+size) in guest
// memory. The caller is responsible for having mapped and filled the
// range.
func (s *Synthetic) AddSection(segment, section string, addr mem.Ptr, size uint32) {
	s.sections[segment+"."+section] = sectionRange{addr: addr, size: size}
}

// Section returns the guest address and size of a declared section.
func (s *Synthetic) Section(segment, section string) (mem.Ptr, uint32, bool) {
	r, ok := s.sections[segment+"."+section]
	return r.addr, r.size, ok
}
