package objc

import (
	"fmt"

	"tangerine/mem"
)

// ---------------------------------------------------------------------------
// SEL: selector identifiers
// ---------------------------------------------------------------------------

// SEL identifies a method name. As in the real runtime, a selector is
// the guest address of the interned name string: selectors compare by
// value and can be handed to guest code directly.
type SEL mem.Ptr

// NilSEL is the null selector.
const NilSEL SEL = 0

// ---------------------------------------------------------------------------
// SelectorTable: interned selectors
// ---------------------------------------------------------------------------

// SelectorTable interns method name strings to unique selectors.
//
// Unlike a plain string interner, registration allocates the name in
// permanent guest memory, because guest code may load and compare the
// selector as a pointer.
type SelectorTable struct {
	byName map[string]SEL
	byAddr map[SEL]string
}

// NewSelectorTable creates an empty selector table.
func NewSelectorTable() *SelectorTable {
	return &SelectorTable{
		byName: make(map[string]SEL),
		byAddr: make(map[SEL]string),
	}
}

// Register returns the selector for a name, interning it and allocating
// the guest-side name string on first registration. This is the
// on-demand path used for names found in app binaries, which may
// introduce selectors the host has never seen.
func (st *SelectorTable) Register(name string, m *mem.Mem) SEL {
	if sel, ok := st.byName[name]; ok {
		return sel
	}
	sel := SEL(m.AllocCString(name))
	st.byName[name] = sel
	st.byAddr[sel] = name
	return sel
}

// Lookup returns the selector for a name, or NilSEL and false if the
// name has never been registered.
func (st *SelectorTable) Lookup(name string) (SEL, bool) {
	sel, ok := st.byName[name]
	return sel, ok
}

// MustLookup returns the selector for a name, panicking if it is not
// registered. Template-sourced method names go through this path: a
// missing selector there means the host framework build is broken, so
// failing fast beats deferring the error.
func (st *SelectorTable) MustLookup(name string) SEL {
	sel, ok := st.byName[name]
	if !ok {
		panic(fmt.Sprintf("objc: selector %q was never registered; host frameworks must register their selectors before linking", name))
	}
	return sel
}

// Name returns the name for a selector, or "" if the selector is
// unknown.
func (st *SelectorTable) Name(sel SEL) string {
	return st.byAddr[sel]
}

// Len returns the number of interned selectors.
func (st *SelectorTable) Len() int {
	return len(st.byName)
}
