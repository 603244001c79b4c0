package loader

import (
	"testing"

	"tangerine/mem"
	"tangerine/objc"
)

// ---------------------------------------------------------------------------
// Synthetic binaries
// ---------------------------------------------------------------------------

func TestSyntheticSectionLookup(t *testing.T) {
	syn := NewSynthetic("test")
	syn.AddSection("__DATA", "__objc_classlist", 0x4000, 8)

	addr, size, ok := syn.Section("__DATA", "__objc_classlist")
	if !ok || addr != 0x4000 || size != 8 {
		t.Errorf("Section = %v, %d, %v; want 0x4000, 8, true", addr, size, ok)
	}

	if _, _, ok := syn.Section("__DATA", "__objc_catlist"); ok {
		t.Error("undeclared section should not resolve")
	}
}

// guestWriter lays out guest structures for tests.
type guestWriter struct {
	m  *mem.Mem
	at mem.Ptr
}

func newGuestWriter(m *mem.Mem, base mem.Ptr, size uint32) *guestWriter {
	m.MapZero(base, size)
	return &guestWriter{m: m, at: base}
}

func (w *guestWriter) words(vs ...uint32) mem.Ptr {
	start := w.at
	for _, v := range vs {
		w.m.WriteU32(w.at, v)
		w.at += 4
	}
	return start
}

func (w *guestWriter) cstr(s string) mem.Ptr {
	start := w.at
	w.m.WriteBytes(start, append([]byte(s), 0))
	w.at += mem.Ptr(len(s)+1+3) &^ 3
	return start
}

func (w *guestWriter) methodList(name string, imp uint32) mem.Ptr {
	namePtr := w.cstr(name)
	return w.words(12, 1, uint32(namePtr), 0, imp)
}

func (w *guestWriter) classPair(name string, instanceMethods mem.Ptr) mem.Ptr {
	metaName := w.cstr(name)
	metaData := w.words(0, 0, 0, 0, uint32(metaName), 0, 0, 0, 0, 0)
	meta := w.words(0, 0, 0, 0, uint32(metaData))

	className := w.cstr(name)
	classData := w.words(0, 0, 0, 0, uint32(className), uint32(instanceMethods), 0, 0, 0, 0)
	return w.words(uint32(meta), 0, 0, 0, uint32(classData))
}

// TestSyntheticIngestEndToEnd drives the same path a real binary load
// takes: one class Foo defining bar, one category on Foo adding baz.
func TestSyntheticIngestEndToEnd(t *testing.T) {
	m := mem.New()
	o := objc.New()
	w := newGuestWriter(m, 0x4000, 0x10000)

	barList := w.methodList("bar", 0x8000)
	class := w.classPair("Foo", barList)
	classList := w.words(uint32(class))

	bazList := w.methodList("baz", 0x8100)
	catName := w.cstr("FooMore")
	cat := w.words(uint32(catName), uint32(class), uint32(bazList), 0, 0, 0)
	catList := w.words(uint32(cat))

	syn := NewSynthetic("app")
	syn.AddSection("__DATA", "__objc_classlist", classList, 4)
	syn.AddSection("__DATA", "__objc_catlist", catList, 4)

	if err := Ingest(syn, o, m); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	registered, ok := o.ClassByName("Foo")
	if !ok {
		t.Fatal("Foo is not registered")
	}
	host, ok := o.HostObjectFor(registered).(*objc.ClassHostObject)
	if !ok {
		t.Fatal("Foo's payload is not a ClassHostObject")
	}

	for _, name := range []string{"bar", "baz"} {
		sel, ok := o.Selectors().Lookup(name)
		if !ok {
			t.Fatalf("selector %s was not registered", name)
		}
		if _, ok := host.Methods[sel]; !ok {
			t.Errorf("method %s missing from Foo's table", name)
		}
	}
}

func TestIngestOrderClassesBeforeCategories(t *testing.T) {
	m := mem.New()
	o := objc.New()
	w := newGuestWriter(m, 0x4000, 0x10000)

	// A category against a class nothing registered.
	catName := w.cstr("Stray")
	target := w.words(0) // a readable isa word, but no registered class
	cat := w.words(uint32(catName), uint32(target), 0, 0, 0, 0)
	catList := w.words(uint32(cat))

	syn := NewSynthetic("app")
	syn.AddSection("__DATA", "__objc_catlist", catList, 4)

	if err := Ingest(syn, o, m); err == nil {
		t.Error("a category against an unregistered class should fail the load")
	}
}
