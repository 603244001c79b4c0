package objc

import (
	"testing"

	"tangerine/mem"
)

func TestDecodeMethodList(t *testing.T) {
	m := mem.New()
	st := NewSelectorTable()
	b := newBinBuilder(m)

	list := b.methodList(
		binMethod{name: "bar", imp: 0x8000},
		binMethod{name: "baz", imp: 0x8100},
	)

	entries := decodeMethodList(list, m, st)
	if len(entries) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(entries))
	}

	// Unseen names register on demand.
	barSel, ok := st.Lookup("bar")
	if !ok {
		t.Fatal("bar was not registered")
	}
	if entries[0].Sel != barSel {
		t.Errorf("entry 0 selector = %v, want %v", entries[0].Sel, barSel)
	}
	if imp := entries[0].IMP.(GuestIMP); imp != 0x8000 {
		t.Errorf("entry 0 imp = %v, want 0x8000", imp)
	}
	if imp := entries[1].IMP.(GuestIMP); imp != 0x8100 {
		t.Errorf("entry 1 imp = %v, want 0x8100", imp)
	}
}

func TestDecodeMethodListMasksEntsizeFlags(t *testing.T) {
	m := mem.New()
	st := NewSelectorTable()
	b := newBinBuilder(m)

	name := b.cstring("flagged")
	// entsize carries flag bits in its low two bits.
	list := b.words(methodTSize|0x3, 1, uint32(name), 0, 0x8200)

	entries := decodeMethodList(list, m, st)
	if len(entries) != 1 {
		t.Fatalf("decoded %d entries, want 1", len(entries))
	}
	if imp := entries[0].IMP.(GuestIMP); imp != 0x8200 {
		t.Errorf("imp = %v, want 0x8200", imp)
	}
}

func TestDecodeMethodListReusesKnownSelectors(t *testing.T) {
	m := mem.New()
	st := NewSelectorTable()
	existing := st.Register("bar", m)

	b := newBinBuilder(m)
	list := b.methodList(binMethod{name: "bar", imp: 0x8000})

	entries := decodeMethodList(list, m, st)
	if entries[0].Sel != existing {
		t.Errorf("selector = %v, want the already-interned %v", entries[0].Sel, existing)
	}
}

// ---------------------------------------------------------------------------
// Host method wrappers
// ---------------------------------------------------------------------------

func TestHostMethodWrappers(t *testing.T) {
	m0 := NewHostMethod0("zero", func(env *Env, this ID, cmd SEL) uint32 {
		return uint32(this)
	})
	if m0.Arity() != 0 || m0.Name() != "zero" {
		t.Errorf("m0 = arity %d name %q", m0.Arity(), m0.Name())
	}
	if got := m0.Invoke(nil, 7, NilSEL, nil); got != 7 {
		t.Errorf("Invoke = %d, want 7", got)
	}

	m2 := NewHostMethod2("add", func(env *Env, this ID, cmd SEL, a1, a2 uint32) uint32 {
		return a1 + a2
	})
	if m2.Arity() != 2 {
		t.Errorf("m2 arity = %d, want 2", m2.Arity())
	}
	if got := m2.Invoke(nil, 0, NilSEL, []uint32{3, 4}); got != 7 {
		t.Errorf("Invoke = %d, want 7", got)
	}

	prim := NewHostPrimitive("many", func(env *Env, this ID, cmd SEL, args []uint32) uint32 {
		return uint32(len(args))
	})
	if prim.Arity() != -1 {
		t.Errorf("primitive arity = %d, want -1", prim.Arity())
	}
	if got := prim.Invoke(nil, 0, NilSEL, make([]uint32, 5)); got != 5 {
		t.Errorf("Invoke = %d, want 5", got)
	}
}
