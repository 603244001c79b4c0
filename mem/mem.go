// Package mem implements the guest address space of the emulated device.
//
// All guest pointers are 32-bit virtual addresses (the emulated CPU is a
// 32-bit ARM). Memory is backed by sparse, chunk-granular allocations so
// the full 4 GiB range can be reserved without committing host memory.
package mem

import (
	"encoding/binary"
	"fmt"
)

// Ptr is a guest virtual address.
//
// The zero value is the guest null pointer. Guest structures store
// pointers as little-endian 32-bit words.
type Ptr uint32

// NilPtr is the guest null pointer.
const NilPtr Ptr = 0

// IsNull returns true if the pointer is guest null.
func (p Ptr) IsNull() bool { return p == NilPtr }

// String formats the pointer the way guest addresses are conventionally
// printed in emulator logs.
func (p Ptr) String() string { return fmt.Sprintf("0x%08x", uint32(p)) }

// PtrSize is the width of a guest pointer in bytes.
const PtrSize = 4

// ---------------------------------------------------------------------------
// Mem: sparse chunked guest memory
// ---------------------------------------------------------------------------

// chunkShift gives 1 MiB chunks: large enough that a mapped binary
// segment rarely spans more than a handful, small enough that a sparse
// address space stays cheap.
const chunkShift = 20
const chunkSize = 1 << chunkShift

// StaticBase is the start of the region reserved for permanent runtime
// allocations (interned selector strings, class isa words). It sits far
// above where iPhone OS binaries are linked, so mapped segments never
// collide with it.
const StaticBase Ptr = 0xA0000000

// Mem is the guest address space.
//
// Mem is owned by the emulator's single execution context and is not
// safe for concurrent use. Accessing an unmapped address panics: guest
// code cannot reach this package except through decoded structures whose
// pointers were produced by the loader or the runtime, so an unmapped
// access is an emulator bug, not a guest error.
type Mem struct {
	chunks map[uint32][]byte

	// Bump allocator for permanent runtime objects.
	staticNext Ptr
}

// New creates an empty guest address space.
func New() *Mem {
	return &Mem{
		chunks:     make(map[uint32][]byte),
		staticNext: StaticBase,
	}
}

// chunkFor returns the backing chunk containing addr, or nil.
func (m *Mem) chunkFor(addr Ptr) []byte {
	return m.chunks[uint32(addr) >> chunkShift]
}

// ensureChunk returns the backing chunk containing addr, creating it if
// needed.
func (m *Mem) ensureChunk(addr Ptr) []byte {
	idx := uint32(addr) >> chunkShift
	c := m.chunks[idx]
	if c == nil {
		c = make([]byte, chunkSize)
		m.chunks[idx] = c
	}
	return c
}

// ---------------------------------------------------------------------------
// Mapping and allocation
// ---------------------------------------------------------------------------

// Map copies data into guest memory at addr, creating backing chunks as
// needed. The loader uses this to place binary sections at their linked
// virtual addresses.
func (m *Mem) Map(addr Ptr, data []byte) {
	for len(data) > 0 {
		c := m.ensureChunk(addr)
		off := uint32(addr) & (chunkSize - 1)
		n := copy(c[off:], data)
		data = data[n:]
		addr += Ptr(n)
	}
}

// MapZero creates zero-filled backing for [addr, addr+size), for
// zerofill (bss-style) sections.
func (m *Mem) MapZero(addr Ptr, size uint32) {
	for end := addr + Ptr(size); addr < end; {
		m.ensureChunk(addr)
		next := (addr &^ (chunkSize - 1)) + chunkSize
		if next > end || next < addr {
			break
		}
		addr = next
	}
}

// AllocStatic reserves size bytes of zeroed, permanent guest memory and
// returns its address. Static allocations are never freed; they back
// process-lifetime runtime objects.
func (m *Mem) AllocStatic(size uint32) Ptr {
	// Keep word alignment for isa words and similar.
	size = (size + 3) &^ 3
	addr := m.staticNext
	m.staticNext += Ptr(size)
	m.MapZero(addr, size)
	return addr
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Bytes reads n bytes starting at addr.
func (m *Mem) Bytes(addr Ptr, n uint32) []byte {
	out := make([]byte, n)
	dst := out
	for len(dst) > 0 {
		c := m.chunkFor(addr)
		if c == nil {
			panic(fmt.Sprintf("mem: read of unmapped guest address %v", addr))
		}
		off := uint32(addr) & (chunkSize - 1)
		k := copy(dst, c[off:])
		dst = dst[k:]
		addr += Ptr(k)
	}
	return out
}

// ReadU8 reads an unsigned byte at addr.
func (m *Mem) ReadU8(addr Ptr) uint8 {
	return m.Bytes(addr, 1)[0]
}

// ReadU16 reads a little-endian u16 at addr.
func (m *Mem) ReadU16(addr Ptr) uint16 {
	return binary.LittleEndian.Uint16(m.Bytes(addr, 2))
}

// ReadU32 reads a little-endian u32 at addr.
func (m *Mem) ReadU32(addr Ptr) uint32 {
	return binary.LittleEndian.Uint32(m.Bytes(addr, 4))
}

// ReadPtr reads a guest pointer at addr.
func (m *Mem) ReadPtr(addr Ptr) Ptr {
	return Ptr(m.ReadU32(addr))
}

// CString reads a null-terminated string at addr.
func (m *Mem) CString(addr Ptr) string {
	var out []byte
	for {
		c := m.chunkFor(addr)
		if c == nil {
			panic(fmt.Sprintf("mem: string read of unmapped guest address %v", addr))
		}
		off := uint32(addr) & (chunkSize - 1)
		for _, b := range c[off:] {
			if b == 0 {
				return string(out)
			}
			out = append(out, b)
			addr++
		}
	}
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// WriteBytes writes data at addr. The range must already be mapped.
func (m *Mem) WriteBytes(addr Ptr, data []byte) {
	for len(data) > 0 {
		c := m.chunkFor(addr)
		if c == nil {
			panic(fmt.Sprintf("mem: write to unmapped guest address %v", addr))
		}
		off := uint32(addr) & (chunkSize - 1)
		n := copy(c[off:], data)
		data = data[n:]
		addr += Ptr(n)
	}
}

// WriteU32 writes a little-endian u32 at addr.
func (m *Mem) WriteU32(addr Ptr, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	m.WriteBytes(addr, buf[:])
}

// WritePtr writes a guest pointer at addr.
func (m *Mem) WritePtr(addr Ptr, p Ptr) {
	m.WriteU32(addr, uint32(p))
}

// AllocCString copies s into permanent guest memory with a trailing null
// and returns its address.
func (m *Mem) AllocCString(s string) Ptr {
	addr := m.AllocStatic(uint32(len(s)) + 1)
	m.WriteBytes(addr, append([]byte(s), 0))
	return addr
}
