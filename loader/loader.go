// Package loader maps an iPhone OS app binary into guest memory and
// hands its Objective-C metadata to the runtime.
package loader

import (
	"fmt"

	"github.com/blacktop/go-macho"
	"github.com/tliron/commonlog"

	"tangerine/mem"
	"tangerine/objc"
)

// Binary is a loaded Mach-O executable. It satisfies objc.Binary, so
// the runtime can locate the binary's class and category list sections.
type Binary struct {
	Path string

	file *macho.File
	log  commonlog.Logger
}

// Load opens a Mach-O binary and maps its sections into guest memory
// at their linked virtual addresses. Zerofill sections map as zeros.
func Load(path string, m *mem.Mem) (*Binary, error) {
	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}

	b := &Binary{
		Path: path,
		file: f,
		log:  commonlog.GetLogger("loader"),
	}
	b.mapSections(m)
	return b, nil
}

func (b *Binary) mapSections(m *mem.Mem) {
	for _, sec := range b.file.Sections {
		if sec.Size == 0 {
			continue
		}

		// Reserve the whole range first: zerofill sections have no file
		// backing, and some sections are shorter on disk than in memory.
		m.MapZero(mem.Ptr(sec.Addr), uint32(sec.Size))

		data, err := sec.Data()
		if err != nil {
			b.log.Debugf("section %s.%s has no file data (%v), mapped as zeros", sec.Seg, sec.Name, err)
			continue
		}
		if len(data) > 0 {
			m.Map(mem.Ptr(sec.Addr), data)
		}
		b.log.Debugf("mapped %s.%s at %v (%d bytes)", sec.Seg, sec.Name, mem.Ptr(sec.Addr), sec.Size)
	}
}

// Section returns the guest address and size of a section, or ok=false
// if the binary has no such section.
func (b *Binary) Section(segment, section string) (mem.Ptr, uint32, bool) {
	sec := b.file.Section(segment, section)
	if sec == nil {
		return 0, 0, false
	}
	return mem.Ptr(sec.Addr), uint32(sec.Size), true
}

// Ingest registers a binary's own classes and then applies its
// categories. The order matters: categories target classes registered
// by the first pass.
func Ingest(bin objc.Binary, o *objc.ObjC, m *mem.Mem) error {
	if err := o.RegisterBinClasses(bin, m); err != nil {
		return err
	}
	return o.RegisterBinCategories(bin, m)
}

// IngestObjC hands the binary's Objective-C metadata to the runtime.
// Called once per loaded executable.
func (b *Binary) IngestObjC(o *objc.ObjC, m *mem.Mem) error {
	if err := Ingest(b, o, m); err != nil {
		return fmt.Errorf("loader: %s: %w", b.Path, err)
	}
	return nil
}

// Close releases the underlying file. Guest memory mappings survive.
func (b *Binary) Close() error {
	return b.file.Close()
}
