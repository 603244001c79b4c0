package objc

import (
	"fmt"
	"sort"

	"tangerine/mem"
)

// ---------------------------------------------------------------------------
// Class host objects
// ---------------------------------------------------------------------------

// ClassHostObject is the runtime's representation of a resolved class
// or metaclass. A metaclass is just a class whose instances are classes,
// so both share one type; message lookup starts here.
//
// Superclass may be Nil: the root of a hierarchy has no superclass.
type ClassHostObject struct {
	Name        string
	IsMetaclass bool
	Superclass  Class
	Methods     map[SEL]IMP
}

func (*ClassHostObject) isHostObject() {}

// UnimplementedClass stands in for a class the host has no
// implementation of. Registering it instead of failing lets binary
// loading finish; the error surfaces only if the app actually messages
// the class.
type UnimplementedClass struct {
	Name        string
	IsMetaclass bool
}

func (*UnimplementedClass) isHostObject() {}

// ---------------------------------------------------------------------------
// Class templates
// ---------------------------------------------------------------------------

// TemplateMethod is one (selector name, host implementation) pair in a
// template.
type TemplateMethod struct {
	Name string
	IMP  HostIMP
}

// ClassTemplate is a statically declared, host-authored class
// descriptor. Host implementations of system frameworks use these to
// expose classes to the app; the runtime builds the real class pair
// from the template on demand.
type ClassTemplate struct {
	Name            string
	Superclass      string // empty for a root class
	ClassMethods    []TemplateMethod
	InstanceMethods []TemplateMethod
}

// ClassExports is the list of class templates exported by one host
// framework module.
type ClassExports []ClassTemplate

// findTemplate searches the host framework catalogs for a template, in
// catalog order. Returns nil if no host framework implements the class.
func (o *ObjC) findTemplate(name string) *ClassTemplate {
	for _, exports := range o.catalogs {
		for i := range exports {
			if exports[i].Name == name {
				return &exports[i]
			}
		}
	}
	return nil
}

// newClassFromTemplate builds the class-side or metaclass-side host
// object for a template. Instance methods populate the class, class
// methods the metaclass. All names must already be registered
// (RegisterHostSelectors); an unregistered name is a host framework
// bug, so MustLookup panics.
func newClassFromTemplate(t *ClassTemplate, isMetaclass bool, superclass Class, selectors *SelectorTable) *ClassHostObject {
	src := t.InstanceMethods
	if isMetaclass {
		src = t.ClassMethods
	}

	methods := make(map[SEL]IMP, len(src))
	for _, method := range src {
		methods[selectors.MustLookup(method.Name)] = method.IMP
	}

	return &ClassHostObject{
		Name:        t.Name,
		IsMetaclass: isMetaclass,
		Superclass:  superclass,
		Methods:     methods,
	}
}

// ---------------------------------------------------------------------------
// Registry: lookup and linking
// ---------------------------------------------------------------------------

// classNamed returns the registered class or metaclass for a name. The
// metaclass side is reached by following the class's isa.
func (o *ObjC) classNamed(name string, wantMetaclass bool, m *mem.Mem) (Class, bool) {
	class, ok := o.classes[name]
	if !ok {
		return Nil, false
	}
	if wantMetaclass {
		return o.ReadIsa(class, m), true
	}
	return class, true
}

// LinkClass resolves the class or metaclass referenced by an external
// relocation in the app binary. It never fails: when no host framework
// implements the class, a placeholder is registered so loading can
// proceed, and failure is deferred to the first dispatch attempt.
func (o *ObjC) LinkClass(name string, wantMetaclass bool, m *mem.Mem) Class {
	return o.linkClass(name, wantMetaclass, m, true)
}

// KnownClass resolves a class that host framework code requires to
// exist. A missing template here is a broken host framework, not a
// guest error, so it panics instead of substituting a placeholder.
func (o *ObjC) KnownClass(name string, m *mem.Mem) Class {
	return o.linkClass(name, false, m, false)
}

func (o *ObjC) linkClass(name string, wantMetaclass bool, m *mem.Mem, usePlaceholder bool) Class {
	// The class and metaclass are created together and tracked together,
	// so even though only one reference is returned, both must exist
	// afterwards, whichever side is requested first.

	if class, ok := o.classNamed(name, wantMetaclass, m); ok {
		return class
	}

	var classHost, metaclassHost HostObject
	if template := o.findTemplate(name); template != nil {
		if template.Superclass != "" && o.findTemplate(template.Superclass) == nil {
			// Linking the superclass now would hand back a placeholder
			// and cause strange failures much later. This is a broken
			// host framework build, so fail immediately.
			panic(fmt.Sprintf("objc: template %q declares superclass %q, which has no template", name, template.Superclass))
		}

		classSuper := Nil
		metaclassSuper := Nil
		if template.Superclass != "" {
			classSuper = o.LinkClass(template.Superclass, false, m)
			metaclassSuper = o.LinkClass(template.Superclass, true, m)
		}

		classHost = newClassFromTemplate(template, false, classSuper, o.selectors)
		metaclassHost = newClassFromTemplate(template, true, metaclassSuper, o.selectors)
	} else {
		if !usePlaceholder {
			panic(fmt.Sprintf("objc: missing implementation for class %q", name))
		}

		o.log.Debugf("no implementation for class %q, linking a placeholder", name)
		classHost = &UnimplementedClass{Name: name}
		metaclassHost = &UnimplementedClass{Name: name, IsMetaclass: true}
	}

	// A metaclass is its own class, but a self-referential object cannot
	// be written in one step: allocate with a nil isa, then patch it
	// before anyone can observe the object.
	metaclass := o.AllocStaticObject(Nil, metaclassHost, m)
	o.WriteIsa(metaclass, metaclass, m)

	class := o.AllocStaticObject(metaclass, classHost, m)

	o.classes[name] = class

	if wantMetaclass {
		return metaclass
	}
	return class
}

// ---------------------------------------------------------------------------
// Registry inspection
// ---------------------------------------------------------------------------

// ClassNames returns the names of all registered classes, sorted.
func (o *ObjC) ClassNames() []string {
	names := make([]string, 0, len(o.classes))
	for name := range o.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassByName returns the registered class-side reference for a name,
// without linking anything.
func (o *ObjC) ClassByName(name string) (Class, bool) {
	class, ok := o.classes[name]
	return class, ok
}

// ClassNameFor returns the name carried by a class or metaclass
// reference, or "" if the reference is not a registered class object.
func (o *ObjC) ClassNameFor(ref Class) string {
	switch host := o.HostObjectFor(ref).(type) {
	case *ClassHostObject:
		return host.Name
	case *UnimplementedClass:
		return host.Name
	}
	return ""
}
