package frameworks

import (
	"testing"

	"tangerine/mem"
	"tangerine/objc"
)

// TestCatalogsAreClosed checks that every declared superclass has a
// template somewhere in the catalogs. The runtime fails hard on an
// untemplated superclass at link time; catching it here keeps the
// failure in the frameworks' own tests.
func TestCatalogsAreClosed(t *testing.T) {
	catalogs := ClassLists()

	find := func(name string) bool {
		for _, exports := range catalogs {
			for _, template := range exports {
				if template.Name == name {
					return true
				}
			}
		}
		return false
	}

	for _, exports := range catalogs {
		for _, template := range exports {
			if template.Superclass == "" {
				continue
			}
			if !find(template.Superclass) {
				t.Errorf("template %q declares superclass %q, which has no template",
					template.Name, template.Superclass)
			}
		}
	}
}

func TestLinkEveryHostClass(t *testing.T) {
	m := mem.New()
	o := objc.New(ClassLists()...)
	o.RegisterHostSelectors(m)

	for _, exports := range ClassLists() {
		for _, template := range exports {
			class := o.LinkClass(template.Name, false, m)
			host, ok := o.HostObjectFor(class).(*objc.ClassHostObject)
			if !ok {
				t.Fatalf("%s did not link to a real class", template.Name)
			}
			if host.Name != template.Name {
				t.Errorf("linked name = %q, want %q", host.Name, template.Name)
			}
		}
	}
}

func TestUIWindowHierarchyReachesNSObject(t *testing.T) {
	m := mem.New()
	o := objc.New(ClassLists()...)
	o.RegisterHostSelectors(m)

	class := o.LinkClass("UIWindow", false, m)
	nsobject := o.LinkClass("NSObject", false, m)

	seen := 0
	for !class.IsNil() {
		if class == nsobject {
			break
		}
		host, ok := o.HostObjectFor(class).(*objc.ClassHostObject)
		if !ok {
			t.Fatal("hierarchy contains a non-class object")
		}
		class = host.Superclass
		if seen++; seen > 10 {
			t.Fatal("hierarchy does not terminate")
		}
	}
	if class != nsobject {
		t.Error("UIWindow's hierarchy never reaches NSObject")
	}
}
