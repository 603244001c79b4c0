// Package frameworks holds the host-side implementations of the system
// classes an iPhone OS app links against.
//
// Each framework module exports a list of class templates; the runtime
// builds real classes from them the first time the app references one.
// Only the object-model surface lives here: enough class structure and
// host methods for linking, not full framework behavior.
package frameworks

import (
	"tangerine/objc"
)

// ClassLists returns the host framework catalogs in search order.
// Foundation comes first: UIKit classes name Foundation superclasses,
// and first match wins on duplicate names.
func ClassLists() []objc.ClassExports {
	return []objc.ClassExports{
		FoundationClasses,
		UIKitClasses,
	}
}
