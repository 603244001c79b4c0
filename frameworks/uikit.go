package frameworks

import (
	"tangerine/objc"
)

// UIKitClasses exports the UIKit framework's class templates. The
// hierarchy mirrors the real one: responders under NSObject, views and
// the application object under UIResponder.
var UIKitClasses = objc.ClassExports{
	{
		Name:       "UIResponder",
		Superclass: "NSObject",
	},
	{
		Name:       "UIApplication",
		Superclass: "UIResponder",
		ClassMethods: []objc.TemplateMethod{
			{Name: "sharedApplication", IMP: objc.NewHostMethod0("sharedApplication", returnSelf)},
		},
	},
	{
		Name:       "UIView",
		Superclass: "UIResponder",
		InstanceMethods: []objc.TemplateMethod{
			{Name: "superview", IMP: objc.NewHostMethod0("superview", returnNil)},
		},
	},
	{
		Name:       "UIWindow",
		Superclass: "UIView",
	},
}
