package frameworks

import (
	"tangerine/objc"
)

// FoundationClasses exports the Foundation framework's class templates.
//
// NSObject is the root of the hierarchy: its template has no
// superclass, which makes it the terminating case for the runtime's
// recursive superclass linking.
var FoundationClasses = objc.ClassExports{
	{
		Name: "NSObject",
		ClassMethods: []objc.TemplateMethod{
			{Name: "alloc", IMP: objc.NewHostMethod0("alloc", returnSelf)},
			{Name: "new", IMP: objc.NewHostMethod0("new", returnSelf)},
			{Name: "class", IMP: objc.NewHostMethod0("class", returnSelf)},
		},
		InstanceMethods: []objc.TemplateMethod{
			{Name: "init", IMP: objc.NewHostMethod0("init", returnSelf)},
			{Name: "self", IMP: objc.NewHostMethod0("self", returnSelf)},
			{Name: "class", IMP: objc.NewHostMethod0("class", returnIsa)},
			{Name: "retain", IMP: objc.NewHostMethod0("retain", returnSelf)},
			{Name: "release", IMP: objc.NewHostMethod0("release", returnNil)},
			{Name: "autorelease", IMP: objc.NewHostMethod0("autorelease", returnSelf)},
		},
	},
	{
		Name:       "NSString",
		Superclass: "NSObject",
		ClassMethods: []objc.TemplateMethod{
			{Name: "string", IMP: objc.NewHostMethod0("string", returnSelf)},
		},
		InstanceMethods: []objc.TemplateMethod{
			{Name: "description", IMP: objc.NewHostMethod0("description", returnSelf)},
		},
	},
	{
		Name:       "NSArray",
		Superclass: "NSObject",
		ClassMethods: []objc.TemplateMethod{
			{Name: "array", IMP: objc.NewHostMethod0("array", returnSelf)},
		},
	},
	{
		Name:       "NSAutoreleasePool",
		Superclass: "NSObject",
		InstanceMethods: []objc.TemplateMethod{
			{Name: "drain", IMP: objc.NewHostMethod0("drain", returnNil)},
		},
	},
}

// returnSelf is the stub body shared by methods whose real behavior
// belongs to dispatch or allocation, which live outside this core.
func returnSelf(env *objc.Env, this objc.ID, cmd objc.SEL) uint32 {
	return uint32(this)
}

func returnNil(env *objc.Env, this objc.ID, cmd objc.SEL) uint32 {
	return uint32(objc.Nil)
}

func returnIsa(env *objc.Env, this objc.ID, cmd objc.SEL) uint32 {
	return uint32(env.Runtime.ReadIsa(this, env.Mem))
}
