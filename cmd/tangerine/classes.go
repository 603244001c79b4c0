package main

import (
	"fmt"
	"os"

	"tangerine/config"
	"tangerine/frameworks"
	"tangerine/loader"
	"tangerine/mem"
	"tangerine/objc"
)

// bootRuntime brings up guest memory and the Objective-C runtime with
// the host framework catalogs, then loads and ingests the binary.
func bootRuntime(path string) (*objc.ObjC, *mem.Mem, *loader.Binary) {
	m := mem.New()
	o := objc.New(frameworks.ClassLists()...)
	o.RegisterHostSelectors(m)

	bin, err := loader.Load(path, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading binary: %v\n", err)
		os.Exit(1)
	}

	if err := bin.IngestObjC(o, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting Objective-C metadata: %v\n", err)
		os.Exit(1)
	}

	return o, m, bin
}

// resolveBinaryArg picks the binary path from the command line, falling
// back to tangerine.toml when no argument is given.
func resolveBinaryArg(args []string) (string, []string) {
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		return args[0], args[1:]
	}

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tangerine.toml: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil || cfg.Binary.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: no binary given and no tangerine.toml with [binary] path found")
		os.Exit(1)
	}
	return cfg.BinaryPath(), args
}

// handleClassesCommand processes the `tangerine classes` subcommand.
func handleClassesCommand(args []string) {
	path, _ := resolveBinaryArg(args)

	o, m, bin := bootRuntime(path)
	defer bin.Close()

	for _, name := range o.ClassNames() {
		class, _ := o.ClassByName(name)
		metaclass := o.ReadIsa(class, m)

		switch host := o.HostObjectFor(class).(type) {
		case *objc.ClassHostObject:
			super := "(root)"
			if !host.Superclass.IsNil() {
				super = o.ClassNameFor(host.Superclass)
			}
			var metaMethods int
			if metaclassHost, ok := o.HostObjectFor(metaclass).(*objc.ClassHostObject); ok {
				metaMethods = len(metaclassHost.Methods)
			}
			fmt.Printf("%s  %s : %s  %d instance / %d class methods\n",
				class, name, super, len(host.Methods), metaMethods)
		case *objc.UnimplementedClass:
			fmt.Printf("%s  %s  (unimplemented)\n", class, name)
		}
	}
}
