// Tangerine CLI - inspect the Objective-C object model of iPhone OS
// app binaries through the emulator's runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tangerine [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  classes <binary>        Load a binary and print its class registry\n")
		fmt.Fprintf(os.Stderr, "  dump <binary> [-o out]  Load a binary and write a CBOR class dump\n")
		fmt.Fprintf(os.Stderr, "  version                 Print the version\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tangerine classes MyApp          # list every registered class\n")
		fmt.Fprintf(os.Stderr, "  tangerine dump MyApp -o app.cbor # machine-readable dump\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	switch args[0] {
	case "classes":
		handleClassesCommand(args[1:])
	case "dump":
		handleDumpCommand(args[1:])
	case "version":
		fmt.Printf("tangerine %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}
