package main

import (
	"fmt"
	"os"

	"tangerine/dump"
)

// handleDumpCommand processes the `tangerine dump` subcommand.
// Usage:
//
//	tangerine dump MyApp             # writes classes.cbor
//	tangerine dump MyApp -o app.cbor # custom output
func handleDumpCommand(args []string) {
	path, rest := resolveBinaryArg(args)

	output := "classes.cbor"
	for i := 0; i < len(rest); i++ {
		if rest[i] == "-o" || rest[i] == "--output" {
			if i+1 < len(rest) {
				output = rest[i+1]
				i++
			} else {
				fmt.Fprintln(os.Stderr, "Error: -o requires an output path")
				os.Exit(1)
			}
		}
	}

	o, m, bin := bootRuntime(path)
	defer bin.Close()

	data, err := dump.Marshal(dump.Snapshot(o, m))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding dump: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d classes to %s (%d bytes)\n", len(o.ClassNames()), output, len(data))
}
