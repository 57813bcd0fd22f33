package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Urethramancer/arm11/cpu"
)

func main() {
	limit := flag.Uint64("limit", 0, "stop after this many instructions (0 means no limit)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-limit n] <binaryfile>\n", os.Args[0])
		os.Exit(1)
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading binary file: %v\n", err)
		os.Exit(1)
	}

	m := cpu.New(cpu.DefaultMemorySize)
	if err := m.LoadImage(image); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	if err := m.Run(*limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// The dump shows the machine exactly as it was at the fault.
		m.DumpState()
		os.Exit(1)
	}
	m.DumpState()
}
