// Command sim8086 disassembles an 8086 machine code file into a listing that
// nasm can assemble back into the same bytes.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/config"
)

func fail(err error) {
	fmt.Fprintf(os.Stderr, "sim8086: %v\n", err)
	atexit.Exit(1)
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file>\n", filepath.Base(os.Args[0]))
		atexit.Exit(1)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err)
	}

	slog.SetDefault(config.NewLogger(os.Stderr, cfg))

	platform := config.NewPlatformBuilder().
		WithConfig(cfg).
		Build("Driver")

	if err := platform.Driver.Disassemble(os.Args[1], os.Stdout); err != nil {
		fail(err)
	}

	atexit.Exit(0)
}
