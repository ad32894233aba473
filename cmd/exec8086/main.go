// Command exec8086 decodes an 8086 machine code file, runs it on the
// simulated core and prints the final register file.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/core"
)

func fail(err error) {
	fmt.Fprintf(os.Stderr, "exec8086: %v\n", err)
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

	driver := config.NewPlatformBuilder().
		WithConfig(cfg).
		Build("Driver").
		Driver

	buf, err := driver.LoadFile(os.Args[1])
	if err != nil {
		fail(err)
	}

	p, err := driver.Decode(buf)
	if err != nil {
		fail(err)
	}

	regs, err := driver.Execute(p)
	if err != nil {
		fail(err)
	}

	core.PrintRegisters(os.Stdout, regs)

	atexit.Exit(0)
}
