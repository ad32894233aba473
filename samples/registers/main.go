package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/core"
	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/render"
	"github.com/sarchlab/sim8086/util"
)

// mov ax, 1; mov bx, 2; mov cx, 3; mov dx, 4; mov sp, ax; xchg dx, bx;
// mov es, ax; add cx, 16; hlt
//
//go:embed registers.bin
var program []byte

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: util.LevelTrace})))

	monitor := monitoring.NewMonitor()

	engine := sim.NewSerialEngine()
	monitor.RegisterEngine(engine)

	c := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Core")
	monitor.RegisterComponent(c)

	p, err := decoder.NewBuilder().Build().Decode(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Print(render.String(p))
	fmt.Println()

	// SIM8086_MONITOR keeps the monitor up until interrupted.
	keep := os.Getenv("SIM8086_MONITOR") != ""
	if keep {
		monitor.StartServer()
	}

	c.MapProgram(p)
	if err := engine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	core.PrintRegisters(os.Stdout, c.Registers())

	if keep {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	}

	atexit.Exit(0)
}
