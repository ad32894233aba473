// Command verify-listing decodes a file, lints the listing and checks that
// nasm reassembles it into the same bytes.
//
//	verify-listing <file> [report]
//
// When a report path is given the report is also saved there.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/verify"
)

func fail(err error) {
	fmt.Fprintf(os.Stderr, "verify-listing: %v\n", err)
	atexit.Exit(1)
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <file> [report]\n", filepath.Base(os.Args[0]))
		atexit.Exit(1)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err)
	}

	slog.SetDefault(config.NewLogger(os.Stderr, cfg))

	path := os.Args[1]

	buf, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}

	// Unknown bytes are lint issues here, not decode failures.
	p, err := decoder.NewBuilder().
		WithUnknownPolicy(decoder.RecordUnknown).
		Build().
		Decode(buf)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(stop)

	report := verify.GenerateReport(ctx, filepath.Base(path), buf, p)
	report.WriteReport(os.Stdout)

	if len(os.Args) == 3 {
		if err := report.SaveReportToFile(os.Args[2]); err != nil {
			fail(err)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
