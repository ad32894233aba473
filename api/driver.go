// Package api defines the driver that loads, decodes, renders and executes
// 8086 programs.
package api

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/core"
	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/render"
	"github.com/sarchlab/sim8086/util"
)

// ErrFileIO is matched by every error that comes from loading a file.
var ErrFileIO = errors.New("file I/O failed")

// FileError reports the path that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{ErrFileIO, e.Err}
}

// Driver provides the interface to work with 8086 programs.
type Driver interface {
	// LoadFile reads the whole file at path.
	LoadFile(path string) ([]byte, error)

	// Decode decodes a byte buffer and resolves its labels.
	Decode(buf []byte) (*instr.Program, error)

	// Render writes the assembly listing of a program.
	Render(w io.Writer, p *instr.Program) error

	// Execute runs a program on the core until it halts, runs off the end
	// or reaches the step limit, and returns the final registers.
	Execute(p *instr.Program) (core.RegisterFile, error)

	// Disassemble loads, decodes and renders the file at path.
	Disassemble(path string, w io.Writer) error
}

type driverImpl struct {
	engine  sim.Engine
	decoder *decoder.Decoder
	core    *core.Core
}

// LoadFile reads a file in full.
func (d *driverImpl) LoadFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	return buf, nil
}

// Decode decodes a buffer.
func (d *driverImpl) Decode(buf []byte) (*instr.Program, error) {
	p, err := d.decoder.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return p, nil
}

// Render writes a listing.
func (d *driverImpl) Render(w io.Writer, p *instr.Program) error {
	return render.Program(w, p)
}

// Execute runs a program to completion.
func (d *driverImpl) Execute(p *instr.Program) (core.RegisterFile, error) {
	d.core.MapProgram(p)

	if err := d.engine.Run(); err != nil {
		return core.RegisterFile{}, fmt.Errorf("execute: %w", err)
	}

	util.Trace("Executed",
		"Retired", d.core.Retired(),
		"Skipped", d.core.Skipped(),
		"Halted", d.core.Halted(),
	)

	return d.core.Registers(), nil
}

// Disassemble loads, decodes and renders a file.
func (d *driverImpl) Disassemble(path string, w io.Writer) error {
	buf, err := d.LoadFile(path)
	if err != nil {
		return err
	}

	p, err := d.Decode(buf)
	if err != nil {
		return err
	}

	return d.Render(w, p)
}
