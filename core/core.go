// Package core executes decoded 8086 programs on a small register file.
package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/util"
)

// HookPosInstRetired marks when the core finishes an instruction. The hook
// item is the instruction and the detail is a RetireDetail.
var HookPosInstRetired = &sim.HookPos{Name: "Inst Retired"}

// RetireDetail describes one retired instruction.
type RetireDetail struct {
	Index    int
	Executed bool
	Regs     RegisterFile
}

// Core runs one instruction per tick.
type Core struct {
	*sim.TickingComponent

	state    coreState
	emu      instEmulator
	maxSteps uint64
}

// MapProgram sets the program that the core runs and schedules a tick at the
// next cycle boundary. The register file is reset, so a core can run several
// programs one after another on the same engine.
func (c *Core) MapProgram(p *instr.Program) {
	c.state = coreState{Code: p}

	if p != nil && len(p.Insts) > 0 {
		c.TickLater()
	}
}

// Tick retires one instruction.
func (c *Core) Tick() (madeProgress bool) {
	if !c.runnable() {
		return false
	}

	if c.maxSteps > 0 && c.state.Retired >= c.maxSteps {
		slog.Warn("Step limit reached",
			"Core", c.Name(),
			"Steps", c.state.Retired,
			"PC", c.state.PC,
		)
		c.state.Halted = true

		return false
	}

	idx := c.state.PC
	inst := c.state.Code.Insts[idx]
	executed := c.emu.RunInst(inst, &c.state)

	c.state.Retired++
	if !executed {
		c.state.Skipped++
	}

	util.Trace("Execute",
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"Core", c.Name(),
		"Index", idx,
		"Mnemonic", inst.Mnemonic,
		"Executed", executed,
	)
	LogState(c.state.PC, c.state.Regs)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosInstRetired,
		Item:   inst,
		Detail: RetireDetail{Index: idx, Executed: executed, Regs: c.state.Regs},
	})

	return true
}

func (c *Core) runnable() bool {
	return c.state.Code != nil &&
		!c.state.Halted &&
		c.state.PC >= 0 &&
		c.state.PC < len(c.state.Code.Insts)
}

// Registers returns a copy of the register file.
func (c *Core) Registers() RegisterFile {
	return c.state.Regs
}

// Halted reports whether the core stopped on hlt or the step limit.
func (c *Core) Halted() bool {
	return c.state.Halted
}

// Retired returns how many instructions the core has retired.
func (c *Core) Retired() uint64 {
	return c.state.Retired
}

// Skipped returns how many retired instructions were not modeled.
func (c *Core) Skipped() uint64 {
	return c.state.Skipped
}
