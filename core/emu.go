package core

import (
	"log/slog"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/isa"
)

type coreState struct {
	PC      int
	Regs    RegisterFile
	Code    *instr.Program
	Halted  bool
	Retired uint64
	Skipped uint64
}

type instEmulator struct {
}

type instFunc func(inst instr.Inst, state *coreState) bool

// RunInst executes one instruction and advances PC. It reports false when
// the instruction was skipped because the emulator does not model it.
func (i instEmulator) RunInst(inst instr.Inst, state *coreState) bool {
	instFuncs := map[string]instFunc{
		"mov":  i.runMov,
		"xchg": i.runXchg,
		"add":  i.binary(func(a, b uint16) uint16 { return a + b }),
		"sub":  i.binary(func(a, b uint16) uint16 { return a - b }),
		"and":  i.binary(func(a, b uint16) uint16 { return a & b }),
		"or":   i.binary(func(a, b uint16) uint16 { return a | b }),
		"xor":  i.binary(func(a, b uint16) uint16 { return a ^ b }),
		"inc":  i.unary(func(a uint16) uint16 { return a + 1 }),
		"dec":  i.unary(func(a uint16) uint16 { return a - 1 }),
		"neg":  i.unary(func(a uint16) uint16 { return -a }),
		"not":  i.unary(func(a uint16) uint16 { return ^a }),
		"jmp":  i.runJmp,
		"loop": i.runLoop,
		"jcxz": i.runJcxz,
		"hlt":  i.runHlt,
		"nop":  func(_ instr.Inst, _ *coreState) bool { return true },
	}

	state.PC++

	if inst.Unknown {
		i.ignore(inst, "unknown opcode")
		return false
	}

	f, ok := instFuncs[inst.Mnemonic]
	if !ok {
		i.ignore(inst, "not modeled")
		return false
	}

	if !f(inst, state) {
		i.ignore(inst, "operand not modeled")
		return false
	}

	return true
}

func (i instEmulator) ignore(inst instr.Inst, reason string) {
	slog.Info("Ignoring instruction",
		"Mnemonic", inst.Mnemonic,
		"Offset", inst.Offset,
		"Reason", reason,
	)
}

// mask keeps the bits an operation of the instruction's width can hold.
func mask(inst instr.Inst, v uint16) uint16 {
	if inst.Flags.Wide {
		return v
	}

	return v & 0xFF
}

func (i instEmulator) readOperand(op instr.Operand, inst instr.Inst, state *coreState) (uint16, bool) {
	switch o := op.(type) {
	case instr.Register:
		return state.Regs.Get(o.Reg), true
	case instr.SegmentRegister:
		return state.Regs.Seg(o.Seg), true
	case instr.Immediate:
		return mask(inst, uint16(o.Value)), true
	case instr.Accumulator:
		return state.Regs.Get(accumulator(inst)), true
	}

	return 0, false
}

func (i instEmulator) writeOperand(op instr.Operand, v uint16, inst instr.Inst, state *coreState) bool {
	switch o := op.(type) {
	case instr.Register:
		state.Regs.Set(o.Reg, v)
	case instr.SegmentRegister:
		state.Regs.SetSeg(o.Seg, v)
	case instr.Accumulator:
		state.Regs.Set(accumulator(inst), v)
	default:
		return false
	}

	return true
}

func accumulator(inst instr.Inst) instr.Reg {
	if inst.Flags.Wide {
		return instr.AX
	}

	return instr.AL
}

func (i instEmulator) runMov(inst instr.Inst, state *coreState) bool {
	v, ok := i.readOperand(inst.Src(), inst, state)
	if !ok {
		return false
	}

	return i.writeOperand(inst.Dest(), v, inst, state)
}

func (i instEmulator) runXchg(inst instr.Inst, state *coreState) bool {
	a, okA := i.readOperand(inst.Dest(), inst, state)
	b, okB := i.readOperand(inst.Src(), inst, state)
	if !okA || !okB {
		return false
	}

	return i.writeOperand(inst.Dest(), b, inst, state) &&
		i.writeOperand(inst.Src(), a, inst, state)
}

func (i instEmulator) binary(op func(a, b uint16) uint16) instFunc {
	return func(inst instr.Inst, state *coreState) bool {
		a, okA := i.readOperand(inst.Dest(), inst, state)
		b, okB := i.readOperand(inst.Src(), inst, state)
		if !okA || !okB {
			return false
		}

		return i.writeOperand(inst.Dest(), mask(inst, op(a, b)), inst, state)
	}
}

func (i instEmulator) unary(op func(a uint16) uint16) instFunc {
	return func(inst instr.Inst, state *coreState) bool {
		a, ok := i.readOperand(inst.Dest(), inst, state)
		if !ok {
			return false
		}

		return i.writeOperand(inst.Dest(), mask(inst, op(a)), inst, state)
	}
}

// jumpTarget returns the resolved target of a short jump. Indirect and far
// forms of jmp do not carry one.
func jumpTarget(inst instr.Inst) (int, bool) {
	if inst.Shape != isa.ShapeJmp {
		return 0, false
	}

	l, ok := inst.Jump()
	if !ok || !l.Resolved {
		return 0, false
	}

	return l.Target, true
}

func (i instEmulator) runJmp(inst instr.Inst, state *coreState) bool {
	target, ok := jumpTarget(inst)
	if !ok {
		return false
	}

	state.PC = target

	return true
}

func (i instEmulator) runLoop(inst instr.Inst, state *coreState) bool {
	target, ok := jumpTarget(inst)
	if !ok {
		return false
	}

	cx := state.Regs.Get(instr.CX) - 1
	state.Regs.Set(instr.CX, cx)

	if cx != 0 {
		state.PC = target
	}

	return true
}

func (i instEmulator) runJcxz(inst instr.Inst, state *coreState) bool {
	target, ok := jumpTarget(inst)
	if !ok {
		return false
	}

	if state.Regs.Get(instr.CX) == 0 {
		state.PC = target
	}

	return true
}

func (i instEmulator) runHlt(_ instr.Inst, state *coreState) bool {
	state.Halted = true
	return true
}
