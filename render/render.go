// Package render prints decoded programs as nasm-compatible 16-bit assembly.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/isa"
)

// Header is the directive that opens every listing.
const Header = "bits 16"

// Program writes the full listing of p to w.
func Program(w io.Writer, p *instr.Program) error {
	_, err := io.WriteString(w, String(p))
	if err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	return nil
}

// String returns the full listing of p.
func String(p *instr.Program) string {
	var sb strings.Builder

	sb.WriteString(Header)
	sb.WriteString("\n\n")

	for _, line := range Lines(p) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Lines returns one line per instruction, with a label line ahead of every
// jump target.
func Lines(p *instr.Program) []string {
	lines := make([]string, 0, len(p.Insts)+len(p.Labels))

	for i, inst := range p.Insts {
		if id, ok := p.LabelAt(i); ok {
			lines = append(lines, fmt.Sprintf("%s:", LabelName(id)))
		}

		lines = append(lines, Inst(inst))
	}

	return lines
}

// LabelName is the spelling of a label id.
func LabelName(id int) string {
	return fmt.Sprintf("label%d", id)
}

// Inst renders a single instruction.
func Inst(inst instr.Inst) string {
	if inst.Unknown {
		return dataBytes(inst.Bytes)
	}

	var sb strings.Builder

	_, hasMem := inst.Memory()
	if inst.Segment != instr.SegNone && !hasMem {
		sb.WriteString(inst.Segment.String())
		sb.WriteByte(' ')
	}

	sb.WriteString(inst.Mnemonic)

	dest, src := inst.Dest(), inst.Src()
	if instr.IsNone(dest) && instr.IsNone(src) {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(operandWithSize(inst, dest, src))

	if !instr.IsNone(src) {
		sb.WriteString(", ")
		sb.WriteString(operandWithSize(inst, src, dest))
	}

	return sb.String()
}

// operandWithSize adds the width keyword where nasm cannot infer it from the
// other operand.
func operandWithSize(inst instr.Inst, op, other instr.Operand) string {
	text := Operand(inst, op)
	if !instr.IsMemory(op) {
		return text
	}

	if inst.Shape == isa.ShapeGroupFar {
		return "far " + text
	}

	if needsSize(inst, other) {
		return sizeName(inst) + " " + text
	}

	return text
}

func needsSize(inst instr.Inst, other instr.Operand) bool {
	if inst.Shape == isa.ShapeGroupShiftCL {
		return true
	}

	switch other.(type) {
	case instr.Immediate, instr.None, nil:
		return true
	}

	return false
}

func sizeName(inst instr.Inst) string {
	if inst.Flags.Wide {
		return "word"
	}

	return "byte"
}

// Operand renders one operand of inst.
func Operand(inst instr.Inst, op instr.Operand) string {
	switch o := op.(type) {
	case instr.Register:
		return o.Reg.String()
	case instr.SegmentRegister:
		return o.Seg.String()
	case instr.Immediate:
		return fmt.Sprintf("%d", o.Value)
	case instr.Accumulator:
		if inst.Flags.Wide {
			return instr.AX.String()
		}

		return instr.AL.String()
	case instr.EffectiveAddress:
		return segment(o.Segment) + "[" + o.Base.String() + displacement(o.Disp) + "]"
	case instr.DirectAddress:
		return segment(o.Segment) + fmt.Sprintf("[%d]", o.Addr)
	case instr.RelativeLabel:
		if o.Resolved {
			return LabelName(o.Label)
		}

		return fmt.Sprintf("$%+d", int(o.Offset)+inst.Len())
	}

	return ""
}

func segment(s instr.SegReg) string {
	if s == instr.SegNone {
		return ""
	}

	return s.String() + ":"
}

func displacement(d int16) string {
	switch {
	case d > 0:
		return fmt.Sprintf(" + %d", d)
	case d < 0:
		return fmt.Sprintf(" - %d", -int(d))
	}

	return ""
}

func dataBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("0x%02x", v)
	}

	return "db " + strings.Join(parts, ", ")
}
