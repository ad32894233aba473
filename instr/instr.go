// Package instr defines the decoded form of 8086 instructions.
package instr

import (
	"fmt"

	"github.com/sarchlab/sim8086/isa"
)

// Flags are the width and direction bits that applied when decoding.
type Flags struct {
	// Wide is set for 16-bit operations.
	Wide bool
	// DestFirst is set when First receives the result.
	DestFirst bool
	// SignExtended is set when a byte immediate was widened to a word.
	SignExtended bool
}

// Inst is one decoded instruction. First and Second keep the order in which
// the encoding names the operands; Dest and Src apply the direction flag.
type Inst struct {
	Mnemonic string
	Shape    isa.Shape
	Opcode   byte

	// Offset is the byte offset of the first byte, including any prefix.
	Offset int
	Bytes  []byte

	First  Operand
	Second Operand
	Flags  Flags

	// Segment is the override prefix that preceded the instruction.
	Segment SegReg

	// Unknown marks a placeholder for bytes that did not decode.
	Unknown bool
}

// Dest returns the operand that receives the result.
func (i Inst) Dest() Operand {
	if i.Flags.DestFirst {
		return orNone(i.First)
	}

	return orNone(i.Second)
}

// Src returns the operand that is read.
func (i Inst) Src() Operand {
	if i.Flags.DestFirst {
		return orNone(i.Second)
	}

	return orNone(i.First)
}

// Len is the number of bytes the instruction occupies.
func (i Inst) Len() int {
	return len(i.Bytes)
}

// End is the byte offset just past the instruction.
func (i Inst) End() int {
	return i.Offset + len(i.Bytes)
}

// Memory returns the memory operand of the instruction, if any.
func (i Inst) Memory() (Operand, bool) {
	if IsMemory(i.First) {
		return i.First, true
	}

	if IsMemory(i.Second) {
		return i.Second, true
	}

	return nil, false
}

// Jump returns the relative label operand of a short jump.
func (i Inst) Jump() (RelativeLabel, bool) {
	l, ok := i.First.(RelativeLabel)
	return l, ok
}

func (i Inst) String() string {
	if i.Unknown {
		return fmt.Sprintf("unknown(%#02x)@%d", i.Opcode, i.Offset)
	}

	return fmt.Sprintf("%s %v, %v @%d", i.Mnemonic, i.Dest(), i.Src(), i.Offset)
}

func orNone(op Operand) Operand {
	if op == nil {
		return None{}
	}

	return op
}
