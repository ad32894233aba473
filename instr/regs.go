package instr

import "fmt"

// Reg identifies one of the sixteen general register views.
type Reg int

// The byte registers come first so that index|wide<<3 maps straight onto the
// encoding of the reg and r/m fields.
const (
	AL Reg = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
	AX
	CX
	DX
	BX
	SP
	BP
	SI
	DI
	NumRegs
)

var regNames = [NumRegs]string{
	"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh",
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
}

func (r Reg) String() string {
	if r < 0 || r >= NumRegs {
		return fmt.Sprintf("Reg(%d)", int(r))
	}

	return regNames[r]
}

// Wide reports whether the register is a 16-bit view.
func (r Reg) Wide() bool {
	return r >= AX
}

// Slot returns the word slot of the register file that backs the register.
// AH..BH share the slots of AX..BX.
func (r Reg) Slot() int {
	if r.Wide() {
		return int(r - AX)
	}

	return int(r) & 3
}

// High reports whether the register is the upper half of its slot.
func (r Reg) High() bool {
	return !r.Wide() && r >= AH
}

// SegReg identifies a segment register. SegNone marks the absence of a
// segment override.
type SegReg int

const (
	SegNone SegReg = iota
	ES
	CS
	SS
	DS
	NumSegRegs
)

var segNames = [NumSegRegs]string{"", "es", "cs", "ss", "ds"}

func (s SegReg) String() string {
	if s < 0 || s >= NumSegRegs {
		return fmt.Sprintf("SegReg(%d)", int(s))
	}

	return segNames[s]
}

// SegFromField converts the two-bit sr field into a segment register.
func SegFromField(sr byte) SegReg {
	return SegReg(sr&3) + ES
}

// Index returns the position of the register in the segment register file.
func (s SegReg) Index() int {
	return int(s - ES)
}

// EABase is the base expression selected by the r/m field of a memory
// operand.
type EABase int

const (
	BXSI EABase = iota
	BXDI
	BPSI
	BPDI
	BaseSI
	BaseDI
	BaseBP
	BaseBX
	NumEABases
)

var eaNames = [NumEABases]string{
	"bx + si", "bx + di", "bp + si", "bp + di", "si", "di", "bp", "bx",
}

func (b EABase) String() string {
	if b < 0 || b >= NumEABases {
		return fmt.Sprintf("EABase(%d)", int(b))
	}

	return eaNames[b]
}

// Regs returns the registers summed by the base expression.
func (b EABase) Regs() []Reg {
	switch b {
	case BXSI:
		return []Reg{BX, SI}
	case BXDI:
		return []Reg{BX, DI}
	case BPSI:
		return []Reg{BP, SI}
	case BPDI:
		return []Reg{BP, DI}
	case BaseSI:
		return []Reg{SI}
	case BaseDI:
		return []Reg{DI}
	case BaseBP:
		return []Reg{BP}
	case BaseBX:
		return []Reg{BX}
	}

	panic(fmt.Sprintf("invalid base expression %d", int(b)))
}
