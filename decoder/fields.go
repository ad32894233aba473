package decoder

import "github.com/sarchlab/sim8086/instr"

// Addressing modes of the mod field.
const (
	modNoDisp   = 0
	modByteDisp = 1
	modWordDisp = 2
	modRegister = 3
)

// rmDirect is the r/m value that means a direct address under modNoDisp.
const rmDirect = 6

func mode(modrm byte) byte {
	return modrm >> 6
}

func regField(modrm byte) byte {
	return (modrm >> 3) & 7
}

func rmField(modrm byte) byte {
	return modrm & 7
}

// direction is the d bit of the two-operand forms.
func direction(op byte) bool {
	return op&2 != 0
}

// wide is the w bit in the lowest position.
func wide(op byte) bool {
	return op&1 != 0
}

// wideImmReg is the w bit of the 1011wreg immediate-to-register form.
func wideImmReg(op byte) bool {
	return op&8 != 0
}

// signExtend is the s bit of the 100000sw immediate group.
func signExtend(op byte) bool {
	return op&2 != 0
}

var byteRegs = [8]instr.Reg{
	instr.AL, instr.CL, instr.DL, instr.BL, instr.AH, instr.CH, instr.DH, instr.BH,
}

var wordRegs = [8]instr.Reg{
	instr.AX, instr.CX, instr.DX, instr.BX, instr.SP, instr.BP, instr.SI, instr.DI,
}

func registerName(index byte, w bool) instr.Reg {
	if w {
		return wordRegs[index&7]
	}

	return byteRegs[index&7]
}

var eaBases = [8]instr.EABase{
	instr.BXSI, instr.BXDI, instr.BPSI, instr.BPDI,
	instr.BaseSI, instr.BaseDI, instr.BaseBP, instr.BaseBX,
}

// effectiveAddressBase maps r/m onto its base expression. The caller handles
// rmDirect under modNoDisp before asking.
func effectiveAddressBase(rm byte) instr.EABase {
	return eaBases[rm&7]
}

func signExtendByte(b byte) int16 {
	return int16(int8(b))
}
