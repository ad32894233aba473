package decoder

import (
	"fmt"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/isa"
)

// operandDecoder fills the operands of an instruction whose opcode byte has
// already been consumed.
type operandDecoder func(s *session, inst *instr.Inst) error

var operandDecoders = [isa.NumShapes]operandDecoder{
	isa.ShapeRegMemReg:      decodeRegMemReg,
	isa.ShapeImmRegMem:      decodeImmRegMem,
	isa.ShapeImmReg:         decodeImmReg,
	isa.ShapeImmAcc:         decodeImmAcc,
	isa.ShapeMemAcc:         decodeMemAcc,
	isa.ShapeAccMem:         decodeAccMem,
	isa.ShapeRegMemSR:       decodeRegMemSR,
	isa.ShapeSRRegMem:       decodeSRRegMem,
	isa.ShapeRegMem:         decodeRegMem,
	isa.ShapeReg:            decodeReg,
	isa.ShapeRegAcc:         decodeRegAcc,
	isa.ShapeSR:             decodeSR,
	isa.ShapeFixedPort:      decodeFixedPort,
	isa.ShapeVariablePort:   decodeVariablePort,
	isa.ShapeLoadAddr:       decodeLoadAddr,
	isa.ShapeJmp:            decodeJmp,
	isa.ShapeSingleByte:     decodeSingleByte,
	isa.ShapeGroupImm:       decodeGroupImm,
	isa.ShapeGroupImmSigned: decodeGroupImmSigned,
	isa.ShapeGroupShift1:    decodeGroupShift1,
	isa.ShapeGroupShiftCL:   decodeGroupShiftCL,
	isa.ShapeGroupRegMem:    decodeGroupRegMem,
	isa.ShapeGroupFar:       decodeGroupFar,
}

// Unknown, Special and SegmentPrefix never reach an operand decoder. The
// driver resolves them first.
func decoderFor(shape isa.Shape) (operandDecoder, error) {
	if shape < 0 || shape >= isa.NumShapes || operandDecoders[shape] == nil {
		return nil, fmt.Errorf("no operand decoder for shape %s", shape)
	}

	return operandDecoders[shape], nil
}

// regMem decodes the r/m half of a mode byte.
func (s *session) regMem(modrm byte, w bool) (instr.Operand, error) {
	rm := rmField(modrm)

	switch mode(modrm) {
	case modRegister:
		return instr.Register{Reg: registerName(rm, w)}, nil
	case modNoDisp:
		if rm == rmDirect {
			addr, err := s.cur.word()
			if err != nil {
				return nil, err
			}

			return instr.DirectAddress{Addr: addr}, nil
		}

		return instr.EffectiveAddress{Base: effectiveAddressBase(rm)}, nil
	case modByteDisp:
		b, err := s.cur.next()
		if err != nil {
			return nil, err
		}

		return instr.EffectiveAddress{
			Base: effectiveAddressBase(rm),
			Disp: signExtendByte(b),
		}, nil
	default:
		disp, err := s.cur.word()
		if err != nil {
			return nil, err
		}

		return instr.EffectiveAddress{
			Base: effectiveAddressBase(rm),
			Disp: int16(disp),
		}, nil
	}
}

func (s *session) immediate(w bool) (instr.Operand, error) {
	if w {
		v, err := s.cur.word()
		if err != nil {
			return nil, err
		}

		return instr.Immediate{Value: int16(v)}, nil
	}

	b, err := s.cur.next()
	if err != nil {
		return nil, err
	}

	return instr.Immediate{Value: signExtendByte(b)}, nil
}

// modRM reads the mode byte and the r/m operand it describes.
func (s *session) modRM(w bool) (byte, instr.Operand, error) {
	modrm, err := s.cur.next()
	if err != nil {
		return 0, nil, err
	}

	rm, err := s.regMem(modrm, w)
	if err != nil {
		return 0, nil, err
	}

	return modrm, rm, nil
}

func decodeRegMemReg(s *session, inst *instr.Inst) error {
	w := wide(inst.Opcode)

	modrm, rm, err := s.modRM(w)
	if err != nil {
		return err
	}

	inst.First = instr.Register{Reg: registerName(regField(modrm), w)}
	inst.Second = rm
	inst.Flags = instr.Flags{Wide: w, DestFirst: direction(inst.Opcode)}

	return nil
}

func decodeImmRegMem(s *session, inst *instr.Inst) error {
	w := wide(inst.Opcode)

	_, rm, err := s.modRM(w)
	if err != nil {
		return err
	}

	imm, err := s.immediate(w)
	if err != nil {
		return err
	}

	inst.First, inst.Second = rm, imm
	inst.Flags = instr.Flags{Wide: w, DestFirst: true}

	return nil
}

func decodeImmReg(s *session, inst *instr.Inst) error {
	w := wideImmReg(inst.Opcode)

	imm, err := s.immediate(w)
	if err != nil {
		return err
	}

	inst.First = instr.Register{Reg: registerName(inst.Opcode&7, w)}
	inst.Second = imm
	inst.Flags = instr.Flags{Wide: w, DestFirst: true}

	return nil
}

func decodeImmAcc(s *session, inst *instr.Inst) error {
	w := wide(inst.Opcode)

	imm, err := s.immediate(w)
	if err != nil {
		return err
	}

	inst.First, inst.Second = instr.Accumulator{}, imm
	inst.Flags = instr.Flags{Wide: w, DestFirst: true}

	return nil
}

func (s *session) accAndAddress(inst *instr.Inst, accIsDest bool) error {
	addr, err := s.cur.word()
	if err != nil {
		return err
	}

	inst.First = instr.Accumulator{}
	inst.Second = instr.DirectAddress{Addr: addr}
	inst.Flags = instr.Flags{Wide: wide(inst.Opcode), DestFirst: accIsDest}

	return nil
}

func decodeMemAcc(s *session, inst *instr.Inst) error {
	return s.accAndAddress(inst, true)
}

func decodeAccMem(s *session, inst *instr.Inst) error {
	return s.accAndAddress(inst, false)
}

func (s *session) segAndRegMem(inst *instr.Inst, segIsDest bool) error {
	modrm, rm, err := s.modRM(true)
	if err != nil {
		return err
	}

	inst.First = instr.SegmentRegister{Seg: instr.SegFromField(regField(modrm))}
	inst.Second = rm
	inst.Flags = instr.Flags{Wide: true, DestFirst: segIsDest}

	return nil
}

func decodeRegMemSR(s *session, inst *instr.Inst) error {
	return s.segAndRegMem(inst, true)
}

func decodeSRRegMem(s *session, inst *instr.Inst) error {
	return s.segAndRegMem(inst, false)
}

func decodeRegMem(s *session, inst *instr.Inst) error {
	_, rm, err := s.modRM(true)
	if err != nil {
		return err
	}

	inst.First = rm
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

func decodeReg(_ *session, inst *instr.Inst) error {
	inst.First = instr.Register{Reg: registerName(inst.Opcode&7, true)}
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

func decodeRegAcc(_ *session, inst *instr.Inst) error {
	inst.First = instr.Accumulator{}
	inst.Second = instr.Register{Reg: registerName(inst.Opcode&7, true)}
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

func decodeSR(_ *session, inst *instr.Inst) error {
	inst.First = instr.SegmentRegister{Seg: instr.SegFromField(inst.Opcode >> 3)}
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

// Port forms keep the accumulator first; bit 1 of the opcode selects out.
func decodeFixedPort(s *session, inst *instr.Inst) error {
	port, err := s.cur.next()
	if err != nil {
		return err
	}

	inst.First = instr.Accumulator{}
	inst.Second = instr.Immediate{Value: int16(port)}
	inst.Flags = instr.Flags{Wide: wide(inst.Opcode), DestFirst: !direction(inst.Opcode)}

	return nil
}

func decodeVariablePort(_ *session, inst *instr.Inst) error {
	inst.First = instr.Accumulator{}
	inst.Second = instr.Register{Reg: instr.DX}
	inst.Flags = instr.Flags{Wide: wide(inst.Opcode), DestFirst: !direction(inst.Opcode)}

	return nil
}

func decodeLoadAddr(s *session, inst *instr.Inst) error {
	modrm, rm, err := s.modRM(true)
	if err != nil {
		return err
	}

	inst.First = instr.Register{Reg: registerName(regField(modrm), true)}
	inst.Second = rm
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

func decodeJmp(s *session, inst *instr.Inst) error {
	b, err := s.cur.next()
	if err != nil {
		return err
	}

	inst.First = instr.RelativeLabel{Offset: int8(b)}
	inst.Flags = instr.Flags{DestFirst: true}

	return nil
}

func decodeSingleByte(_ *session, inst *instr.Inst) error {
	inst.Flags = instr.Flags{Wide: wide(inst.Opcode), DestFirst: true}
	return nil
}

func decodeGroupImm(s *session, inst *instr.Inst) error {
	return decodeImmRegMem(s, inst)
}

// Only 0x80-0x83 carry the s bit. With s and w both set a single byte
// follows and is widened to a word.
func decodeGroupImmSigned(s *session, inst *instr.Inst) error {
	w := wide(inst.Opcode)

	_, rm, err := s.modRM(w)
	if err != nil {
		return err
	}

	inst.First = rm
	inst.Flags = instr.Flags{Wide: w, DestFirst: true}

	if signExtend(inst.Opcode) && w {
		b, err := s.cur.next()
		if err != nil {
			return err
		}

		inst.Second = instr.Immediate{Value: signExtendByte(b)}
		inst.Flags.SignExtended = true

		return nil
	}

	inst.Second, err = s.immediate(w)

	return err
}

func decodeGroupShift1(s *session, inst *instr.Inst) error {
	return s.groupRegMem(inst, instr.Immediate{Value: 1})
}

func decodeGroupShiftCL(s *session, inst *instr.Inst) error {
	return s.groupRegMem(inst, instr.Register{Reg: instr.CL})
}

func decodeGroupRegMem(s *session, inst *instr.Inst) error {
	return s.groupRegMem(inst, instr.None{})
}

func decodeGroupFar(s *session, inst *instr.Inst) error {
	_, rm, err := s.modRM(true)
	if err != nil {
		return err
	}

	inst.First = rm
	inst.Flags = instr.Flags{Wide: true, DestFirst: true}

	return nil
}

func (s *session) groupRegMem(inst *instr.Inst, src instr.Operand) error {
	w := wide(inst.Opcode)

	_, rm, err := s.modRM(w)
	if err != nil {
		return err
	}

	inst.First, inst.Second = rm, src
	inst.Flags = instr.Flags{Wide: w, DestFirst: true}

	return nil
}
