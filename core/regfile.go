package core

import "github.com/sarchlab/sim8086/instr"

// RegisterFile is the architectural state the core executes against: eight
// word registers, each also addressable by byte halves for the first four,
// and four segment registers.
type RegisterFile struct {
	words [8]uint16
	segs  [4]uint16
}

// Get reads a register view.
func (r RegisterFile) Get(reg instr.Reg) uint16 {
	w := r.words[reg.Slot()]

	switch {
	case reg.Wide():
		return w
	case reg.High():
		return w >> 8
	default:
		return w & 0xFF
	}
}

// Set writes a register view. Byte writes leave the other half untouched.
func (r *RegisterFile) Set(reg instr.Reg, v uint16) {
	slot := reg.Slot()

	switch {
	case reg.Wide():
		r.words[slot] = v
	case reg.High():
		r.words[slot] = r.words[slot]&0x00FF | (v&0xFF)<<8
	default:
		r.words[slot] = r.words[slot]&0xFF00 | v&0xFF
	}
}

// Seg reads a segment register.
func (r RegisterFile) Seg(s instr.SegReg) uint16 {
	return r.segs[s.Index()]
}

// SetSeg writes a segment register.
func (r *RegisterFile) SetSeg(s instr.SegReg, v uint16) {
	r.segs[s.Index()] = v
}
