package instr

// Program is a decoded byte stream. Insts is in program order; the index of
// an instruction in Insts is the only index used by jump targets.
type Program struct {
	Insts []Inst

	// Offsets maps the start offset of every instruction to its index.
	Offsets map[int]int

	// Labels maps a jump target index to its label id. Ids are dense and
	// assigned in order of first reference.
	Labels map[int]int

	// Size is the number of bytes decoded.
	Size int
}

// NewProgram returns an empty program ready for appending.
func NewProgram() *Program {
	return &Program{
		Offsets: make(map[int]int),
		Labels:  make(map[int]int),
	}
}

// Append adds an instruction and records its start offset.
func (p *Program) Append(inst Inst) int {
	idx := len(p.Insts)
	p.Insts = append(p.Insts, inst)
	p.Offsets[inst.Offset] = idx

	if end := inst.End(); end > p.Size {
		p.Size = end
	}

	return idx
}

// IndexAt returns the index of the instruction starting at a byte offset.
func (p *Program) IndexAt(offset int) (int, bool) {
	idx, ok := p.Offsets[offset]
	return idx, ok
}

// LabelAt returns the label id attached to an instruction index.
func (p *Program) LabelAt(index int) (int, bool) {
	id, ok := p.Labels[index]
	return id, ok
}

// NumLabels returns how many distinct jump targets the program has.
func (p *Program) NumLabels() int {
	return len(p.Labels)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Insts)
}
