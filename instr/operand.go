package instr

// Operand is one of the operand variants below. The set is closed; code
// outside this package switches on the concrete type.
type Operand interface {
	operand()
}

// None fills an operand slot the instruction does not use.
type None struct{}

// Immediate is a constant encoded in the instruction. Byte immediates are
// sign-extended.
type Immediate struct {
	Value int16
}

// Register names a general register directly.
type Register struct {
	Reg Reg
}

// SegmentRegister names a segment register.
type SegmentRegister struct {
	Seg SegReg
}

// EffectiveAddress is a memory reference through a base expression.
type EffectiveAddress struct {
	Base    EABase
	Disp    int16
	Segment SegReg
}

// DirectAddress is a memory reference through an absolute 16-bit address.
type DirectAddress struct {
	Addr    uint16
	Segment SegReg
}

// Accumulator is AL or AX depending on the width of the instruction.
type Accumulator struct{}

// RelativeLabel is the target of a short jump. Offset is the raw signed
// displacement from the end of the jump. The label resolver fills Target
// (an instruction index) and Label.
type RelativeLabel struct {
	Offset   int8
	Target   int
	Label    int
	Resolved bool
}

func (None) operand()             {}
func (Immediate) operand()        {}
func (Register) operand()         {}
func (SegmentRegister) operand()  {}
func (EffectiveAddress) operand() {}
func (DirectAddress) operand()    {}
func (Accumulator) operand()      {}
func (RelativeLabel) operand()    {}

// IsMemory reports whether the operand references memory.
func IsMemory(op Operand) bool {
	switch op.(type) {
	case EffectiveAddress, DirectAddress:
		return true
	}

	return false
}

// IsNone reports whether the operand slot is empty. A nil operand counts as
// empty.
func IsNone(op Operand) bool {
	if op == nil {
		return true
	}

	_, ok := op.(None)

	return ok
}

// WithSegment returns a copy of a memory operand carrying the segment
// override. Other operands are returned unchanged.
func WithSegment(op Operand, seg SegReg) Operand {
	switch o := op.(type) {
	case EffectiveAddress:
		o.Segment = seg
		return o
	case DirectAddress:
		o.Segment = seg
		return o
	}

	return op
}
