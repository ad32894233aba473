// Package decoder turns 8086 machine code into instructions.
//
// Decoding is table driven. Each opcode byte is looked up in an isa.Table;
// group opcodes are refined through the reg field of the following byte, and
// the resulting shape selects the routine that consumes the rest of the
// instruction. A second pass resolves short-jump displacements into
// instruction indices and labels.
package decoder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/isa"
	"github.com/sarchlab/sim8086/util"
)

// UnknownPolicy selects what happens when a byte has no table entry.
type UnknownPolicy int

const (
	// HaltOnUnknown stops decoding with an ErrUnknownOpcode.
	HaltOnUnknown UnknownPolicy = iota
	// RecordUnknown appends a placeholder and continues after the opcode
	// (and the mode byte, for group misses). Displacement and immediate bytes
	// of a group miss are not skipped: they are decoded as the instructions
	// that follow, so the rest of the buffer may decode differently or end
	// in ErrBufferUnderrun. For example 83 E3 05 yields a placeholder for
	// 83 E3 and then an underrun on 05.
	RecordUnknown
)

func (p UnknownPolicy) String() string {
	switch p {
	case HaltOnUnknown:
		return "halt"
	case RecordUnknown:
		return "record"
	default:
		return fmt.Sprintf("UnknownPolicy(%d)", int(p))
	}
}

// ParseUnknownPolicy accepts "halt" or "record".
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "halt", "":
		return HaltOnUnknown, nil
	case "record":
		return RecordUnknown, nil
	}

	return HaltOnUnknown, fmt.Errorf("unknown opcode policy %q", s)
}

// Builder can create decoders.
type Builder struct {
	table  *isa.Table
	policy UnknownPolicy
}

// NewBuilder returns a builder that uses the default table and halts on
// unknown opcodes.
func NewBuilder() Builder {
	return Builder{policy: HaltOnUnknown}
}

// WithTable sets the opcode table.
func (b Builder) WithTable(t *isa.Table) Builder {
	b.table = t
	return b
}

// WithUnknownPolicy sets the unknown opcode policy.
func (b Builder) WithUnknownPolicy(p UnknownPolicy) Builder {
	b.policy = p
	return b
}

// Build creates a decoder.
func (b Builder) Build() *Decoder {
	t := b.table
	if t == nil {
		t = isa.Default()
	}

	return &Decoder{table: t, policy: b.policy}
}

// Decoder holds only immutable configuration. Each call runs in its own
// session, so a Decoder can be shared between goroutines.
type Decoder struct {
	table  *isa.Table
	policy UnknownPolicy
}

// Policy returns the unknown opcode policy.
func (d *Decoder) Policy() UnknownPolicy {
	return d.policy
}

// Decode decodes the whole buffer and resolves jump labels.
func (d *Decoder) Decode(buf []byte) (*instr.Program, error) {
	p, err := d.Scan(buf)
	if err != nil {
		return nil, err
	}

	if err := ResolveLabels(p); err != nil {
		return nil, err
	}

	return p, nil
}

// Scan decodes the whole buffer without resolving labels.
func (d *Decoder) Scan(buf []byte) (*instr.Program, error) {
	s := &session{
		table:  d.table,
		policy: d.policy,
		cur:    cursor{buf: buf},
		prog:   instr.NewProgram(),
	}

	if err := s.run(); err != nil {
		return nil, err
	}

	return s.prog, nil
}

// session owns the mutable state of one decode pass.
type session struct {
	table  *isa.Table
	policy UnknownPolicy
	cur    cursor
	prog   *instr.Program
}

func (s *session) run() error {
	for !s.cur.done() {
		inst, err := s.step()
		if err != nil {
			return err
		}

		idx := s.prog.Append(inst)

		util.Trace("Decode",
			"Index", idx,
			"Offset", inst.Offset,
			"Opcode", fmt.Sprintf("%#02x", inst.Opcode),
			"Mnemonic", inst.Mnemonic,
			"Shape", inst.Shape.String(),
			"Len", inst.Len(),
		)
	}

	return nil
}

// step decodes the instruction at the cursor.
func (s *session) step() (instr.Inst, error) {
	start := s.cur.pos
	seg := instr.SegNone

	op, err := s.cur.next()
	if err != nil {
		return instr.Inst{}, s.fail(err, start, op)
	}

	tmpl := s.table.Lookup(op)
	for tmpl.Shape == isa.ShapeSegmentPrefix {
		seg = instr.SegFromField(op >> 3)

		op, err = s.cur.next()
		if err != nil {
			return instr.Inst{}, s.fail(err, start, op)
		}

		tmpl = s.table.Lookup(op)
	}

	if tmpl.Shape == isa.ShapeSpecial {
		modrm, err := s.cur.peek()
		if err != nil {
			return instr.Inst{}, s.fail(err, start, op)
		}

		sel := regField(modrm)
		tmpl = s.table.LookupGroup(tmpl.Group, sel)

		if tmpl.Shape == isa.ShapeUnknown {
			s.cur.pos++
			return s.unknown(start, op, fmt.Sprintf("group selector %d is not defined", sel))
		}
	}

	if tmpl.Shape == isa.ShapeUnknown {
		return s.unknown(start, op, "no table entry")
	}

	inst := instr.Inst{
		Mnemonic: tmpl.Mnemonic,
		Shape:    tmpl.Shape,
		Opcode:   op,
		Offset:   start,
		Segment:  seg,
	}

	decode, err := decoderFor(tmpl.Shape)
	if err != nil {
		return instr.Inst{}, err
	}

	if err := decode(s, &inst); err != nil {
		return instr.Inst{}, s.fail(err, start, op)
	}

	if seg != instr.SegNone {
		inst.First = instr.WithSegment(inst.First, seg)
		inst.Second = instr.WithSegment(inst.Second, seg)
	}

	inst.Bytes = s.cur.since(start)

	return inst, nil
}

func (s *session) unknown(start int, op byte, msg string) (instr.Inst, error) {
	e := &Error{
		Kind:   KindUnknownOpcode,
		Index:  s.prog.Len(),
		Offset: start,
		Opcode: op,
		Msg:    msg,
	}

	if s.policy == HaltOnUnknown {
		return instr.Inst{}, e
	}

	slog.Warn("Skipping unknown opcode",
		"Index", e.Index,
		"Offset", e.Offset,
		"Opcode", fmt.Sprintf("%#02x", op),
		"Reason", msg,
	)

	return instr.Inst{
		Shape:   isa.ShapeUnknown,
		Opcode:  op,
		Offset:  start,
		Bytes:   s.cur.since(start),
		Unknown: true,
	}, nil
}

func (s *session) fail(err error, start int, op byte) error {
	var under underrunError
	if errors.As(err, &under) {
		return &Error{
			Kind:   KindBufferUnderrun,
			Index:  s.prog.Len(),
			Offset: start,
			Opcode: op,
			Msg:    under.Error(),
		}
	}

	return err
}
