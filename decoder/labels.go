package decoder

import (
	"fmt"

	"github.com/sarchlab/sim8086/instr"
)

// ResolveLabels turns the raw displacement of every short jump into the index
// of its target instruction and assigns labels in order of first reference.
// Any labels already present are discarded, so resolving twice gives the
// same result.
func ResolveLabels(p *instr.Program) error {
	p.Labels = make(map[int]int)

	if p.Offsets == nil {
		p.Offsets = make(map[int]int, len(p.Insts))
		for i, inst := range p.Insts {
			p.Offsets[inst.Offset] = i
		}
	}

	for i := range p.Insts {
		inst := &p.Insts[i]

		l, ok := inst.Jump()
		if !ok {
			continue
		}

		target := inst.End() + int(l.Offset)

		idx, ok := p.IndexAt(target)
		if !ok {
			return &Error{
				Kind:   KindUnresolvedLabel,
				Index:  i,
				Offset: inst.Offset,
				Opcode: inst.Opcode,
				Msg:    fmt.Sprintf("target offset %d does not start an instruction", target),
			}
		}

		id, seen := p.Labels[idx]
		if !seen {
			id = len(p.Labels)
			p.Labels[idx] = id
		}

		l.Target = idx
		l.Label = id
		l.Resolved = true
		inst.First = l
	}

	return nil
}
