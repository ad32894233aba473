package verify

import (
	"fmt"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/render"
)

// RunLint performs static checks on a decoded program.
// Returns a list of issues found, or empty list if no issues.
func RunLint(p *instr.Program) []Issue {
	var issues []Issue

	for i, inst := range p.Insts {
		if inst.Unknown {
			issues = append(issues, Issue{
				Type:    IssueUnknown,
				Index:   i,
				Offset:  inst.Offset,
				Message: fmt.Sprintf("opcode %#02x did not decode", inst.Opcode),
				Details: map[string]interface{}{"bytes": render.Inst(inst)},
			})

			continue
		}

		if _, hasMem := inst.Memory(); inst.Segment != instr.SegNone && !hasMem {
			issues = append(issues, Issue{
				Type:   IssuePrefix,
				Index:  i,
				Offset: inst.Offset,
				Message: fmt.Sprintf("%s: override on %s has no memory operand",
					inst.Segment, inst.Mnemonic),
			})
		}

		if l, ok := inst.Jump(); ok && l.Resolved && l.Target == i {
			issues = append(issues, Issue{
				Type:    IssueLoop,
				Index:   i,
				Offset:  inst.Offset,
				Message: fmt.Sprintf("%s jumps to itself", inst.Mnemonic),
				Details: map[string]interface{}{"label": render.LabelName(l.Label)},
			})
		}
	}

	return issues
}
