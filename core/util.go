package core

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/util"
)

var segOrder = []instr.SegReg{instr.ES, instr.CS, instr.SS, instr.DS}

// PrintRegisters writes the register file as a table.
func PrintRegisters(w io.Writer, regs RegisterFile) {
	t := table.NewWriter()
	t.SetTitle("Final registers")
	t.AppendHeader(table.Row{"Register", "Hex", "Dec"})

	for r := instr.AX; r <= instr.DI; r++ {
		v := regs.Get(r)
		t.AppendRow(table.Row{r.String(), fmt.Sprintf("0x%04x", v), v})
	}

	t.AppendSeparator()

	for _, s := range segOrder {
		v := regs.Seg(s)
		t.AppendRow(table.Row{s.String(), fmt.Sprintf("0x%04x", v), v})
	}

	fmt.Fprintln(w, t.Render())
}

// LogState traces the word registers after an instruction retires.
func LogState(pc int, regs RegisterFile) {
	args := []any{"PC", pc}
	for r := instr.AX; r <= instr.DI; r++ {
		args = append(args, r.String(), regs.Get(r))
	}

	util.Trace("State", args...)
}
