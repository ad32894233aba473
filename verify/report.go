package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/render"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name          string
	Size          int
	InstCount     int
	LabelCount    int
	Listing       string
	LintIssues    []Issue
	UnknownIssues []Issue
	PrefixIssues  []Issue
	LoopIssues    []Issue
	Reassembly    *ReassemblyResult
	ReassemblyErr error
}

// GenerateReport runs lint and reassembly over a decoded program.
func GenerateReport(
	ctx context.Context,
	name string,
	source []byte,
	p *instr.Program,
) *VerificationReport {
	report := &VerificationReport{
		Name:       name,
		Size:       len(source),
		InstCount:  p.Len(),
		LabelCount: p.NumLabels(),
		Listing:    render.String(p),
	}

	report.LintIssues = RunLint(p)

	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueUnknown:
			report.UnknownIssues = append(report.UnknownIssues, issue)
		case IssuePrefix:
			report.PrefixIssues = append(report.PrefixIssues, issue)
		case IssueLoop:
			report.LoopIssues = append(report.LoopIssues, issue)
		}
	}

	report.Reassembly, report.ReassemblyErr = Reassemble(ctx, report.Listing, source)

	return report
}

// Skipped reports whether reassembly could not run.
func (r *VerificationReport) Skipped() bool {
	return errors.Is(r.ReassemblyErr, ErrNoAssembler)
}

// Passed reports whether the listing is free of unknown bytes and, when an
// assembler was available, reassembles to the source bytes.
func (r *VerificationReport) Passed() bool {
	if len(r.UnknownIssues) > 0 {
		return false
	}

	if r.Skipped() {
		return true
	}

	return r.ReassemblyErr == nil && r.Reassembly.Match
}

func (r *VerificationReport) reassemblyStatus() string {
	switch {
	case r.Skipped():
		return "SKIPPED: " + r.ReassemblyErr.Error()
	case r.ReassemblyErr != nil:
		return "FAILED: " + r.ReassemblyErr.Error()
	case r.Reassembly.Match:
		return "MATCH"
	default:
		return fmt.Sprintf("MISMATCH at offset %d", r.Reassembly.FirstDiff)
	}
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "LISTING VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nDecoded %d bytes into %d instructions, %d labels\n",
		r.Size, r.InstCount, r.LabelCount)

	fmt.Fprintln(w, "\nSTAGE 1: STATIC LINT CHECKS")

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(fmt.Sprintf("%d lint issues", len(r.LintIssues)))
		t.AppendHeader(table.Row{"Type", "Index", "Offset", "Message"})

		for _, issue := range r.LintIssues {
			t.AppendRow(table.Row{
				issue.Type,
				issue.Index,
				fmt.Sprintf("%#04x", issue.Offset),
				issue.Message,
			})
		}

		t.Render()
	}

	fmt.Fprintln(w, "\nSTAGE 2: REASSEMBLY")
	fmt.Fprintf(w, "Result: %s\n", r.reassemblyStatus())

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintf(w, "Lint Result: %d issues (%d UNKNOWN, %d PREFIX, %d LOOP)\n",
		len(r.LintIssues), len(r.UnknownIssues), len(r.PrefixIssues), len(r.LoopIssues))

	if r.Passed() {
		fmt.Fprintln(w, "PASSED")
	} else {
		fmt.Fprintln(w, "FAILED")
	}

	fmt.Fprintln(w, separator)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
