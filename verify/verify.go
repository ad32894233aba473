// Package verify provides checks that a decoded listing is faithful to the
// bytes it came from.
//
// Two stages complement each other:
//
// 1. Static lint (lint.go): structural checks on the decoded program
//   - UNKNOWN: bytes that were recorded as placeholders instead of decoded
//   - PREFIX: segment overrides on instructions without a memory operand
//   - LOOP: short jumps whose target is the jump itself
//
// 2. Reassembly (reassemble.go): the rendered listing is fed to nasm and the
// output compared byte for byte with the source. This needs nasm on PATH;
// without it the stage reports ErrNoAssembler and is skipped.
//
// # Usage Example
//
//	p, err := decoder.NewBuilder().
//		WithUnknownPolicy(decoder.RecordUnknown).
//		Build().
//		Decode(buf)
//	if err != nil {
//		return err
//	}
//
//	report := verify.GenerateReport(ctx, "listing_0041", buf, p)
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueUnknown IssueType = "UNKNOWN" // Bytes that did not decode
	IssuePrefix  IssueType = "PREFIX"  // Segment override with nothing to apply to
	IssueLoop    IssueType = "LOOP"    // Jump to itself
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // UNKNOWN, PREFIX or LOOP
	Index   int                    // Instruction index
	Offset  int                    // Byte offset of the instruction
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}
