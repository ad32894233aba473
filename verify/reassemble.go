package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNoAssembler is returned when nasm cannot be found.
var ErrNoAssembler = errors.New("nasm not found on PATH")

// Assembler is the command used to reassemble listings.
const Assembler = "nasm"

// ReassemblyResult compares assembled listing bytes with the source bytes.
type ReassemblyResult struct {
	Assembled []byte
	Match     bool
	// FirstDiff is the first differing offset, or -1 when the bytes match.
	FirstDiff int
}

// Reassemble assembles listing with nasm and compares the output with source.
func Reassemble(ctx context.Context, listing string, source []byte) (*ReassemblyResult, error) {
	nasm, err := exec.LookPath(Assembler)
	if err != nil {
		return nil, ErrNoAssembler
	}

	dir, err := os.MkdirTemp("", "sim8086-verify-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "listing.asm")
	out := filepath.Join(dir, "listing.bin")

	if err := os.WriteFile(in, []byte(listing), 0o644); err != nil {
		return nil, fmt.Errorf("write listing: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, nasm, "-f", "bin", "-o", out, in)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("nasm: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	assembled, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read assembled output: %w", err)
	}

	return Compare(assembled, source), nil
}

// Compare reports whether two byte strings are identical and where they
// first differ.
func Compare(assembled, source []byte) *ReassemblyResult {
	r := &ReassemblyResult{Assembled: assembled, Match: true, FirstDiff: -1}

	n := min(len(assembled), len(source))
	for i := 0; i < n; i++ {
		if assembled[i] != source[i] {
			r.Match = false
			r.FirstDiff = i

			return r
		}
	}

	if len(assembled) != len(source) {
		r.Match = false
		r.FirstDiff = n
	}

	return r
}
