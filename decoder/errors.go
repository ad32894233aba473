package decoder

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against an *Error.
var (
	ErrBufferUnderrun  = errors.New("buffer underrun")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrUnresolvedLabel = errors.New("unresolved label target")
)

// Kind classifies a decode failure.
type Kind int

const (
	KindBufferUnderrun Kind = iota + 1
	KindUnknownOpcode
	KindUnresolvedLabel
)

func (k Kind) String() string {
	switch k {
	case KindBufferUnderrun:
		return "BufferUnderrun"
	case KindUnknownOpcode:
		return "UnknownOpcode"
	case KindUnresolvedLabel:
		return "UnresolvedLabelTarget"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error reports where decoding stopped. Index is the position the failing
// instruction has (or would have had) in the instruction list and Offset is
// its first byte.
type Error struct {
	Kind   Kind
	Index  int
	Offset int
	Opcode byte
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at instruction %d (offset %d, opcode %#02x): %s",
		e.Kind, e.Index, e.Offset, e.Opcode, e.Msg)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindBufferUnderrun:
		return ErrBufferUnderrun
	case KindUnknownOpcode:
		return ErrUnknownOpcode
	case KindUnresolvedLabel:
		return ErrUnresolvedLabel
	}

	return nil
}
