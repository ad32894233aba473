package isa

import "fmt"

// Shape tells the decoder how many bytes follow an opcode and what they mean.
type Shape int

const (
	ShapeUnknown Shape = iota

	// [100010|d|w] [mod|reg|r/m] [disp-lo?] [disp-hi?]
	ShapeRegMemReg
	// [1100011|w] [mod|000|r/m] [disp-lo?] [disp-hi?] [data] [data if w = 1]
	ShapeImmRegMem
	// [1011|w|reg] [data] [data if w = 1]
	ShapeImmReg
	// [xxxxxxx|w] [data] [data if w = 1]
	ShapeImmAcc
	// [1010000|w] [addr-lo] [addr-hi]
	ShapeMemAcc
	// [1010001|w] [addr-lo] [addr-hi]
	ShapeAccMem
	// [10001110] [mod|0|sr|r/m] [disp-lo?] [disp-hi?]
	ShapeRegMemSR
	// [10001100] [mod|0|sr|r/m] [disp-lo?] [disp-hi?]
	ShapeSRRegMem
	// [10001111] [mod|000|r/m] [disp-lo?] [disp-hi?]
	ShapeRegMem
	// [xxxxx|reg]
	ShapeReg
	// [10010|reg]
	ShapeRegAcc
	// [000|sr|11x]
	ShapeSR
	// [111001d|w] [data-8]
	ShapeFixedPort
	// [111011d|w]
	ShapeVariablePort
	// [xxxxxxxx] [mod|reg|r/m] [disp-lo?] [disp-hi?], always word
	ShapeLoadAddr
	// [xxxxxxxx] [ip-inc8]
	ShapeJmp
	ShapeSingleByte
	// [001|sr|110]
	ShapeSegmentPrefix

	// ShapeSpecial marks an opcode whose identity depends on the reg field
	// of the following byte. The template carries the group index.
	ShapeSpecial

	// [1111011|w] [mod|000|r/m] [disp-lo?] [disp-hi?] [data] [data if w = 1]
	ShapeGroupImm
	// [100000|s|w] [mod|xxx|r/m] [disp-lo?] [disp-hi?] [data] [data if s|w = 0|1]
	ShapeGroupImmSigned
	// [1101000|w] [mod|xxx|r/m] [disp-lo?] [disp-hi?]
	ShapeGroupShift1
	// [1101001|w] [mod|xxx|r/m] [disp-lo?] [disp-hi?]
	ShapeGroupShiftCL
	// [xxxxxxx|w] [mod|xxx|r/m] [disp-lo?] [disp-hi?]
	ShapeGroupRegMem
	// [11111111] [mod|x11|r/m] [disp-lo?] [disp-hi?]
	ShapeGroupFar

	NumShapes
)

var shapeNames = [NumShapes]string{
	ShapeUnknown:        "unknown",
	ShapeRegMemReg:      "regmem-reg",
	ShapeImmRegMem:      "imm-regmem",
	ShapeImmReg:         "imm-reg",
	ShapeImmAcc:         "imm-acc",
	ShapeMemAcc:         "mem-acc",
	ShapeAccMem:         "acc-mem",
	ShapeRegMemSR:       "regmem-sr",
	ShapeSRRegMem:       "sr-regmem",
	ShapeRegMem:         "regmem",
	ShapeReg:            "reg",
	ShapeRegAcc:         "reg-acc",
	ShapeSR:             "sr",
	ShapeFixedPort:      "fixed-port",
	ShapeVariablePort:   "variable-port",
	ShapeLoadAddr:       "load-addr",
	ShapeJmp:            "jmp",
	ShapeSingleByte:     "single-byte",
	ShapeSegmentPrefix:  "segment-prefix",
	ShapeSpecial:        "special",
	ShapeGroupImm:       "group-imm",
	ShapeGroupImmSigned: "group-imm-signed",
	ShapeGroupShift1:    "group-shift-1",
	ShapeGroupShiftCL:   "group-shift-cl",
	ShapeGroupRegMem:    "group-regmem",
	ShapeGroupFar:       "group-far",
}

func (s Shape) String() string {
	if s < 0 || s >= NumShapes {
		return fmt.Sprintf("Shape(%d)", int(s))
	}

	return shapeNames[s]
}

// IsGroup reports whether the shape only appears in the group table.
func (s Shape) IsGroup() bool {
	return s >= ShapeGroupImm && s < NumShapes
}

// ParseShape converts a shape name back into a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}

	return ShapeUnknown, fmt.Errorf("unknown shape %q", name)
}
