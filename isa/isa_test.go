package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/isa"
)

var _ = Describe("Table", func() {
	var t *isa.Table

	BeforeEach(func() {
		t = isa.Default()
	})

	It("should answer every opcode byte", func() {
		for b := 0; b < 256; b++ {
			tmpl := t.Lookup(byte(b))
			Expect(tmpl.Shape).To(BeNumerically("<", isa.NumShapes))
			Expect(tmpl.Shape.IsGroup()).To(BeFalse())
		}
	})

	It("should return the same default table twice", func() {
		Expect(isa.Default()).To(BeIdenticalTo(t))
		Expect(t.Name()).To(Equal("intel-8086"))
	})

	DescribeTable("primary lookups",
		func(b byte, mnemonic string, shape isa.Shape) {
			tmpl := t.Lookup(b)
			Expect(tmpl.Mnemonic).To(Equal(mnemonic))
			Expect(tmpl.Shape).To(Equal(shape))
		},
		Entry("mov r/m, reg", byte(0x89), "mov", isa.ShapeRegMemReg),
		Entry("mov reg, imm", byte(0xB8), "mov", isa.ShapeImmReg),
		Entry("mov r/m, imm", byte(0xC7), "mov", isa.ShapeImmRegMem),
		Entry("mov al, [addr]", byte(0xA0), "mov", isa.ShapeMemAcc),
		Entry("mov [addr], ax", byte(0xA3), "mov", isa.ShapeAccMem),
		Entry("mov sr, r/m", byte(0x8E), "mov", isa.ShapeRegMemSR),
		Entry("mov r/m, sr", byte(0x8C), "mov", isa.ShapeSRRegMem),
		Entry("add al, imm", byte(0x04), "add", isa.ShapeImmAcc),
		Entry("cmp r/m, reg", byte(0x3B), "cmp", isa.ShapeRegMemReg),
		Entry("push es", byte(0x06), "push", isa.ShapeSR),
		Entry("pop ds", byte(0x1F), "pop", isa.ShapeSR),
		Entry("push di", byte(0x57), "push", isa.ShapeReg),
		Entry("xchg ax, cx", byte(0x91), "xchg", isa.ShapeRegAcc),
		Entry("nop", byte(0x90), "nop", isa.ShapeSingleByte),
		Entry("in al, dx", byte(0xEC), "in", isa.ShapeVariablePort),
		Entry("out imm8, ax", byte(0xE7), "out", isa.ShapeFixedPort),
		Entry("lea", byte(0x8D), "lea", isa.ShapeLoadAddr),
		Entry("jnz", byte(0x75), "jnz", isa.ShapeJmp),
		Entry("jcxz", byte(0xE3), "jcxz", isa.ShapeJmp),
		Entry("daa", byte(0x27), "daa", isa.ShapeSingleByte),
		Entry("cs prefix", byte(0x2E), "segment", isa.ShapeSegmentPrefix),
		Entry("hlt", byte(0xF4), "hlt", isa.ShapeSingleByte),
	)

	It("should not map pop cs", func() {
		Expect(t.Lookup(0x0F)).To(Equal(isa.Unknown))
	})

	It("should leave unassigned bytes unknown", func() {
		for _, b := range []byte{0x60, 0x6F, 0xD6, 0xF1, 0xC8} {
			Expect(t.Lookup(b).Shape).To(Equal(isa.ShapeUnknown))
		}
	})

	DescribeTable("group indirection",
		func(opcode byte, sel byte, mnemonic string, shape isa.Shape) {
			primary := t.Lookup(opcode)
			Expect(primary.Shape).To(Equal(isa.ShapeSpecial))
			Expect(primary.HasGroup()).To(BeTrue())

			tmpl := t.LookupGroup(primary.Group, sel)
			Expect(tmpl.Mnemonic).To(Equal(mnemonic))
			Expect(tmpl.Shape).To(Equal(shape))
		},
		Entry("add r/m, imm", byte(0x81), byte(0), "add", isa.ShapeGroupImmSigned),
		Entry("cmp r/m, imm8", byte(0x83), byte(7), "cmp", isa.ShapeGroupImmSigned),
		Entry("shl r/m, 1", byte(0xD1), byte(4), "shl", isa.ShapeGroupShift1),
		Entry("sar r/m, cl", byte(0xD2), byte(7), "sar", isa.ShapeGroupShiftCL),
		Entry("test r/m, imm", byte(0xF7), byte(0), "test", isa.ShapeGroupImm),
		Entry("neg r/m", byte(0xF6), byte(3), "neg", isa.ShapeGroupRegMem),
		Entry("dec r/m8", byte(0xFE), byte(1), "dec", isa.ShapeGroupRegMem),
		Entry("call far", byte(0xFF), byte(3), "call", isa.ShapeGroupFar),
		Entry("push r/m", byte(0xFF), byte(6), "push", isa.ShapeGroupRegMem),
	)

	It("should resolve holes in group rows to unknown", func() {
		Expect(t.LookupGroup(1, 1)).To(Equal(isa.Unknown))
		Expect(t.LookupGroup(5, 7)).To(Equal(isa.Unknown))
		Expect(t.LookupGroup(6, 7)).To(Equal(isa.Unknown))
	})

	It("should be total over out of range group lookups", func() {
		Expect(t.LookupGroup(-1, 0)).To(Equal(isa.Unknown))
		Expect(t.LookupGroup(isa.NumGroups, 0)).To(Equal(isa.Unknown))
		Expect(t.LookupGroup(0, 8)).To(Equal(isa.Unknown))
	})
})

var _ = Describe("NewTable", func() {
	It("should build an independent table from the embedded definition", func() {
		t, err := isa.NewTable(isa.DefaultDefinition())
		Expect(err).NotTo(HaveOccurred())
		Expect(t).NotTo(BeIdenticalTo(isa.Default()))
		Expect(*t).To(Equal(*isa.Default()))
	})

	It("should let later entries overwrite earlier ones", func() {
		def := []byte(`
instructions:
  - {name: xchg, pattern: "10010", shape: reg-acc}
  - {name: nop, pattern: "10010000", shape: single-byte}
`)
		t, err := isa.NewTable(def)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Lookup(0x90).Mnemonic).To(Equal("nop"))
		Expect(t.Lookup(0x91).Mnemonic).To(Equal("xchg"))
	})

	It("should expand wildcards and honor skip", func() {
		def := []byte(`
instructions:
  - {name: pop, pattern: "000--111", shape: sr, skip: [0x0f]}
`)
		t, err := isa.NewTable(def)
		Expect(err).NotTo(HaveOccurred())
		for _, b := range []byte{0x07, 0x17, 0x1F} {
			Expect(t.Lookup(b).Mnemonic).To(Equal("pop"))
		}
		Expect(t.Lookup(0x0F)).To(Equal(isa.Unknown))
	})

	DescribeTable("malformed definitions",
		func(def string) {
			_, err := isa.NewTable([]byte(def))
			Expect(err).To(HaveOccurred())
		},
		Entry("bad yaml", "instructions: ["),
		Entry("bad pattern character",
			`instructions: [{name: x, pattern: "10x", shape: reg}]`),
		Entry("pattern too long",
			`instructions: [{name: x, pattern: "100000000", shape: reg}]`),
		Entry("empty pattern",
			`instructions: [{name: x, pattern: "", shape: reg}]`),
		Entry("unknown shape",
			`instructions: [{name: x, pattern: "1", shape: bogus}]`),
		Entry("group shape in primary table",
			`instructions: [{name: x, pattern: "1", shape: group-imm}]`),
		Entry("special without group",
			`instructions: [{pattern: "1", shape: special}]`),
		Entry("special with group out of range",
			`instructions: [{pattern: "1", shape: special, group: 7}]`),
		Entry("short group row", "groups: [[{name: add, shape: group-imm}]]"),
		Entry("primary shape in group row",
			"groups: [[{name: a, shape: reg}, {}, {}, {}, {}, {}, {}, {}]]"),
	)
})

var _ = Describe("Shape", func() {
	It("should round trip every name", func() {
		for s := isa.ShapeUnknown; s < isa.NumShapes; s++ {
			parsed, err := isa.ParseShape(s.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))
		}
	})

	It("should print out of range shapes numerically", func() {
		Expect(isa.Shape(99).String()).To(Equal("Shape(99)"))
	})
})
