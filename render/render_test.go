package render_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/instr"
	"github.com/sarchlab/sim8086/render"
)

func decode(buf ...byte) *instr.Program {
	p, err := decoder.NewBuilder().
		WithUnknownPolicy(decoder.RecordUnknown).
		Build().
		Decode(buf)
	Expect(err).NotTo(HaveOccurred())

	return p
}

var _ = Describe("Render", func() {
	It("should open with the width directive", func() {
		out := render.String(decode(0xB8, 0x05, 0x00))
		Expect(out).To(Equal("bits 16\n\nmov ax, 5\n"))
	})

	It("should write through a writer", func() {
		var buf bytes.Buffer
		Expect(render.Program(&buf, decode(0x89, 0xD8))).To(Succeed())
		Expect(buf.String()).To(Equal("bits 16\n\nmov ax, bx\n"))
	})

	DescribeTable("instruction text",
		func(buf []byte, want string) {
			p := decode(buf...)
			Expect(p.Insts).To(HaveLen(1))
			Expect(render.Inst(p.Insts[0])).To(Equal(want))
		},
		Entry("mov ax, bx", []byte{0x89, 0xD8}, "mov ax, bx"),
		Entry("mov bx, [4660]", []byte{0x8B, 0x1E, 0x34, 0x12}, "mov bx, [4660]"),
		Entry("mov dx, [bp]", []byte{0x8B, 0x56, 0x00}, "mov dx, [bp]"),
		Entry("mov ax, [bx + di - 1]", []byte{0x8B, 0x41, 0xFF}, "mov ax, [bx + di - 1]"),
		Entry("mov ah, [bx + si + 4]", []byte{0x8A, 0x60, 0x04}, "mov ah, [bx + si + 4]"),
		Entry("mov [si - 500], cx", []byte{0x89, 0x8C, 0x0C, 0xFE}, "mov [si - 500], cx"),
		Entry("mov word [1000], 1", []byte{0xC7, 0x06, 0xE8, 0x03, 0x01, 0x00}, "mov word [1000], 1"),
		Entry("mov byte [bp + di], 7", []byte{0xC6, 0x03, 0x07}, "mov byte [bp + di], 7"),
		Entry("mov cl, -12", []byte{0xB1, 0xF4}, "mov cl, -12"),
		Entry("mov ax, [2555]", []byte{0xA1, 0xFB, 0x09}, "mov ax, [2555]"),
		Entry("mov [2554], al", []byte{0xA2, 0xFA, 0x09}, "mov [2554], al"),
		Entry("mov ds, ax", []byte{0x8E, 0xD8}, "mov ds, ax"),
		Entry("add cx, -1", []byte{0x83, 0xC1, 0xFF}, "add cx, -1"),
		Entry("cmp byte [bx], 34", []byte{0x80, 0x3F, 0x22}, "cmp byte [bx], 34"),
		Entry("cmp ax, 1000", []byte{0x3D, 0xE8, 0x03}, "cmp ax, 1000"),
		Entry("mov ax, es:[bx]", []byte{0x26, 0x8B, 0x07}, "mov ax, es:[bx]"),
		Entry("mov word cs:[16], 5", []byte{0x2E, 0xC7, 0x06, 0x10, 0x00, 0x05, 0x00}, "mov word cs:[16], 5"),
		Entry("push ax", []byte{0x50}, "push ax"),
		Entry("push word [bp + si]", []byte{0xFF, 0x32}, "push word [bp + si]"),
		Entry("pop word [256]", []byte{0x8F, 0x06, 0x00, 0x01}, "pop word [256]"),
		Entry("push ds", []byte{0x1E}, "push ds"),
		Entry("in al, 200", []byte{0xE4, 0xC8}, "in al, 200"),
		Entry("out dx, ax", []byte{0xEF}, "out dx, ax"),
		Entry("xchg ax, cx", []byte{0x91}, "xchg ax, cx"),
		Entry("xchg ch, [bp]", []byte{0x86, 0x6E, 0x00}, "xchg ch, [bp]"),
		Entry("xchg dx, bx", []byte{0x87, 0xD3}, "xchg dx, bx"),
		Entry("lea ax, [bx + si + 2]", []byte{0x8D, 0x40, 0x02}, "lea ax, [bx + si + 2]"),
		Entry("shl ax, 1", []byte{0xD1, 0xE0}, "shl ax, 1"),
		Entry("shl byte [bx], 1", []byte{0xD0, 0x27}, "shl byte [bx], 1"),
		Entry("sar word [bx], cl", []byte{0xD3, 0x3F}, "sar word [bx], cl"),
		Entry("neg ax", []byte{0xF7, 0xD8}, "neg ax"),
		Entry("inc byte [bx]", []byte{0xFE, 0x07}, "inc byte [bx]"),
		Entry("test bl, 8", []byte{0xF6, 0xC3, 0x08}, "test bl, 8"),
		Entry("call far [4660]", []byte{0xFF, 0x1E, 0x34, 0x12}, "call far [4660]"),
		Entry("jmp far [bx]", []byte{0xFF, 0x2F}, "jmp far [bx]"),
		Entry("jmp di", []byte{0xFF, 0xE7}, "jmp di"),
		Entry("cbw", []byte{0x98}, "cbw"),
		Entry("es nop", []byte{0x26, 0x90}, "es nop"),
		Entry("db 0x0f", []byte{0x0F}, "db 0x0f"),
		Entry("db 0xfe, 0xd0", []byte{0xFE, 0xD0}, "db 0xfe, 0xd0"),
	)

	It("should never print a sign before a negative displacement twice", func() {
		line := render.Inst(decode(0x8B, 0x46, 0xFF).Insts[0])
		Expect(line).To(Equal("mov ax, [bp - 1]"))
		Expect(line).NotTo(ContainSubstring("+ 255"))
		Expect(line).NotTo(ContainSubstring("+ -1"))
	})

	It("should place labels before jump targets", func() {
		out := render.String(decode(
			0xB9, 0x03, 0x00, // mov cx, 3
			0x49,       // dec cx
			0x90,       // nop
			0x75, 0xFC, // jnz to dec cx
		))

		Expect(out).To(Equal(strings.Join([]string{
			"bits 16",
			"",
			"mov cx, 3",
			"label0:",
			"dec cx",
			"nop",
			"jnz label0",
			"",
		}, "\n")))
	})

	It("should number labels by first reference", func() {
		lines := render.Lines(decode(0xEB, 0x02, 0xEB, 0xFC, 0x90, 0xE2, 0xF9))
		Expect(lines).To(Equal([]string{
			"label1:",
			"jmp label0",
			"jmp label1",
			"label0:",
			"nop",
			"loop label1",
		}))
	})

	It("should print unresolved jumps relative to the instruction", func() {
		p, err := decoder.NewBuilder().Build().Scan([]byte{0x75, 0xFC})
		Expect(err).NotTo(HaveOccurred())
		Expect(render.Inst(p.Insts[0])).To(Equal("jnz $-2"))
	})
})
