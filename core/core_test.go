package core_test

import (
	"bytes"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/core"
	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/instr"
)

var _ = Describe("Core", func() {
	var (
		mockCtrl *gomock.Controller
		engine   sim.Engine
		c        *core.Core
	)

	load := func(buf ...byte) {
		p, err := decoder.NewBuilder().Build().Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		c.MapProgram(p)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		c = core.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Core")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run a counted loop to hlt", func() {
		load(
			0xB9, 0x03, 0x00, // mov cx, 3
			0xB8, 0x00, 0x00, // mov ax, 0
			0x05, 0x02, 0x00, // add ax, 2
			0xE2, 0xFB, // loop to add
			0xF4, // hlt
		)

		Expect(engine.Run()).To(Succeed())

		regs := c.Registers()
		Expect(regs.Get(instr.AX)).To(Equal(uint16(6)))
		Expect(regs.Get(instr.CX)).To(BeZero())
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Retired()).To(Equal(uint64(9)))
		Expect(c.Skipped()).To(BeZero())
	})

	It("should stop at the end of the program", func() {
		load(0xB3, 0x07, 0x88, 0xDF) // mov bl, 7; mov bh, bl

		Expect(engine.Run()).To(Succeed())
		Expect(c.Registers().Get(instr.BX)).To(Equal(uint16(0x0707)))
		Expect(c.Halted()).To(BeFalse())
		Expect(c.Retired()).To(Equal(uint64(2)))
	})

	It("should count skipped instructions", func() {
		load(0x89, 0x07, 0x40) // mov [bx], ax; inc ax

		Expect(engine.Run()).To(Succeed())
		Expect(c.Skipped()).To(Equal(uint64(1)))
		Expect(c.Registers().Get(instr.AX)).To(Equal(uint16(1)))
	})

	It("should stop after the step limit", func() {
		c = core.NewBuilder().
			WithEngine(engine).
			WithMaxSteps(10).
			Build("LimitedCore")
		load(0xEB, 0xFE) // jmp to itself

		Expect(engine.Run()).To(Succeed())
		Expect(c.Retired()).To(Equal(uint64(10)))
		Expect(c.Halted()).To(BeTrue())
	})

	It("should run a second program on the same core", func() {
		load(0xB8, 0x07, 0x00) // mov ax, 7
		Expect(engine.Run()).To(Succeed())
		Expect(c.Registers().Get(instr.AX)).To(Equal(uint16(7)))

		load(0xBB, 0x09, 0x00) // mov bx, 9
		Expect(engine.Run()).To(Succeed())
		Expect(c.Registers().Get(instr.BX)).To(Equal(uint16(9)))
		Expect(c.Registers().Get(instr.AX)).To(BeZero())
		Expect(c.Retired()).To(Equal(uint64(1)))
	})

	It("should not tick without a program", func() {
		c.MapProgram(instr.NewProgram())
		Expect(engine.Run()).To(Succeed())
		Expect(c.Retired()).To(BeZero())
	})

	It("should invoke hooks for every retired instruction", func() {
		hook := NewMockHook(mockCtrl)
		c.AcceptHook(hook)

		var details []core.RetireDetail
		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(core.HookPosInstRetired))
				Expect(ctx.Item).To(BeAssignableToTypeOf(instr.Inst{}))
				details = append(details, ctx.Detail.(core.RetireDetail))
			}).
			Times(3)

		load(0x90, 0x41, 0xF4) // nop; inc cx; hlt

		Expect(engine.Run()).To(Succeed())
		Expect(details).To(HaveLen(3))
		Expect(details[1].Index).To(Equal(1))
		Expect(details[1].Executed).To(BeTrue())
		Expect(details[1].Regs.Get(instr.CX)).To(Equal(uint16(1)))
	})
})

var _ = Describe("PrintRegisters", func() {
	It("should print every register", func() {
		var regs core.RegisterFile
		regs.Set(instr.AX, 6)
		regs.SetSeg(instr.DS, 0x10)

		var buf bytes.Buffer
		core.PrintRegisters(&buf, regs)

		out := buf.String()
		Expect(out).To(MatchRegexp("(?i)final registers"))
		Expect(out).To(ContainSubstring("0x0006"))
		Expect(out).To(ContainSubstring("0x0010"))
		for _, name := range []string{"ax", "bx", "sp", "di", "es", "ds"} {
			Expect(out).To(ContainSubstring(name))
		}
	})
})
