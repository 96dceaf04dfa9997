package core_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
)

var _ = Describe("PrintProcedure", func() {
	It("should print one row per instruction", func() {
		p := core.NewProcedureBuilder().Build("table", []*instr.Instruction{
			stackStore(0x1000, instr.S0),
			beq(0x1004, 0x1008),
			destination(ret(0x1008)),
		})

		var buf bytes.Buffer
		core.PrintProcedure(&buf, p)
		out := buf.String()

		Expect(out).To(ContainSubstring("table (size 8, leaf true)"))
		Expect(out).To(ContainSubstring("0x00001000"))
		Expect(out).To(ContainSubstring("sw s0, 16(sp)"))
		Expect(out).To(ContainSubstring("branch,target,return"))
		Expect(out).To(ContainSubstring("nullified"))
		Expect(out).To(ContainSubstring("1 (ret)"))
	})
})
