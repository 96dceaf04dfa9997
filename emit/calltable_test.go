package emit_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/emit"
	"github.com/sarchlab/cibyl/instr"
)

var _ = Describe("WriteCallTable", func() {
	It("should dispatch every procedure by address", func() {
		b := core.NewProcedureBuilder()
		procs := []*core.Procedure{
			b.Build("second", []*instr.Instruction{instr.New(0x2000, instr.OpJr, instr.RA, 0, 0, 0)}),
			b.Build("first", []*instr.Instruction{instr.New(0x1000, instr.OpJr, instr.RA, 0, 0, 0)}),
		}
		classes := core.PackClasses(procs, 1)

		var buf bytes.Buffer
		Expect(emit.WriteCallTable(&buf, classes)).To(Succeed())
		out := buf.String()

		Expect(out).To(HavePrefix(".class public CibylCallTable\n"))
		Expect(out).To(ContainSubstring(
			"\tlookupswitch\n\t  4096 : L_1000\n\t  8192 : L_2000\n\t  default : L_default\n"))
		Expect(out).To(ContainSubstring(
			"L_1000:\n\tiload 1\n\tiload 2\n\tiload 3\n\tiload 4\n\tiload 5\n" +
				"\tinvokestatic Cibyl1/first(IIIII)I\n\tireturn\n"))
		Expect(out).To(ContainSubstring("invokestatic Cibyl/second(IIIII)I"))
		Expect(out).To(HaveSuffix("L_default:\n\ticonst_0\n\tireturn\n.end method\n"))
	})
})
