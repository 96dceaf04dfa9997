package core_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
	valgen "github.com/sarchlab/cibyl/util"
)

var _ = Describe("Procedure partitioning", func() {
	It("should split after a branch and before its destination", func() {
		insns := []*instr.Instruction{
			stackStore(0x1000, instr.S0),
			addu(0x1004, instr.V0, instr.A0, instr.A1),
			beq(0x1008, 0x1010),
			destination(stackLoad(0x1010, instr.S0)),
		}

		p := debugBuilder().Build("scenario", insns)

		Expect(blockAddresses(p)).To(Equal([][]uint32{
			{0x1000, 0x1004, 0x1008},
			{0x1010},
		}))
		Expect(p.IsLeaf()).To(BeTrue())
		Expect(p.Address()).To(Equal(uint32(0x1000)))
	})

	It("should not split off an entry instruction that is a branch destination", func() {
		insns := []*instr.Instruction{
			destination(addu(0x2000, instr.V0, instr.A0, instr.A1)),
			addu(0x2004, instr.V0, instr.V0, instr.A2),
			ret(0x2008),
		}

		p := debugBuilder().Build("loop", insns)

		Expect(blockAddresses(p)).To(Equal([][]uint32{
			{0x2000, 0x2004, 0x2008},
		}))
	})

	It("should start a block at a destination in the middle", func() {
		insns := []*instr.Instruction{
			nop(0x1000),
			nop(0x1004),
			destination(nop(0x1008)),
			nop(0x100c),
		}

		p := debugBuilder().Build("fallthrough", insns)

		Expect(blockAddresses(p)).To(Equal([][]uint32{
			{0x1000, 0x1004},
			{0x1008, 0x100c},
		}))
	})

	It("should not create empty blocks for consecutive branches and destinations", func() {
		insns := []*instr.Instruction{
			beq(0x1000, 0x1008),
			destination(beq(0x1004, 0x1000)),
			destination(nop(0x1008)),
			destination(ret(0x100c)),
		}

		p := debugBuilder().Build("dense", insns)

		for _, bb := range p.BasicBlocks() {
			Expect(bb.Instructions()).NotTo(BeEmpty())
		}
		Expect(blockAddresses(p)).To(Equal([][]uint32{
			{0x1000},
			{0x1004},
			{0x1008},
			{0x100c},
		}))
	})

	It("should let a branch that is also a destination open the next block", func() {
		insns := []*instr.Instruction{
			nop(0x1000),
			destination(beq(0x1004, 0x1004)),
			nop(0x1008),
		}

		p := debugBuilder().Build("self", insns)

		Expect(blockAddresses(p)).To(Equal([][]uint32{
			{0x1000},
			{0x1004, 0x1008},
		}))
	})

	It("should keep a procedure without control flow in one block", func() {
		p := debugBuilder().Build("straight", []*instr.Instruction{
			nop(0x1000), nop(0x1004), nop(0x1008),
		})

		Expect(p.BasicBlocks()).To(HaveLen(1))
		Expect(p.Labels()).To(Equal([]uint32{0x1000}))
	})

	It("should bind every instruction to the procedure", func() {
		insns := []*instr.Instruction{nop(0x1000), beq(0x1004, 0x1000), nop(0x1008)}

		p := debugBuilder().Build("owner", insns)

		for _, insn := range insns {
			Expect(insn.Owner()).To(BeIdenticalTo(p))
		}
	})

	It("should refuse to take instructions owned by another procedure", func() {
		insns := []*instr.Instruction{nop(0x1000)}
		debugBuilder().Build("first", insns)

		Expect(func() { debugBuilder().Build("second", insns) }).To(Panic())
	})

	It("should refuse an empty instruction stream", func() {
		Expect(func() { debugBuilder().Build("empty", nil) }).To(Panic())
	})

	Context("leafness", func() {
		It("should classify a procedure without calls as a leaf", func() {
			p := debugBuilder().Build("leaf", []*instr.Instruction{
				nop(0x1000), beq(0x1004, 0x1000), ret(0x1008),
			})
			Expect(p.IsLeaf()).To(BeTrue())
		})

		It("should classify any call as non-leaf regardless of its block", func() {
			p := debugBuilder().Build("caller", []*instr.Instruction{
				nop(0x1000), beq(0x1004, 0x1010), destination(nop(0x1008)),
				jal(0x100c, 0x4000), destination(ret(0x1010)),
			})
			Expect(p.IsLeaf()).To(BeFalse())
		})
	})

	Context("on random instruction streams", func() {
		var rng *rand.Rand

		BeforeEach(func() {
			rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		})

		randomStream := func() []*instr.Instruction {
			n := 1 + rng.Intn(40)
			nextAddress := valgen.MakeAddressGen(0x1000)
			insns := make([]*instr.Instruction, n)
			for i := range insns {
				insn := nop(nextAddress())
				insn.IsBranch = rng.Intn(4) == 0
				insn.IsBranchDestination = rng.Intn(4) == 0
				insn.IsFunctionCall = rng.Intn(10) == 0
				insns[i] = insn
			}
			return insns
		}

		It("should preserve the instructions, their order and non-empty blocks", func() {
			for iter := 0; iter < 200; iter++ {
				insns := randomStream()
				entry := insns[0].Address
				p := debugBuilder().Build("random", insns)

				var flat []*instr.Instruction
				for _, bb := range p.BasicBlocks() {
					Expect(bb.Instructions()).NotTo(BeEmpty())
					flat = append(flat, bb.Instructions()...)

					for j, insn := range bb.Instructions() {
						isTarget := insn.IsBranchDestination && insn.Address != entry
						if isTarget {
							Expect(j).To(Equal(0), "destination 0x%x must lead its block", insn.Address)
						}
						if insn.IsBranch && !isTarget {
							Expect(j).To(Equal(len(bb.Instructions())-1),
								"branch 0x%x must end its block", insn.Address)
						}
					}
				}
				Expect(flat).To(Equal(insns))

				calls := false
				for _, insn := range insns {
					calls = calls || insn.IsFunctionCall
				}
				Expect(p.IsLeaf()).To(Equal(!calls))
			}
		})
	})
})

var _ = Describe("Procedure rendering", func() {
	It("should print the name, the size and the blocks", func() {
		p := core.NewProcedureBuilder().Build("add", []*instr.Instruction{
			addu(0x2000, instr.V0, instr.A0, instr.A1),
			ret(0x2004),
		})

		Expect(p.Size()).To(Equal(7))
		Expect(p.String()).To(Equal("add(7):\n" +
			"  L_2000(7) return:\n" +
			"\t0x00002000: addu v0, a0, a1\n" +
			"\t0x00002004: jr ra\n"))
	})

	It("should mark nullified instructions and exclude them from the size", func() {
		p := core.NewProcedureBuilder().Build("spill", []*instr.Instruction{
			stackStore(0x3000, instr.S0),
			ret(0x3004),
		})

		Expect(p.Size()).To(Equal(3))
		Expect(p.String()).To(ContainSubstring("sw s0, 16(sp) (nullified)"))
	})
})

var _ = Describe("Return blocks", func() {
	It("should list the blocks holding a return in block order", func() {
		p := debugBuilder().Build("two-exits", []*instr.Instruction{
			beq(0x1000, 0x1008),
			ret(0x1004),
			destination(nop(0x1008)),
			ret(0x100c),
		})

		blocks := p.ReturnBlocks()
		Expect(blocks).To(HaveLen(2))
		Expect(blocks[0].Address()).To(Equal(uint32(0x1004)))
		Expect(blocks[1].Address()).To(Equal(uint32(0x1008)))
		Expect(p.ReturnBlocks()).To(Equal(blocks))
	})

	It("should use the classifier it was built with", func() {
		p := debugBuilder().
			WithReturnClassifier(func(insns []*instr.Instruction) bool {
				return insns[0].Address == 0x1004
			}).
			Build("custom", []*instr.Instruction{
				beq(0x1000, 0x1004),
				destination(nop(0x1004)),
			})

		Expect(p.ReturnBlocks()).To(HaveLen(1))
		Expect(p.ReturnBlocks()[0].Address()).To(Equal(uint32(0x1004)))
	})
})
