package core_test

import (
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
)

var _ = Describe("Procedure compilation", func() {
	var (
		mockCtrl *gomock.Controller
		emitter  *MockEmitter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		emitter = NewMockEmitter(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should emit the blocks in order and skip nullified instructions", func() {
		store := stackStore(0x1000, instr.S0)
		body := addu(0x1004, instr.V0, instr.A0, instr.A1)
		branch := beq(0x1008, 0x1010)
		exit := destination(ret(0x1010))

		p := core.NewProcedureBuilder().
			WithEmitter(emitter).
			Build("f", []*instr.Instruction{store, body, branch, exit})
		Expect(store.IsNullified()).To(BeTrue())

		gomock.InOrder(
			emitter.EXPECT().BeginBlock(uint32(0x1000)),
			emitter.EXPECT().EmitInstruction(body),
			emitter.EXPECT().EmitInstruction(branch),
			emitter.EXPECT().BeginBlock(uint32(0x1010)),
			emitter.EXPECT().EmitInstruction(exit),
		)

		Expect(p.Compile()).To(Succeed())
	})

	It("should stop at the first failing block", func() {
		failure := errors.New("unsupported")
		first := beq(0x1000, 0x1008)
		second := nop(0x1004)

		p := debugBuilder().
			WithEmitter(emitter).
			Build("g", []*instr.Instruction{first, second, destination(ret(0x1008))})

		gomock.InOrder(
			emitter.EXPECT().BeginBlock(uint32(0x1000)),
			emitter.EXPECT().EmitInstruction(first),
			emitter.EXPECT().BeginBlock(uint32(0x1004)),
			emitter.EXPECT().EmitInstruction(second).Return(failure),
		)

		err := p.Compile()
		Expect(err).To(MatchError(failure))
		Expect(err.Error()).To(Equal("g: 0x00001004: unsupported"))
	})

	It("should fail when a block cannot be started", func() {
		failure := errors.New("no labels left")

		p := debugBuilder().
			WithEmitter(emitter).
			Build("h", []*instr.Instruction{ret(0x1000)})

		emitter.EXPECT().BeginBlock(uint32(0x1000)).Return(failure)

		Expect(p.Compile()).To(MatchError(failure))
	})

	It("should require an emitter", func() {
		p := debugBuilder().Build("orphan", []*instr.Instruction{ret(0x1000)})

		Expect(p.Compile()).To(MatchError(core.ErrNoEmitter))
	})
})
