package core

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cibyl/instr"
)

// Emitter receives the code of the basic blocks, one block at a time.
type Emitter interface {
	// BeginBlock starts a block whose first instruction is at leader.
	BeginBlock(leader uint32) error
	// EmitInstruction lowers one instruction.
	EmitInstruction(insn *instr.Instruction) error
}

// ReturnClassifier decides whether a run of instructions ends the procedure.
type ReturnClassifier func(instructions []*instr.Instruction) bool

// ContainsReturn is the default ReturnClassifier. It accepts any block that
// holds a return instruction.
func ContainsReturn(instructions []*instr.Instruction) bool {
	for _, insn := range instructions {
		if insn.IsReturn {
			return true
		}
	}

	return false
}

// BasicBlock is a straight-line run of instructions with a single entry and
// a single exit.
type BasicBlock struct {
	codeBlock

	isReturnBlock bool
}

func newBasicBlock(
	instructions []*instr.Instruction,
	isReturn ReturnClassifier,
) *BasicBlock {
	if len(instructions) == 0 {
		panic("basic blocks cannot be empty")
	}

	bb := &BasicBlock{}
	bb.instructions = instructions
	bb.isReturnBlock = isReturn(instructions)

	return bb
}

// IsReturnBlock reports whether the block ends the procedure.
func (bb *BasicBlock) IsReturnBlock() bool {
	return bb.isReturnBlock
}

// Labels returns the leader address of the block.
func (bb *BasicBlock) Labels() []uint32 {
	return []uint32{bb.Address()}
}

// Compile lowers the block through the emitter. Nullified instructions are
// skipped.
func (bb *BasicBlock) Compile(e Emitter) error {
	if err := e.BeginBlock(bb.Address()); err != nil {
		return err
	}

	for _, insn := range bb.instructions {
		if insn.IsNullified() {
			continue
		}

		if err := e.EmitInstruction(insn); err != nil {
			return fmt.Errorf("0x%08x: %w", insn.Address, err)
		}
	}

	return nil
}

func (bb *BasicBlock) String() string {
	var sb strings.Builder

	kind := ""
	if bb.isReturnBlock {
		kind = " return"
	}
	fmt.Fprintf(&sb, "  L_%x(%d)%s:\n", bb.Address(), bb.Size(), kind)
	bb.render(&sb)

	return sb.String()
}
