package core

import (
	"strings"

	"github.com/sarchlab/cibyl/instr"
)

// CodeBlock is the bookkeeping shared by procedures and basic blocks.
type CodeBlock interface {
	// Address returns the address of the first instruction.
	Address() uint32
	// Size returns the estimated bytecode size of the emitted code.
	Size() int
	// Labels returns the addresses that need a label in the output.
	Labels() []uint32
	String() string
}

// codeBlock holds an ordered run of instructions.
type codeBlock struct {
	instructions []*instr.Instruction
}

func (c *codeBlock) Address() uint32 {
	return c.instructions[0].Address
}

func (c *codeBlock) Size() int {
	size := 0
	for _, insn := range c.instructions {
		size += insn.ByteCodeSize()
	}

	return size
}

// Instructions returns the instructions in address order. The slice is
// shared and must not be modified.
func (c *codeBlock) Instructions() []*instr.Instruction {
	return c.instructions
}

func (c *codeBlock) render(sb *strings.Builder) {
	for _, insn := range c.instructions {
		sb.WriteString("\t")
		sb.WriteString(insn.String())
		if insn.IsNullified() {
			sb.WriteString(" (nullified)")
		}
		sb.WriteString("\n")
	}
}
