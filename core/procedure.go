// Package core turns the decoded instructions of a procedure into basic
// blocks, removes the stack spill code the target does not need, and drives
// block level code emission.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/cibyl/config"
	"github.com/sarchlab/cibyl/instr"
)

// ErrNoEmitter is returned by Compile when the procedure was built without
// an emitter.
var ErrNoEmitter = errors.New("no emitter")

// HookPosNullify marks the point where the optimizer nullifies an
// instruction. The hook item is the *instr.Instruction.
var HookPosNullify = &sim.HookPos{Name: "Nullify"}

// Procedure is the unit of translation.
type Procedure struct {
	*sim.HookableBase
	codeBlock

	name                 string
	cfg                  config.Config
	basicBlocks          []*BasicBlock
	isLeaf               bool
	destinationRegisters []instr.Register
	emitter              Emitter
}

// Name returns the symbol name of the procedure.
func (p *Procedure) Name() string {
	return p.name
}

// IsLeaf reports whether the procedure calls no other procedure.
func (p *Procedure) IsLeaf() bool {
	return p.isLeaf
}

// BasicBlocks returns the blocks in address order. The first block holds the
// entry instruction.
func (p *Procedure) BasicBlocks() []*BasicBlock {
	return p.basicBlocks
}

// DestinationRegisters returns the registers the procedure hands back to its
// caller.
func (p *Procedure) DestinationRegisters() []instr.Register {
	return p.destinationRegisters
}

// Config returns the configuration the procedure was built with.
func (p *Procedure) Config() config.Config {
	return p.cfg
}

// Size is the sum of the block sizes.
func (p *Procedure) Size() int {
	size := 0
	for _, bb := range p.basicBlocks {
		size += bb.Size()
	}

	return size
}

// Labels returns the leader addresses of all blocks.
func (p *Procedure) Labels() []uint32 {
	labels := make([]uint32, 0, len(p.basicBlocks))
	for _, bb := range p.basicBlocks {
		labels = append(labels, bb.Labels()...)
	}

	return labels
}

// ReturnBlocks returns the blocks that end the procedure, in block order.
func (p *Procedure) ReturnBlocks() []*BasicBlock {
	var out []*BasicBlock
	for _, bb := range p.basicBlocks {
		if bb.IsReturnBlock() {
			out = append(out, bb)
		}
	}

	return out
}

// Compile emits all blocks in order. The first failing block aborts the
// compilation; blocks emitted before it are not rolled back.
func (p *Procedure) Compile() error {
	if p.emitter == nil {
		return fmt.Errorf("%s: %w", p.name, ErrNoEmitter)
	}

	for _, bb := range p.basicBlocks {
		if err := bb.Compile(p.emitter); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}

	return nil
}

func (p *Procedure) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s(%d):\n", p.name, p.Size())
	for _, bb := range p.basicBlocks {
		sb.WriteString(bb.String())
	}

	return sb.String()
}

// partition splits the instructions into basic blocks, binds every
// instruction to p and records whether p is a leaf.
//
// A branch ends its block. A branch destination starts a new block, unless
// it is the procedure entry, which starts the first block anyway.
func (p *Procedure) partition(isReturn ReturnClassifier) {
	entry := p.Address()
	p.isLeaf = true

	var pending []*instr.Instruction
	for _, insn := range p.instructions {
		pending = append(pending, insn)

		startsBlock := insn.IsBranchDestination && insn.Address != entry
		if insn.IsBranch || startsBlock {
			if startsBlock {
				pending = pending[:len(pending)-1]
			}

			if len(pending) > 0 {
				p.basicBlocks = append(p.basicBlocks, newBasicBlock(pending, isReturn))
			}

			pending = nil
			if startsBlock {
				pending = append(pending, insn)
			}
		}

		if insn.IsFunctionCall {
			p.isLeaf = false
		}

		insn.BindOwner(p)
	}

	if len(pending) > 0 {
		p.basicBlocks = append(p.basicBlocks, newBasicBlock(pending, isReturn))
	}
}
