package core

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/cibyl/instr"
)

// skipStackStores removes the caller-saved register spills of the prologue
// and, when that is provably safe, the matching reloads of the epilogues.
// The target keeps registers in locals, so the spill code only costs time.
//
// Prologue stores are removed unconditionally. Reloads are removed from
// every return block or from none.
func (p *Procedure) skipStackStores() {
	for _, insn := range p.basicBlocks[0].instructions {
		if insn.IsStackStore() {
			p.nullify(insn)
		}
	}

	returnBlocks := p.ReturnBlocks()
	if !p.safeToDropReloads(returnBlocks) {
		return
	}

	for _, bb := range returnBlocks {
		for _, insn := range bb.instructions {
			if insn.IsStackLoad() {
				p.nullify(insn)
			}
		}
	}
}

// safeToDropReloads reports whether no instruction other than the reload
// itself reads a caller-saved destination register in any of the blocks.
// Such a read could observe the value coming from the stack slot.
func (p *Procedure) safeToDropReloads(blocks []*BasicBlock) bool {
	for _, bb := range blocks {
		for _, insn := range bb.instructions {
			for _, r := range p.destinationRegisters {
				if !instr.IsCallerSaved(r) {
					continue
				}

				if !insn.IsStackLoadOf(r) && insn.Reads(r) {
					return false
				}
			}
		}
	}

	return true
}

func (p *Procedure) nullify(insn *instr.Instruction) {
	insn.Nullify()

	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    HookPosNullify,
		Item:   insn,
	})
}
