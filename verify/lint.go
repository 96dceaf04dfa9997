package verify

import (
	"fmt"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
)

// RunLint performs static lint checks on the given procedures.
// Returns a list of issues found, or empty list if no issues.
func RunLint(procs []*core.Procedure) []Issue {
	var issues []Issue

	for _, p := range procs {
		issues = append(issues, lintProcedure(p)...)
	}

	return issues
}

func lintProcedure(p *core.Procedure) []Issue {
	var issues []Issue

	entry := p.Address()
	var flat []*instr.Instruction

	for blockIdx, bb := range p.BasicBlocks() {
		insns := bb.Instructions()

		// STRUCT: Blocks are never empty
		if len(insns) == 0 {
			issues = append(issues, Issue{
				Type:      IssueStruct,
				Procedure: p.Name(),
				Block:     blockIdx,
				Message:   "Empty basic block",
			})

			continue
		}

		for idx, insn := range insns {
			isTarget := insn.IsBranchDestination && insn.Address != entry

			// STRUCT: A branch destination starts its block
			if isTarget && idx != 0 {
				issues = append(issues, Issue{
					Type:      IssueStruct,
					Procedure: p.Name(),
					Block:     blockIdx,
					Address:   insn.Address,
					Message: fmt.Sprintf("Branch destination 0x%08x is not the block leader",
						insn.Address),
					Details: map[string]interface{}{"index": idx},
				})
			}

			// STRUCT: A branch ends its block, unless it also starts one
			if insn.IsBranch && !isTarget && idx != len(insns)-1 {
				issues = append(issues, Issue{
					Type:      IssueStruct,
					Procedure: p.Name(),
					Block:     blockIdx,
					Address:   insn.Address,
					Message: fmt.Sprintf("Branch 0x%08x is followed by %d instructions",
						insn.Address, len(insns)-1-idx),
					Details: map[string]interface{}{"index": idx},
				})
			}

			// STRUCT: The procedure owns every instruction
			if insn.Owner() != instr.Owner(p) {
				issues = append(issues, Issue{
					Type:      IssueStruct,
					Procedure: p.Name(),
					Block:     blockIdx,
					Address:   insn.Address,
					Message:   fmt.Sprintf("Instruction 0x%08x has another owner", insn.Address),
				})
			}
		}

		flat = append(flat, insns...)
	}

	// STRUCT: The blocks cover the instructions in order
	if idx, ok := sameSequence(flat, p.Instructions()); !ok {
		issues = append(issues, Issue{
			Type:      IssueStruct,
			Procedure: p.Name(),
			Block:     -1,
			Message:   fmt.Sprintf("Blocks diverge from the instruction stream at index %d", idx),
			Details: map[string]interface{}{
				"blocks":       len(flat),
				"instructions": len(p.Instructions()),
			},
		})
	}

	// LEAF: Leafness follows from the calls
	calls := 0
	for _, insn := range p.Instructions() {
		if insn.IsFunctionCall {
			calls++
		}
	}
	if p.IsLeaf() != (calls == 0) {
		issues = append(issues, Issue{
			Type:      IssueLeaf,
			Procedure: p.Name(),
			Block:     -1,
			Message: fmt.Sprintf("Procedure is marked leaf=%t but makes %d calls",
				p.IsLeaf(), calls),
			Details: map[string]interface{}{"calls": calls},
		})
	}

	return issues
}

// sameSequence compares two instruction sequences by identity and returns
// the first index where they differ.
func sameSequence(a, b []*instr.Instruction) (int, bool) {
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			return i, false
		}
	}

	if len(a) != len(b) {
		return len(a), false
	}

	return 0, true
}
