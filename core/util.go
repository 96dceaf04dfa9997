package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/cibyl/instr"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// nullifyLogger reports every instruction the optimizer removes.
type nullifyLogger struct{}

func (nullifyLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosNullify {
		return
	}

	insn, ok := ctx.Item.(*instr.Instruction)
	if !ok {
		return
	}

	owner := ""
	if insn.Owner() != nil {
		owner = insn.Owner().Name()
	}

	Trace("Removing",
		"Procedure", owner,
		"Address", fmt.Sprintf("0x%08x", insn.Address),
		"Instruction", insn.Disassemble(),
	)
}

// PrintProcedure renders the blocks of p as a table.
func PrintProcedure(w io.Writer, p *Procedure) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s (size %d, leaf %t)", p.Name(), p.Size(), p.IsLeaf()))
	t.AppendHeader(table.Row{"Block", "Address", "Instruction", "Size", "Flags"})

	for i, bb := range p.BasicBlocks() {
		for j, insn := range bb.Instructions() {
			block := ""
			if j == 0 {
				block = fmt.Sprintf("%d", i)
				if bb.IsReturnBlock() {
					block += " (ret)"
				}
			}

			t.AppendRow(table.Row{
				block,
				fmt.Sprintf("0x%08x", insn.Address),
				insn.Disassemble(),
				insn.ByteCodeSize(),
				flags(insn),
			})
		}
		t.AppendSeparator()
	}

	t.Render()
}

func LogProcedure(p *Procedure) {
	slog.Debug("Procedure",
		"Name", p.Name(),
		"Address", fmt.Sprintf("0x%08x", p.Address()),
		"Size", p.Size(),
		"Leaf", p.IsLeaf(),
		"Blocks", len(p.BasicBlocks()),
		"ReturnBlocks", len(p.ReturnBlocks()),
	)
}

func flags(insn *instr.Instruction) string {
	out := ""
	add := func(set bool, s string) {
		if !set {
			return
		}
		if out != "" {
			out += ","
		}
		out += s
	}

	add(insn.IsBranch, "branch")
	add(insn.IsBranchDestination, "target")
	add(insn.IsFunctionCall, "call")
	add(insn.IsReturn, "return")
	add(insn.IsNullified(), "nullified")

	return out
}
