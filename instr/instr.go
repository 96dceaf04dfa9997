// Package instr defines the decoded MIPS instruction model consumed by the
// translator core.
package instr

import "fmt"

// Owner is the procedure an instruction belongs to.
type Owner interface {
	Name() string
}

// Instruction is one decoded operation at a fixed address.
//
// The register fields follow the MIPS encoding. For sw and lw, Rs is the base
// (address) register and Rt is the stored or loaded register. Rd is the
// destination of R-type operations.
type Instruction struct {
	Address uint32
	Opcode  Opcode
	Rs      Register
	Rt      Register
	Rd      Register
	// Extra holds the immediate, the memory offset or the branch target.
	Extra int32

	IsBranch            bool
	IsBranchDestination bool
	IsFunctionCall      bool
	IsReturn            bool

	nullified bool
	owner     Owner
}

// New creates an instruction and derives the control-flow flags that follow
// from the opcode alone. IsBranchDestination depends on the other
// instructions and is left to the caller.
func New(address uint32, op Opcode, rs, rt, rd Register, extra int32) *Instruction {
	i := &Instruction{
		Address: address,
		Opcode:  op,
		Rs:      rs,
		Rt:      rt,
		Rd:      rd,
		Extra:   extra,
	}

	switch op {
	case OpBeq, OpBne, OpJ:
		i.IsBranch = true
	case OpJr:
		i.IsBranch = true
		i.IsReturn = rs == RA
	case OpJal, OpJalr:
		i.IsFunctionCall = true
	}

	return i
}

// Nullify suppresses code generation for the instruction. The instruction
// stays in its block so address based passes still see it.
func (i *Instruction) Nullify() {
	i.nullified = true
}

// IsNullified reports whether Nullify has been called.
func (i *Instruction) IsNullified() bool {
	return i.nullified
}

// BindOwner records the procedure that owns the instruction. It may only be
// called once, while the procedure is being built.
func (i *Instruction) BindOwner(o Owner) {
	if i.owner != nil {
		panic(fmt.Sprintf("instruction 0x%08x already owned by %s",
			i.Address, i.owner.Name()))
	}

	i.owner = o
}

// Owner returns the owning procedure, or nil before partitioning.
func (i *Instruction) Owner() Owner {
	return i.owner
}

// Reads reports whether the instruction can read register r.
func (i *Instruction) Reads(r Register) bool {
	info, ok := i.Opcode.Info()
	if !ok {
		// Unknown opcodes are assumed to read everything.
		return true
	}

	if info.Usage.Has(ReadsRs) && i.Rs == r {
		return true
	}

	return info.Usage.Has(ReadsRt) && i.Rt == r
}

// IsStackStore reports a store of a caller-saved register to the stack.
func (i *Instruction) IsStackStore() bool {
	return i.Opcode == OpSw && IsCallerSaved(i.Rt) && i.Rs == StackPointer
}

// IsStackLoad reports a reload of a caller-saved register from the stack.
func (i *Instruction) IsStackLoad() bool {
	return i.Opcode == OpLw && IsCallerSaved(i.Rt) && i.Rs == StackPointer
}

// IsStackLoadOf reports a stack reload into register r.
func (i *Instruction) IsStackLoadOf(r Register) bool {
	return i.IsStackLoad() && i.Rt == r
}

// ByteCodeSize is the estimated size of the lowered instruction. Nullified
// instructions have no size.
func (i *Instruction) ByteCodeSize() int {
	if i.nullified {
		return 0
	}

	info, ok := i.Opcode.Info()
	if !ok {
		return 0
	}

	return info.Size
}

func (i *Instruction) String() string {
	return fmt.Sprintf("0x%08x: %s", i.Address, i.Disassemble())
}

// Disassemble renders the instruction in assembler syntax.
func (i *Instruction) Disassemble() string {
	switch i.Opcode {
	case OpNop, OpSyscall:
		return string(i.Opcode)
	case OpSw, OpLw:
		return fmt.Sprintf("%s %s, %d(%s)", i.Opcode, i.Rt, i.Extra, i.Rs)
	case OpLui:
		return fmt.Sprintf("%s %s, 0x%x", i.Opcode, i.Rt, uint32(i.Extra)&0xffff)
	case OpAddiu, OpAndi, OpOri:
		return fmt.Sprintf("%s %s, %s, %d", i.Opcode, i.Rt, i.Rs, i.Extra)
	case OpBeq, OpBne:
		return fmt.Sprintf("%s %s, %s, 0x%x", i.Opcode, i.Rs, i.Rt, uint32(i.Extra))
	case OpJ, OpJal:
		return fmt.Sprintf("%s 0x%x", i.Opcode, uint32(i.Extra))
	case OpJr:
		return fmt.Sprintf("%s %s", i.Opcode, i.Rs)
	case OpJalr:
		return fmt.Sprintf("%s %s, %s", i.Opcode, i.Rd, i.Rs)
	default:
		return fmt.Sprintf("%s %s, %s, %s", i.Opcode, i.Rd, i.Rs, i.Rt)
	}
}

// BranchTarget returns the destination address of a direct branch or call.
func (i *Instruction) BranchTarget() (uint32, bool) {
	switch i.Opcode {
	case OpBeq, OpBne, OpJ, OpJal:
		return uint32(i.Extra), true
	default:
		return 0, false
	}
}
