// Package emit lowers basic blocks to Jasmin style assembler text.
//
// Every MIPS register lives in the local variable with the same number.
// Memory, calls and system calls go through runtime helper classes.
package emit

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
)

const (
	runtimeClass = "CRunTime"
	syscallClass = "CibylSyscalls"
	methodSig    = "(IIIII)I"
	stackLimit   = 8
)

var (
	// ErrUnsupported is returned for instructions that have no lowering.
	ErrUnsupported = errors.New("unsupported instruction")
	// ErrNoMethod is returned when code is emitted outside of a method.
	ErrNoMethod = errors.New("no method in progress")
)

// Writer is a core.Emitter that writes assembler text. A single Writer can
// serve all procedures of a program: point it at the class file with Reset,
// then emit one method at a time.
type Writer struct {
	out    io.Writer
	method string
	labels *LabelTable

	lowerings map[instr.Opcode]func(*instr.Instruction) error
}

var _ core.Emitter = (*Writer)(nil)

// NewWriter creates a Writer that writes to out.
func NewWriter(out io.Writer) *Writer {
	w := &Writer{out: out}

	w.lowerings = map[instr.Opcode]func(*instr.Instruction) error{
		instr.OpNop:     func(*instr.Instruction) error { return nil },
		instr.OpAddu:    w.binary("iadd"),
		instr.OpSubu:    w.binary("isub"),
		instr.OpAnd:     w.binary("iand"),
		instr.OpOr:      w.binary("ior"),
		instr.OpXor:     w.binary("ixor"),
		instr.OpSlt:     w.compare("slt"),
		instr.OpSltu:    w.compare("sltu"),
		instr.OpAddiu:   w.immediate("iadd"),
		instr.OpAndi:    w.immediate("iand"),
		instr.OpOri:     w.immediate("ior"),
		instr.OpLui:     w.lowerLui,
		instr.OpSw:      w.lowerSw,
		instr.OpLw:      w.lowerLw,
		instr.OpBeq:     w.branch("if_icmpeq"),
		instr.OpBne:     w.branch("if_icmpne"),
		instr.OpJ:       w.lowerJ,
		instr.OpJal:     w.lowerCall,
		instr.OpJalr:    w.lowerCall,
		instr.OpJr:      w.lowerJr,
		instr.OpSyscall: w.lowerSyscall,
	}

	return w
}

// Reset redirects the output. A method in progress is abandoned.
func (w *Writer) Reset(out io.Writer) {
	w.out = out
	w.method = ""
	w.labels = nil
}

// BeginClass writes the class header.
func (w *Writer) BeginClass(name string) error {
	return w.printf(".class public %s\n.super java/lang/Object\n\n", name)
}

// BeginMethod starts the method that holds the code of one procedure.
func (w *Writer) BeginMethod(name string, leaf bool) error {
	if w.method != "" {
		return fmt.Errorf("method %s is still open", w.method)
	}

	w.method = name
	w.labels = NewLabelTable()

	kind := "non-leaf"
	if leaf {
		kind = "leaf"
	}

	return w.printf(".method public static %s%s ; %s\n"+
		"\t.limit locals %d\n\t.limit stack %d\n",
		name, methodSig, kind, instr.NumRegisters, stackLimit)
}

// EndMethod closes the current method. Branches to labels that no block of
// the method defined are reported.
func (w *Writer) EndMethod() error {
	if w.method == "" {
		return ErrNoMethod
	}

	name := w.method
	undefined := w.labels.Undefined()
	w.method = ""
	w.labels = nil

	if len(undefined) > 0 {
		return fmt.Errorf("method %s: branch to undefined label %s",
			name, undefined[0])
	}

	return w.printf(".end method\n\n")
}

// BeginBlock places the label of a block leader.
func (w *Writer) BeginBlock(leader uint32) error {
	if w.method == "" {
		return ErrNoMethod
	}

	return w.printf("%s:\n", w.labels.Define(leader))
}

// EmitInstruction lowers one instruction into the current method.
func (w *Writer) EmitInstruction(insn *instr.Instruction) error {
	if w.method == "" {
		return ErrNoMethod
	}

	if insn.IsNullified() {
		return nil
	}

	lower, ok := w.lowerings[insn.Opcode]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, insn.Disassemble())
	}

	return lower(insn)
}

// WriteClass writes a class with one method per procedure. The procedures
// must have been built with w as their emitter.
func (w *Writer) WriteClass(out io.Writer, class core.Class) error {
	w.Reset(out)

	if err := w.BeginClass(class.Name); err != nil {
		return err
	}

	for _, p := range class.Procedures {
		if err := w.BeginMethod(p.Name(), p.IsLeaf()); err != nil {
			return err
		}

		if err := p.Compile(); err != nil {
			return err
		}

		if err := w.EndMethod(); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(w.out, format, args...)
	return err
}

func (w *Writer) op(format string, args ...any) error {
	return w.printf("\t"+format+"\n", args...)
}

func (w *Writer) readOperand(r instr.Register) error {
	if r == instr.Zero {
		return w.op("iconst_0")
	}

	return w.op("iload %d", r)
}

func (w *Writer) writeOperand(r instr.Register) error {
	if r == instr.Zero {
		return w.op("pop")
	}

	return w.op("istore %d", r)
}

func (w *Writer) sequence(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) read(r instr.Register) func() error {
	return func() error { return w.readOperand(r) }
}

func (w *Writer) write(r instr.Register) func() error {
	return func() error { return w.writeOperand(r) }
}

func (w *Writer) emit(format string, args ...any) func() error {
	return func() error { return w.op(format, args...) }
}

func (w *Writer) binary(mnemonic string) func(*instr.Instruction) error {
	return func(insn *instr.Instruction) error {
		return w.sequence(
			w.read(insn.Rs), w.read(insn.Rt), w.emit(mnemonic), w.write(insn.Rd))
	}
}

func (w *Writer) compare(helper string) func(*instr.Instruction) error {
	return func(insn *instr.Instruction) error {
		return w.sequence(
			w.read(insn.Rs), w.read(insn.Rt),
			w.emit("invokestatic %s/%s(II)I", runtimeClass, helper),
			w.write(insn.Rd))
	}
}

func (w *Writer) immediate(mnemonic string) func(*instr.Instruction) error {
	return func(insn *instr.Instruction) error {
		return w.sequence(
			w.read(insn.Rs), w.emit("ldc %d", insn.Extra),
			w.emit(mnemonic), w.write(insn.Rt))
	}
}

func (w *Writer) lowerLui(insn *instr.Instruction) error {
	return w.sequence(
		w.emit("ldc %d", int32(uint32(insn.Extra)<<16)), w.write(insn.Rt))
}

func (w *Writer) address(insn *instr.Instruction) []func() error {
	return []func() error{w.read(insn.Rs), w.emit("ldc %d", insn.Extra), w.emit("iadd")}
}

func (w *Writer) lowerSw(insn *instr.Instruction) error {
	steps := append(w.address(insn),
		w.read(insn.Rt),
		w.emit("invokestatic %s/memoryWriteWord(II)V", runtimeClass))

	return w.sequence(steps...)
}

func (w *Writer) lowerLw(insn *instr.Instruction) error {
	steps := append(w.address(insn),
		w.emit("invokestatic %s/memoryReadWord(I)I", runtimeClass),
		w.write(insn.Rt))

	return w.sequence(steps...)
}

func (w *Writer) branch(mnemonic string) func(*instr.Instruction) error {
	return func(insn *instr.Instruction) error {
		target, _ := insn.BranchTarget()

		return w.sequence(
			w.read(insn.Rs), w.read(insn.Rt),
			w.emit("%s %s", mnemonic, w.labels.Reference(target)))
	}
}

func (w *Writer) lowerJ(insn *instr.Instruction) error {
	target, _ := insn.BranchTarget()
	return w.op("goto %s", w.labels.Reference(target))
}

// lowerCall dispatches through the call table with the stack pointer and
// the four argument registers. The result lands in v0.
func (w *Writer) lowerCall(insn *instr.Instruction) error {
	callee := w.read(insn.Rs)
	if target, ok := insn.BranchTarget(); ok {
		callee = w.emit("ldc %d", int32(target))
	}

	return w.sequence(
		callee,
		w.read(instr.SP),
		w.read(instr.A0), w.read(instr.A1), w.read(instr.A2), w.read(instr.A3),
		w.emit("invokestatic %s/call(IIIIII)I", core.CallTableClassName),
		w.write(instr.V0))
}

func (w *Writer) lowerJr(insn *instr.Instruction) error {
	if !insn.IsReturn {
		return fmt.Errorf("%w: indirect jump %s", ErrUnsupported, insn.Disassemble())
	}

	return w.sequence(w.read(instr.V0), w.emit("ireturn"))
}

func (w *Writer) lowerSyscall(*instr.Instruction) error {
	return w.sequence(
		w.read(instr.V0),
		w.read(instr.A0), w.read(instr.A1), w.read(instr.A2), w.read(instr.A3),
		w.emit("invokestatic %s/dispatch(IIIII)I", syscallClass),
		w.write(instr.V0))
}

// LabelTable allocates one label per address and remembers which labels
// were placed and which were only branched to.
type LabelTable struct {
	defined    map[uint32]bool
	referenced map[uint32]bool
}

// NewLabelTable creates an empty table.
func NewLabelTable() *LabelTable {
	return &LabelTable{
		defined:    make(map[uint32]bool),
		referenced: make(map[uint32]bool),
	}
}

// Name returns the label of an address.
func (t *LabelTable) Name(addr uint32) string {
	return fmt.Sprintf("L_%x", addr)
}

// Define records that the label of addr is placed and returns it.
func (t *LabelTable) Define(addr uint32) string {
	t.defined[addr] = true
	return t.Name(addr)
}

// Reference records a branch to addr and returns the label.
func (t *LabelTable) Reference(addr uint32) string {
	t.referenced[addr] = true
	return t.Name(addr)
}

// Undefined returns the labels that were referenced but never defined, in
// address order.
func (t *LabelTable) Undefined() []string {
	var addrs []uint32
	for addr := range t.referenced {
		if !t.defined[addr] {
			addrs = append(addrs, addr)
		}
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	names := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		names = append(names, t.Name(addr))
	}

	return names
}
