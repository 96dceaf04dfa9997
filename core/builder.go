package core

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/cibyl/config"
	"github.com/sarchlab/cibyl/instr"
)

// ProcedureBuilder can create new procedures.
type ProcedureBuilder struct {
	cfg                  config.Config
	destinationRegisters []instr.Register
	isReturn             ReturnClassifier
	emitter              Emitter
	hooks                []sim.Hook
}

// NewProcedureBuilder creates a builder with the default configuration.
func NewProcedureBuilder() ProcedureBuilder {
	return ProcedureBuilder{
		cfg:      config.Default(),
		isReturn: ContainsReturn,
	}
}

// WithConfig sets the translator configuration.
func (b ProcedureBuilder) WithConfig(cfg config.Config) ProcedureBuilder {
	b.cfg = cfg
	return b
}

// WithDestinationRegisters sets the registers the procedure returns values
// in.
func (b ProcedureBuilder) WithDestinationRegisters(
	regs ...instr.Register,
) ProcedureBuilder {
	b.destinationRegisters = append([]instr.Register(nil), regs...)
	return b
}

// WithReturnClassifier replaces the rule that identifies return blocks.
func (b ProcedureBuilder) WithReturnClassifier(
	isReturn ReturnClassifier,
) ProcedureBuilder {
	b.isReturn = isReturn
	return b
}

// WithEmitter sets the emitter used by Compile.
func (b ProcedureBuilder) WithEmitter(e Emitter) ProcedureBuilder {
	b.emitter = e
	return b
}

// WithHook registers a hook on every procedure built. Hooks see the
// optimizer's decisions as they are made.
func (b ProcedureBuilder) WithHook(hook sim.Hook) ProcedureBuilder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hook)
	return b
}

// Build creates a procedure from instructions given in ascending address
// order. The first instruction is the entry point. Build partitions the
// instructions into basic blocks, takes ownership of them and, unless the
// configuration asks for debugging, removes redundant stack spill code.
func (b ProcedureBuilder) Build(
	name string,
	instructions []*instr.Instruction,
) *Procedure {
	if len(instructions) == 0 {
		panic("procedure " + name + " has no instructions")
	}

	isReturn := b.isReturn
	if isReturn == nil {
		isReturn = ContainsReturn
	}

	p := &Procedure{
		HookableBase:         sim.NewHookableBase(),
		name:                 name,
		cfg:                  b.cfg,
		destinationRegisters: b.destinationRegisters,
		emitter:              b.emitter,
	}
	p.instructions = instructions

	for _, h := range b.hooks {
		p.AcceptHook(h)
	}
	if b.cfg.Verbose {
		p.AcceptHook(nullifyLogger{})
	}

	p.partition(isReturn)

	if !b.cfg.Debug {
		p.skipStackStores()
	}

	return p
}
