package core

import (
	"fmt"
	"os"

	"github.com/sarchlab/cibyl/instr"
	"gopkg.in/yaml.v3"
)

// Program is a decoded program: the instruction listings of its procedures.
type Program struct {
	Procedures []ListedProcedure
}

// ListedProcedure is the decoder's view of one procedure, ready to be handed
// to a ProcedureBuilder.
type ListedProcedure struct {
	Name                 string
	DestinationRegisters []instr.Register
	Instructions         []*instr.Instruction
}

type yamlProgram struct {
	Procedures []yamlProcedure `yaml:"procedures"`
}

type yamlProcedure struct {
	Name                 string            `yaml:"name"`
	DestinationRegisters []string          `yaml:"destination_registers"`
	Instructions         []yamlInstruction `yaml:"instructions"`
}

type yamlInstruction struct {
	Addr              uint32 `yaml:"addr"`
	Op                string `yaml:"op"`
	Rs                string `yaml:"rs"`
	Rt                string `yaml:"rt"`
	Rd                string `yaml:"rd"`
	Imm               int32  `yaml:"imm"`
	Target            uint32 `yaml:"target"`
	BranchDestination bool   `yaml:"branch_destination"`
}

// LoadProgramFileFromYAML reads a decoded instruction listing.
func LoadProgramFileFromYAML(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	prog, err := ParseProgramYAML(data)
	if err != nil {
		return Program{}, fmt.Errorf("%s: %w", path, err)
	}

	return prog, nil
}

// ParseProgramYAML decodes a listing. Instructions targeted by a direct
// branch anywhere in the program are marked as branch destinations, in
// addition to the ones the listing marks explicitly.
func ParseProgramYAML(data []byte) (Program, error) {
	var yp yamlProgram
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Program{}, fmt.Errorf("invalid listing: %w", err)
	}

	prog := Program{}
	byAddress := make(map[uint32]*instr.Instruction)

	for _, p := range yp.Procedures {
		lp, err := p.decode()
		if err != nil {
			return Program{}, err
		}

		for _, insn := range lp.Instructions {
			if _, dup := byAddress[insn.Address]; dup {
				return Program{}, fmt.Errorf(
					"duplicate instruction address 0x%08x", insn.Address)
			}
			byAddress[insn.Address] = insn
		}

		prog.Procedures = append(prog.Procedures, lp)
	}

	markBranchDestinations(byAddress)

	return prog, nil
}

func markBranchDestinations(byAddress map[uint32]*instr.Instruction) {
	for _, insn := range byAddress {
		if !insn.IsBranch {
			continue
		}

		target, ok := insn.BranchTarget()
		if !ok {
			continue
		}

		if dst, found := byAddress[target]; found {
			dst.IsBranchDestination = true
		}
	}
}

func (p yamlProcedure) decode() (ListedProcedure, error) {
	lp := ListedProcedure{Name: p.Name}

	if len(p.Instructions) == 0 {
		return ListedProcedure{}, fmt.Errorf("procedure %s has no instructions", p.Name)
	}

	for _, s := range p.DestinationRegisters {
		r, err := instr.ParseRegister(s)
		if err != nil {
			return ListedProcedure{}, fmt.Errorf("procedure %s: %w", p.Name, err)
		}
		lp.DestinationRegisters = append(lp.DestinationRegisters, r)
	}

	var prev uint32
	for i, yi := range p.Instructions {
		if i > 0 && yi.Addr <= prev {
			return ListedProcedure{}, fmt.Errorf(
				"procedure %s: instruction 0x%08x is out of address order", p.Name, yi.Addr)
		}
		prev = yi.Addr

		insn, err := yi.decode()
		if err != nil {
			return ListedProcedure{}, fmt.Errorf(
				"procedure %s, 0x%08x: %w", p.Name, yi.Addr, err)
		}
		lp.Instructions = append(lp.Instructions, insn)
	}

	return lp, nil
}

func (yi yamlInstruction) decode() (*instr.Instruction, error) {
	op, err := instr.ParseOpcode(yi.Op)
	if err != nil {
		return nil, err
	}

	regs := [3]instr.Register{}
	for i, s := range []string{yi.Rs, yi.Rt, yi.Rd} {
		if s == "" {
			continue
		}
		if regs[i], err = instr.ParseRegister(s); err != nil {
			return nil, err
		}
	}

	extra := yi.Imm
	if _, isBranch := (&instr.Instruction{Opcode: op}).BranchTarget(); isBranch {
		extra = int32(yi.Target)
	}

	insn := instr.New(yi.Addr, op, regs[0], regs[1], regs[2], extra)
	insn.IsBranchDestination = yi.BranchDestination

	return insn, nil
}

// Build creates the procedures of the program with b. The destination
// registers of each listing override the ones set on b.
func (prog Program) Build(b ProcedureBuilder) []*Procedure {
	procs := make([]*Procedure, 0, len(prog.Procedures))
	for _, lp := range prog.Procedures {
		p := b.WithDestinationRegisters(lp.DestinationRegisters...).
			Build(lp.Name, lp.Instructions)
		procs = append(procs, p)
	}

	return procs
}
