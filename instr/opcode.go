package instr

import (
	"fmt"
	"strings"
)

// Format is the MIPS encoding format of an opcode.
type Format int

const (
	FormatR Format = iota
	FormatI
	FormatJ
)

// Opcode names a decoded operation.
type Opcode string

const (
	OpNop     Opcode = "nop"
	OpSw      Opcode = "sw"
	OpLw      Opcode = "lw"
	OpAddu    Opcode = "addu"
	OpSubu    Opcode = "subu"
	OpAnd     Opcode = "and"
	OpOr      Opcode = "or"
	OpXor     Opcode = "xor"
	OpSlt     Opcode = "slt"
	OpSltu    Opcode = "sltu"
	OpAddiu   Opcode = "addiu"
	OpAndi    Opcode = "andi"
	OpOri     Opcode = "ori"
	OpLui     Opcode = "lui"
	OpBeq     Opcode = "beq"
	OpBne     Opcode = "bne"
	OpJ       Opcode = "j"
	OpJal     Opcode = "jal"
	OpJalr    Opcode = "jalr"
	OpJr      Opcode = "jr"
	OpSyscall Opcode = "syscall"
)

// OpcodeInfo is the static description of an opcode.
type OpcodeInfo struct {
	Format Format
	Usage  Usage
	// Size is the estimated number of bytecode bytes the opcode lowers to.
	Size int
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpNop:     {FormatR, ReadsNone, 0},
	OpSw:      {FormatI, ReadsRsRt, 12},
	OpLw:      {FormatI, ReadsRs, 12},
	OpAddu:    {FormatR, ReadsRsRt, 4},
	OpSubu:    {FormatR, ReadsRsRt, 4},
	OpAnd:     {FormatR, ReadsRsRt, 4},
	OpOr:      {FormatR, ReadsRsRt, 4},
	OpXor:     {FormatR, ReadsRsRt, 4},
	OpSlt:     {FormatR, ReadsRsRt, 12},
	OpSltu:    {FormatR, ReadsRsRt, 16},
	OpAddiu:   {FormatI, ReadsRs, 5},
	OpAndi:    {FormatI, ReadsRs, 5},
	OpOri:     {FormatI, ReadsRs, 5},
	OpLui:     {FormatI, ReadsNone, 3},
	OpBeq:     {FormatI, ReadsRsRt, 5},
	OpBne:     {FormatI, ReadsRsRt, 5},
	OpJ:       {FormatJ, ReadsNone, 3},
	OpJal:     {FormatJ, ReadsNone, 8},
	OpJalr:    {FormatR, ReadsRs, 10},
	OpJr:      {FormatR, ReadsRs, 3},
	OpSyscall: {FormatR, ReadsNone, 6},
}

// Info returns the static description of op.
func (op Opcode) Info() (OpcodeInfo, bool) {
	info, ok := opcodeTable[op]
	return info, ok
}

// ParseOpcode looks up an opcode by mnemonic, case-insensitively.
func ParseOpcode(s string) (Opcode, error) {
	op := Opcode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := opcodeTable[op]; !ok {
		return "", fmt.Errorf("unknown opcode %q", s)
	}

	return op, nil
}
