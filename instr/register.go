package instr

import (
	"fmt"
	"strconv"
	"strings"
)

// Register identifies one of the 32 MIPS general purpose registers.
type Register uint8

const (
	Zero Register = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
)

// NumRegisters is the size of the general purpose register file.
const NumRegisters = 32

var registerNames = [NumRegisters]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// StackPointer is the register that stack-relative spills are based on.
const StackPointer = SP

// Name returns the conventional name of the register.
func (r Register) Name() string {
	if int(r) >= NumRegisters {
		panic(fmt.Sprintf("invalid register %d", r))
	}

	return registerNames[r]
}

func (r Register) String() string {
	return r.Name()
}

// callerSaved holds the registers a procedure prologue spills to the stack
// before it calls out, and reloads in its epilogue.
var callerSaved = map[Register]bool{
	S0: true, S1: true, S2: true, S3: true,
	S4: true, S5: true, S6: true, S7: true,
	FP: true, RA: true,
}

// IsCallerSaved reports whether r belongs to the spilled register set.
func IsCallerSaved(r Register) bool {
	return callerSaved[r]
}

// CallerSavedRegisters returns the spilled register set in ascending order.
func CallerSavedRegisters() []Register {
	out := make([]Register, 0, len(callerSaved))
	for r := Register(0); r < NumRegisters; r++ {
		if callerSaved[r] {
			out = append(out, r)
		}
	}

	return out
}

// ParseRegister accepts "sp", "$sp", "$29" and "29".
func ParseRegister(s string) (Register, error) {
	name := strings.TrimPrefix(strings.TrimSpace(strings.ToLower(s)), "$")

	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n >= NumRegisters {
			return 0, fmt.Errorf("register %q out of range", s)
		}
		return Register(n), nil
	}

	if name == "s8" {
		return FP, nil
	}

	for i, rn := range registerNames {
		if rn == name {
			return Register(i), nil
		}
	}

	return 0, fmt.Errorf("unknown register %q", s)
}
