package instr

// Usage describes which register operands an opcode reads.
type Usage uint8

const (
	// ReadsRs marks opcodes whose rs field is a source.
	ReadsRs Usage = 1 << iota
	// ReadsRt marks opcodes whose rt field is a source.
	ReadsRt
)

const (
	// ReadsNone marks opcodes that read no general purpose register.
	ReadsNone Usage = 0
	// ReadsRsRt is the common two-source case (R-type ALU, beq, sw).
	ReadsRsRt = ReadsRs | ReadsRt
)

// Has reports whether all bits of u2 are set in u.
func (u Usage) Has(u2 Usage) bool {
	return u&u2 == u2
}
