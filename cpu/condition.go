package cpu

// Condition is the 4-bit predicate in bits 31-28 of every instruction.
type Condition uint8

const (
	CondEQ Condition = iota
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	// CondNV is reserved; an instruction carrying it never executes.
	CondNV
)

var conditionStrings = [...]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
}

// String returns the mnemonic suffix. AL is the default and prints empty.
func (cc Condition) String() string {
	if cc == CondAL {
		return ""
	}
	return conditionStrings[cc&0xf]
}

// Holds reports whether the predicate is satisfied by the given flags.
func (cc Condition) Holds(n, z, c, v bool) bool {
	switch cc {
	case CondEQ:
		return z
	case CondNE:
		return !z
	case CondCS:
		return c
	case CondCC:
		return !c
	case CondMI:
		return n
	case CondPL:
		return !n
	case CondVS:
		return v
	case CondVC:
		return !v
	case CondHI:
		return c && !z
	case CondLS:
		return !c || z
	case CondGE:
		return n == v
	case CondLT:
		return n != v
	case CondGT:
		return !z && n == v
	case CondLE:
		return z || n != v
	case CondAL:
		return true
	}
	return false
}
