package assembler

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeLabel type.
	NodeLabel
	// NodeDirective type.
	NodeDirective
)

// Node represents one parsed element from the assembly source. Addr is
// assigned during the address resolution pass and consumed when the node
// is encoded.
type Node struct {
	Type     NodeType
	Line     int
	Label    string
	Mnemonic Mnemonic
	Operands []string
	Addr     uint32
}

// splitOperands splits an operand string by commas, but ignores commas
// inside bracketed address operands.
func splitOperands(s string) []string {
	var result []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				result = append(result, trim(s[last:i]))
				last = i + 1
			}
		}
	}
	return append(result, trim(s[last:]))
}
