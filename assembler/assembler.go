package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/arm11/cpu"
)

// Assembler holds the state for one assembly run.
type Assembler struct {
	labels map[string]uint32

	// Literal pool for ldr rd, =constant, placed after the last
	// instruction word.
	poolBase uint32
	pool     []uint32
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]uint32),
	}
}

// Assemble translates source text into a little-endian binary image.
// It is all-or-nothing: any error means no output, and identical source
// always produces byte-identical output.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	asm.labels = make(map[string]uint32)
	asm.pool = nil

	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	nodes, err := parseLines(lines)
	if err != nil {
		return nil, err
	}

	if err := asm.resolveAddresses(nodes); err != nil {
		return nil, err
	}

	words := make([]uint32, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == NodeLabel {
			continue
		}
		word, err := asm.encodeNode(n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		words = append(words, word)
	}
	words = append(words, asm.pool...)

	return cpu.WordsToBytes(words), nil
}

// parseLines converts raw source lines into nodes. This is the only stage
// that sees source text; it fails with a SyntaxError on the first
// malformed line.
func parseLines(lines []string) ([]*Node, error) {
	var nodes []*Node
	for i, line := range lines {
		lineNo := i + 1
		if idx := strings.IndexRune(line, ';'); idx != -1 {
			line = line[:idx]
		}
		line = trim(line)
		if line == "" {
			continue
		}

		// A line may declare a label, followed optionally by an
		// instruction or directive.
		if idx := strings.IndexRune(line, ':'); idx != -1 {
			name := trim(line[:idx])
			if !reLabel.MatchString(name) {
				return nil, SyntaxError{Line: lineNo, Message: fmt.Sprintf("invalid label name %q", name)}
			}
			nodes = append(nodes, &Node{Type: NodeLabel, Line: lineNo, Label: name})
			line = trim(line[idx+1:])
		}
		if line == "" {
			continue
		}

		var head, rest string
		if idx := strings.IndexAny(line, " \t"); idx == -1 {
			head = line
		} else {
			head = line[:idx]
			rest = trim(line[idx:])
		}

		if strings.HasPrefix(head, ".") {
			if !strings.EqualFold(head, ".word") {
				return nil, SyntaxError{Line: lineNo, Message: fmt.Sprintf("unknown directive %s", head)}
			}
			if rest == "" {
				return nil, SyntaxError{Line: lineNo, Message: ".word needs a value"}
			}
			nodes = append(nodes, &Node{
				Type:     NodeDirective,
				Line:     lineNo,
				Mnemonic: Mnemonic{Base: ".word"},
				Operands: splitOperands(rest),
			})
			continue
		}

		mn, err := ParseMnemonic(head)
		if err != nil {
			return nil, SyntaxError{Line: lineNo, Message: err.Error()}
		}
		n := &Node{Type: NodeInstruction, Line: lineNo, Mnemonic: mn}
		if rest != "" {
			n.Operands = splitOperands(rest)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// resolveAddresses is the first pass: it assigns each instruction and
// data word its byte address, starting at 0 and growing by one word per
// node, and records label addresses at their declaration points.
func (asm *Assembler) resolveAddresses(nodes []*Node) error {
	addr := uint32(0)
	for _, n := range nodes {
		if n.Type == NodeLabel {
			if _, ok := asm.labels[n.Label]; ok {
				return DuplicateLabelError{Name: n.Label}
			}
			asm.labels[n.Label] = addr
			continue
		}
		n.Addr = addr
		addr += cpu.BytesPerWord
	}
	asm.poolBase = addr
	return nil
}

// encodeNode is the second pass for one node: operands are parsed, label
// references resolved, fields validated and the binary word produced.
func (asm *Assembler) encodeNode(n *Node) (uint32, error) {
	if n.Type == NodeDirective {
		if len(n.Operands) != 1 {
			return 0, SyntaxError{Line: n.Line, Message: ".word takes one value"}
		}
		val, err := parseConstant(n.Operands[0])
		if err != nil {
			return 0, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		return uint32(val), nil
	}

	inst, err := asm.buildInstruction(n)
	if err != nil {
		return 0, err
	}
	if err := inst.Validate(); err != nil {
		return 0, err
	}
	return inst.Encode(), nil
}

// buildInstruction dispatches to the family builders.
func (asm *Assembler) buildInstruction(n *Node) (cpu.Instruction, error) {
	base := n.Mnemonic.Base
	switch {
	case base == "mul" || base == "mla":
		return buildMultiply(n)
	case base == "ldr" || base == "str":
		return asm.buildTransfer(n)
	case base == "b" || base == "bl":
		return asm.buildBranch(n)
	case shiftOpsHas(base):
		return buildShiftPseudo(n)
	default:
		return buildDataProcessing(n)
	}
}

func shiftOpsHas(base string) bool {
	_, ok := shiftOps[base]
	return ok
}
