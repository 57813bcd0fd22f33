package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm11/cpu"
)

// buildMultiply assembles mul rd, rm, rs and mla rd, rm, rs, rn.
func buildMultiply(n *Node) (cpu.Instruction, error) {
	accumulate := n.Mnemonic.Base == "mla"
	want := 3
	if accumulate {
		want = 4
	}
	if len(n.Operands) != want {
		return nil, SyntaxError{
			Line:    n.Line,
			Message: fmt.Sprintf("%s needs %d registers", n.Mnemonic.Base, want),
		}
	}

	regs := make([]cpu.Reg, len(n.Operands))
	for i, op := range n.Operands {
		r, err := parseReg(op)
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		regs[i] = r
	}

	inst := cpu.Multiply{
		Cond:       n.Mnemonic.Cond,
		Accumulate: accumulate,
		SetFlags:   n.Mnemonic.SetFlags,
		Rd:         regs[0],
		Rm:         regs[1],
		Rs:         regs[2],
	}
	if accumulate {
		inst.Rn = regs[3]
	}
	return inst, nil
}
