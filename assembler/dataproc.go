package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm11/cpu"
)

// buildDataProcessing assembles the sixteen ALU mnemonics. mov and mvn
// take a destination and a shifted operand; the comparisons take a source
// and a shifted operand and always set flags; everything else takes
// destination, source and shifted operand.
func buildDataProcessing(n *Node) (cpu.Instruction, error) {
	op := dataProcOps[n.Mnemonic.Base]
	inst := cpu.DataProcessing{
		Cond:     n.Mnemonic.Cond,
		Op:       op,
		SetFlags: n.Mnemonic.SetFlags || op.IsComparison(),
	}

	ops := n.Operands
	var op2Parts []string
	switch {
	case op == cpu.OpMOV || op == cpu.OpMVN:
		if len(ops) < 2 {
			return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("%s needs a destination and an operand", op)}
		}
		rd, err := parseReg(ops[0])
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		inst.Rd = rd
		op2Parts = ops[1:]
	case op.IsComparison():
		if len(ops) < 2 {
			return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("%s needs a source and an operand", op)}
		}
		rn, err := parseReg(ops[0])
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		inst.Rn = rn
		op2Parts = ops[1:]
	default:
		if len(ops) < 3 {
			return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("%s needs destination, source and operand", op)}
		}
		rd, err := parseReg(ops[0])
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		rn, err := parseReg(ops[1])
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: err.Error()}
		}
		inst.Rd = rd
		inst.Rn = rn
		op2Parts = ops[2:]
	}

	op2, err := parseOperand2(op2Parts)
	if err != nil {
		return nil, wrapOperandErr(n, err)
	}
	inst.Op2 = op2
	return inst, nil
}

// buildShiftPseudo turns "lsl rd, #n" into "mov rd, rd, lsl #n".
func buildShiftPseudo(n *Node) (cpu.Instruction, error) {
	if len(n.Operands) != 2 {
		return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("%s needs a register and an amount", n.Mnemonic.Base)}
	}
	rd, err := parseReg(n.Operands[0])
	if err != nil {
		return nil, SyntaxError{Line: n.Line, Message: err.Error()}
	}
	op2, err := parseShiftPart(cpu.RegOperand(rd), n.Mnemonic.Base+" "+n.Operands[1])
	if err != nil {
		return nil, wrapOperandErr(n, err)
	}
	return cpu.DataProcessing{
		Cond:     n.Mnemonic.Cond,
		Op:       cpu.OpMOV,
		SetFlags: n.Mnemonic.SetFlags,
		Rd:       rd,
		Op2:      op2,
	}, nil
}

// wrapOperandErr keeps range errors typed and turns everything else into
// a SyntaxError on the node's line.
func wrapOperandErr(n *Node, err error) error {
	switch err.(type) {
	case cpu.EncodingRangeError:
		return err
	default:
		return SyntaxError{Line: n.Line, Message: err.Error()}
	}
}
