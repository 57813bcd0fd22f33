package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm11/cpu"
)

// buildBranch assembles b and bl. The target is a label or a numeric
// byte address; the encoded offset is word-granular and relative to the
// branch's address plus the fetch-ahead distance.
func (asm *Assembler) buildBranch(n *Node) (cpu.Instruction, error) {
	if len(n.Operands) != 1 {
		return nil, SyntaxError{Line: n.Line, Message: n.Mnemonic.Base + " needs a target"}
	}

	targetOp := trim(n.Operands[0])
	var target int64
	if reLabel.MatchString(targetOp) {
		addr, ok := asm.labels[targetOp]
		if !ok {
			return nil, UndefinedSymbolError{Name: targetOp}
		}
		target = int64(addr)
	} else {
		val, err := parseConstant(targetOp)
		if err != nil {
			return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("invalid branch target: %s", targetOp)}
		}
		target = val
	}

	diff := target - int64(n.Addr) - cpu.PipelineOffset
	if diff%cpu.BytesPerWord != 0 {
		return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("branch target 0x%x is not word aligned", target)}
	}

	return cpu.Branch{
		Cond:   n.Mnemonic.Cond,
		Link:   n.Mnemonic.Base == "bl",
		Offset: int32(diff / cpu.BytesPerWord),
	}, nil
}
