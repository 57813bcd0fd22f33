package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/arm11/cpu"
)

// buildTransfer assembles ldr and str in all their addressing forms:
//
//	ldr rd, =constant        (pseudo; mov or a literal pool load)
//	ldr rd, [rn]
//	ldr rd, [rn, #imm]       pre-indexed, optional ! for writeback
//	ldr rd, [rn, rm, lsl #n]
//	ldr rd, [rn], #imm       post-indexed
//	ldr rd, [rn], rm
func (asm *Assembler) buildTransfer(n *Node) (cpu.Instruction, error) {
	if len(n.Operands) < 2 {
		return nil, SyntaxError{Line: n.Line, Message: n.Mnemonic.Base + " needs a register and an address"}
	}
	rd, err := parseReg(n.Operands[0])
	if err != nil {
		return nil, SyntaxError{Line: n.Line, Message: err.Error()}
	}

	if strings.HasPrefix(n.Operands[1], "=") {
		if n.Mnemonic.Base != "ldr" || n.Mnemonic.Byte || len(n.Operands) != 2 {
			return nil, SyntaxError{Line: n.Line, Message: "=constant is only valid for ldr"}
		}
		return asm.buildLiteralLoad(n, rd)
	}

	inst := cpu.SingleTransfer{
		Cond: n.Mnemonic.Cond,
		Load: n.Mnemonic.Base == "ldr",
		Byte: n.Mnemonic.Byte,
		Rd:   rd,
	}

	addr := n.Operands[1]
	writeback := strings.HasSuffix(addr, "!")
	addr = strings.TrimSuffix(addr, "!")
	if !strings.HasPrefix(addr, "[") || !strings.HasSuffix(addr, "]") {
		return nil, SyntaxError{Line: n.Line, Message: fmt.Sprintf("invalid address: %s", n.Operands[1])}
	}
	inner := splitOperands(addr[1 : len(addr)-1])

	rn, err := parseReg(inner[0])
	if err != nil {
		return nil, SyntaxError{Line: n.Line, Message: err.Error()}
	}
	inst.Rn = rn

	var offsetParts []string
	if len(n.Operands) > 2 {
		// Post-indexed: the offset follows the closing bracket.
		if len(inner) > 1 {
			return nil, SyntaxError{Line: n.Line, Message: "offset both inside and after the brackets"}
		}
		if writeback {
			return nil, SyntaxError{Line: n.Line, Message: "! is invalid on a post-indexed transfer"}
		}
		offsetParts = n.Operands[2:]
	} else {
		inst.PreIndexed = true
		inst.Writeback = writeback
		offsetParts = inner[1:]
	}

	if err := parseTransferOffset(&inst, offsetParts); err != nil {
		return nil, wrapOperandErr(n, err)
	}
	return inst, nil
}

// parseTransferOffset fills the offset fields from the operand parts
// after the base register: nothing, "#±imm", or "±rm" with an optional
// constant shift.
func parseTransferOffset(inst *cpu.SingleTransfer, parts []string) error {
	inst.Up = true
	if len(parts) == 0 {
		return nil
	}

	first := parts[0]
	if strings.HasPrefix(first, "#") {
		if len(parts) > 1 {
			return fmt.Errorf("unexpected operand after offset: %s", parts[1])
		}
		val, err := parseConstant(first)
		if err != nil {
			return err
		}
		if val < 0 {
			inst.Up = false
			val = -val
		}
		if val > 0xfff {
			return cpu.EncodingRangeError{Field: "transfer offset", Value: val, Min: -0xfff, Max: 0xfff}
		}
		inst.Imm = uint16(val)
		return nil
	}

	switch {
	case strings.HasPrefix(first, "-"):
		inst.Up = false
		first = first[1:]
	case strings.HasPrefix(first, "+"):
		first = first[1:]
	}
	rm, err := parseReg(first)
	if err != nil {
		return err
	}
	inst.RegOffset = true
	inst.Rm = rm
	if len(parts) == 1 {
		return nil
	}
	if len(parts) > 2 {
		return fmt.Errorf("unexpected operand: %s", parts[2])
	}

	op2, err := parseShiftPart(cpu.RegOperand(rm), parts[1])
	if err != nil {
		return err
	}
	if op2.ByReg {
		return fmt.Errorf("transfer offsets cannot be shifted by a register")
	}
	inst.Shift = op2.Shift
	inst.Amount = op2.Amount
	return nil
}

// buildLiteralLoad handles ldr rd, =constant. A value expressible as a
// rotated immediate becomes a mov; anything larger is placed in the
// literal pool after the last instruction and loaded relative to pc.
func (asm *Assembler) buildLiteralLoad(n *Node, rd cpu.Reg) (cpu.Instruction, error) {
	val, err := parseConstant(strings.TrimPrefix(n.Operands[1], "="))
	if err != nil {
		return nil, SyntaxError{Line: n.Line, Message: err.Error()}
	}

	if op2, err := cpu.NewImmediate(uint32(val)); err == nil {
		return cpu.DataProcessing{
			Cond: n.Mnemonic.Cond,
			Op:   cpu.OpMOV,
			Rd:   rd,
			Op2:  op2,
		}, nil
	}

	poolAddr := asm.poolBase + uint32(len(asm.pool))*cpu.BytesPerWord
	asm.pool = append(asm.pool, uint32(val))

	offset := int64(poolAddr) - int64(n.Addr) - cpu.PipelineOffset
	inst := cpu.SingleTransfer{
		Cond:       n.Mnemonic.Cond,
		Load:       true,
		PreIndexed: true,
		Up:         offset >= 0,
		Rn:         cpu.PC,
		Rd:         rd,
	}
	if offset < 0 {
		offset = -offset
	}
	if offset > 0xfff {
		return nil, cpu.EncodingRangeError{Field: "literal offset", Value: offset, Min: -0xfff, Max: 0xfff}
	}
	inst.Imm = uint16(offset)
	return inst, nil
}
