package cpu

import "errors"

// ErrUnsupported is returned by Decode for well-formed 32-bit words whose
// bit pattern lies outside the supported subset. The emulator reports it
// as an IllegalInstruction at the faulting address.
var ErrUnsupported = errors.New("unsupported instruction pattern")

// Decode is the inverse of Encode over the supported subset. It is total:
// any 32-bit word yields either an instruction or ErrUnsupported.
func Decode(word uint32) (Instruction, error) {
	cond := Condition(word >> 28)
	switch (word >> 26) & 3 {
	case 0:
		// Bits 27-22 clear with 1001 in bits 7-4 is a multiply; the
		// shifter never produces that pattern in a data processing word.
		if word&0x0fc000f0 == 0x00000090 {
			return decodeMultiply(cond, word), nil
		}
		return decodeDataProcessing(cond, word)
	case 1:
		return decodeTransfer(cond, word)
	case 2:
		if word&(1<<25) == 0 {
			// Block transfers are outside the subset.
			return nil, ErrUnsupported
		}
		return Branch{
			Cond: cond,
			Link: word&(1<<24) != 0,
			// Sign-extend the 24-bit word offset.
			Offset: int32(word<<8) >> 8,
		}, nil
	default:
		return nil, ErrUnsupported
	}
}

func decodeDataProcessing(cond Condition, word uint32) (Instruction, error) {
	op := Opcode(word >> 21 & 0xf)
	setFlags := word&(1<<20) != 0
	if op.IsComparison() && !setFlags {
		// A comparison without S is a status register transfer.
		return nil, ErrUnsupported
	}
	op2, err := decodeOperand2(word)
	if err != nil {
		return nil, err
	}
	return DataProcessing{
		Cond:     cond,
		Op:       op,
		SetFlags: setFlags,
		Rn:       Reg(word >> 16 & 0xf),
		Rd:       Reg(word >> 12 & 0xf),
		Op2:      op2,
	}, nil
}

func decodeOperand2(word uint32) (Operand2, error) {
	if word&(1<<25) != 0 {
		return Operand2{
			Imm:    true,
			Value:  uint8(word),
			Rotate: uint8(word >> 8 & 0xf),
		}, nil
	}
	op2 := Operand2{
		Rm:    Reg(word & 0xf),
		Shift: ShiftType(word >> 5 & 3),
	}
	if word&(1<<4) != 0 {
		if word&(1<<7) != 0 {
			return Operand2{}, ErrUnsupported
		}
		op2.ByReg = true
		op2.Rs = Reg(word >> 8 & 0xf)
		return op2, nil
	}
	op2.Amount = uint8(word >> 7 & 0x1f)
	return op2, nil
}

func decodeMultiply(cond Condition, word uint32) Instruction {
	return Multiply{
		Cond:       cond,
		Accumulate: word&(1<<21) != 0,
		SetFlags:   word&(1<<20) != 0,
		Rd:         Reg(word >> 16 & 0xf),
		Rn:         Reg(word >> 12 & 0xf),
		Rs:         Reg(word >> 8 & 0xf),
		Rm:         Reg(word & 0xf),
	}
}

func decodeTransfer(cond Condition, word uint32) (Instruction, error) {
	i := SingleTransfer{
		Cond:       cond,
		Load:       word&(1<<20) != 0,
		Byte:       word&(1<<22) != 0,
		PreIndexed: word&(1<<24) != 0,
		Up:         word&(1<<23) != 0,
		Writeback:  word&(1<<21) != 0,
		Rn:         Reg(word >> 16 & 0xf),
		Rd:         Reg(word >> 12 & 0xf),
	}
	if !i.PreIndexed && i.Writeback {
		// Post-indexing always writes back; the explicit bit selects
		// the unprivileged transfer forms, which are unsupported.
		return nil, ErrUnsupported
	}
	if word&(1<<25) != 0 {
		if word&(1<<4) != 0 {
			// Register-specified shift amounts do not exist for
			// transfer offsets.
			return nil, ErrUnsupported
		}
		i.RegOffset = true
		i.Rm = Reg(word & 0xf)
		i.Shift = ShiftType(word >> 5 & 3)
		i.Amount = uint8(word >> 7 & 0x1f)
		return i, nil
	}
	i.Imm = uint16(word & 0xfff)
	return i, nil
}
