package cpu

// encodeOperand2 packs the 12 shifter bits shared by data processing
// instructions and register-offset transfers.
func encodeOperand2(o Operand2) uint32 {
	if o.Imm {
		return uint32(o.Rotate)<<8 | uint32(o.Value)
	}
	if o.ByReg {
		return uint32(o.Rs)<<8 | uint32(o.Shift)<<5 | 1<<4 | uint32(o.Rm)
	}
	return uint32(o.Amount)<<7 | uint32(o.Shift)<<5 | uint32(o.Rm)
}

// Encode packs the instruction into its binary word. The result is only
// meaningful for instructions that pass Validate.
func (i DataProcessing) Encode() uint32 {
	w := uint32(i.Cond)<<28 |
		uint32(i.Op)<<21 |
		uint32(i.Rn)<<16 |
		uint32(i.Rd)<<12 |
		encodeOperand2(i.Op2)
	if i.Op2.Imm {
		w |= 1 << 25
	}
	if i.SetFlags {
		w |= 1 << 20
	}
	return w
}

func (i Multiply) Encode() uint32 {
	w := uint32(i.Cond)<<28 |
		uint32(i.Rd)<<16 |
		uint32(i.Rn)<<12 |
		uint32(i.Rs)<<8 |
		0x90 |
		uint32(i.Rm)
	if i.Accumulate {
		w |= 1 << 21
	}
	if i.SetFlags {
		w |= 1 << 20
	}
	return w
}

func (i SingleTransfer) Encode() uint32 {
	w := uint32(i.Cond)<<28 |
		1<<26 |
		uint32(i.Rn)<<16 |
		uint32(i.Rd)<<12
	if i.RegOffset {
		w |= 1 << 25
		w |= uint32(i.Amount)<<7 | uint32(i.Shift)<<5 | uint32(i.Rm)
	} else {
		w |= uint32(i.Imm) & 0xfff
	}
	if i.PreIndexed {
		w |= 1 << 24
	}
	if i.Up {
		w |= 1 << 23
	}
	if i.Byte {
		w |= 1 << 22
	}
	if i.Writeback {
		w |= 1 << 21
	}
	if i.Load {
		w |= 1 << 20
	}
	return w
}

func (i Branch) Encode() uint32 {
	w := uint32(i.Cond)<<28 | 0x5<<25 | uint32(i.Offset)&0xffffff
	if i.Link {
		w |= 1 << 24
	}
	return w
}
