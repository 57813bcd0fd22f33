package cpu

import (
	"fmt"
	"strings"
)

// Assembly-style formatting, used by the disassembler.

func formatImm(v uint32) string {
	if v < 256 {
		return fmt.Sprintf("#%d", v)
	}
	return fmt.Sprintf("#0x%x", v)
}

func (o Operand2) String() string {
	if o.Imm {
		return formatImm(o.Immediate())
	}
	if o.ByReg {
		return fmt.Sprintf("%s, %s %s", o.Rm, o.Shift, o.Rs)
	}
	return formatShiftedReg(o.Rm, o.Shift, o.Amount)
}

func formatShiftedReg(rm Reg, shift ShiftType, amount uint8) string {
	if amount == 0 {
		switch shift {
		case ShiftLSL:
			return rm.String()
		case ShiftROR:
			return fmt.Sprintf("%s, rrx", rm)
		default:
			// lsr #0 and asr #0 encode shifts by 32.
			return fmt.Sprintf("%s, %s #32", rm, shift)
		}
	}
	return fmt.Sprintf("%s, %s #%d", rm, shift, amount)
}

func (i DataProcessing) String() string {
	var s string
	if i.SetFlags && !i.Op.IsComparison() {
		s = "s"
	}
	switch {
	case i.Op == OpMOV || i.Op == OpMVN:
		return fmt.Sprintf("%s%s%s %s, %s", i.Op, i.Cond, s, i.Rd, i.Op2)
	case i.Op.IsComparison():
		return fmt.Sprintf("%s%s %s, %s", i.Op, i.Cond, i.Rn, i.Op2)
	default:
		return fmt.Sprintf("%s%s%s %s, %s, %s", i.Op, i.Cond, s, i.Rd, i.Rn, i.Op2)
	}
}

func (i Multiply) String() string {
	var s string
	if i.SetFlags {
		s = "s"
	}
	if i.Accumulate {
		return fmt.Sprintf("mla%s%s %s, %s, %s, %s", i.Cond, s, i.Rd, i.Rm, i.Rs, i.Rn)
	}
	return fmt.Sprintf("mul%s%s %s, %s, %s", i.Cond, s, i.Rd, i.Rm, i.Rs)
}

func (i SingleTransfer) String() string {
	mn := "str"
	if i.Load {
		mn = "ldr"
	}
	var b string
	if i.Byte {
		b = "b"
	}

	sign := ""
	if !i.Up {
		sign = "-"
	}
	var offset string
	if i.RegOffset {
		offset = sign + formatShiftedReg(i.Rm, i.Shift, i.Amount)
	} else if i.Imm != 0 {
		offset = fmt.Sprintf("#%s%d", sign, i.Imm)
	}

	var addr strings.Builder
	addr.WriteByte('[')
	addr.WriteString(i.Rn.String())
	if i.PreIndexed {
		if offset != "" {
			addr.WriteString(", ")
			addr.WriteString(offset)
		}
		addr.WriteByte(']')
		if i.Writeback {
			addr.WriteByte('!')
		}
	} else {
		addr.WriteByte(']')
		if offset != "" {
			addr.WriteString(", ")
			addr.WriteString(offset)
		}
	}
	return fmt.Sprintf("%s%s%s %s, %s", mn, i.Cond, b, i.Rd, addr.String())
}

func (i Branch) String() string {
	var l string
	if i.Link {
		l = "l"
	}
	return fmt.Sprintf("b%s%s #%d", l, i.Cond, i.Offset)
}
