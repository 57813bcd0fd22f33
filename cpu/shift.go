package cpu

// ShiftType selects the barrel shifter operation in bits 6-5 of a shifted
// register operand.
type ShiftType uint8

const (
	ShiftLSL ShiftType = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

var shiftStrings = [...]string{"lsl", "lsr", "asr", "ror"}

func (s ShiftType) String() string {
	return shiftStrings[s&3]
}

// applyShift runs the barrel shifter. It returns the shifted value and the
// carry-out; carryIn is returned unchanged when the shift does not produce
// one. byReg marks an amount taken from a register, which changes the
// meaning of amount 0 and of amounts of 32 and above.
func applyShift(s ShiftType, value uint32, amount uint8, byReg, carryIn bool) (uint32, bool) {
	switch s {
	case ShiftLSL:
		return shiftLSL(value, amount, carryIn)
	case ShiftLSR:
		return shiftLSR(value, amount, byReg, carryIn)
	case ShiftASR:
		return shiftASR(value, amount, byReg, carryIn)
	default:
		return shiftROR(value, amount, byReg, carryIn)
	}
}

func shiftLSL(value uint32, amount uint8, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return value, carryIn
	case amount < 32:
		return value << amount, (value<<(amount-1))&0x80000000 != 0
	case amount == 32:
		return 0, value&1 != 0
	default:
		return 0, false
	}
}

func shiftLSR(value uint32, amount uint8, byReg, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		if byReg {
			return value, carryIn
		}
		// lsr #0 encodes lsr #32.
		return 0, value&0x80000000 != 0
	case amount < 32:
		return value >> amount, (value>>(amount-1))&1 != 0
	case amount == 32:
		return 0, value&0x80000000 != 0
	default:
		return 0, false
	}
}

func shiftASR(value uint32, amount uint8, byReg, carryIn bool) (uint32, bool) {
	negative := value&0x80000000 != 0
	switch {
	case amount == 0 && byReg:
		return value, carryIn
	case amount == 0 || amount >= 32:
		// asr #0 encodes asr #32: every bit becomes the sign bit.
		if negative {
			return 0xffffffff, true
		}
		return 0, false
	default:
		return uint32(int32(value) >> amount), (value>>(amount-1))&1 != 0
	}
}

func shiftROR(value uint32, amount uint8, byReg, carryIn bool) (uint32, bool) {
	if amount == 0 {
		if byReg {
			return value, carryIn
		}
		// ror #0 encodes rrx: rotate right by one through carry.
		out := value >> 1
		if carryIn {
			out |= 0x80000000
		}
		return out, value&1 != 0
	}
	amount &= 31
	if amount == 0 {
		// A register amount that is a multiple of 32 leaves the value
		// intact but still sets carry from bit 31.
		return value, value&0x80000000 != 0
	}
	value = value>>amount | value<<(32-amount)
	return value, value&0x80000000 != 0
}
