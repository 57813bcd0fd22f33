package cpu

import (
	"fmt"
	"math/bits"
)

// Reg is a register index, 0 through 15.
type Reg uint8

func (r Reg) String() string {
	return fmt.Sprintf("r%d", uint8(r))
}

func validReg(field string, r Reg) error {
	if r >= NumRegisters {
		return EncodingRangeError{Field: field, Value: int64(r), Min: 0, Max: NumRegisters - 1}
	}
	return nil
}

// Data processing opcodes, bits 24-21.
type Opcode uint8

const (
	OpAND Opcode = iota
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
)

var opcodeStrings = [...]string{
	"and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
	"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn",
}

func (op Opcode) String() string {
	return opcodeStrings[op&0xf]
}

// IsComparison reports whether the opcode only sets flags and never writes
// a destination register.
func (op Opcode) IsComparison() bool {
	return op >= OpTST && op <= OpCMN
}

// IsArithmetic reports whether the opcode is in the add/subtract family,
// which takes carry and overflow from the ALU rather than the shifter.
func (op Opcode) IsArithmetic() bool {
	switch op {
	case OpSUB, OpRSB, OpADD, OpADC, OpSBC, OpRSC, OpCMP, OpCMN:
		return true
	}
	return false
}

// hasOperand1 reports whether the opcode reads rn. mov and mvn only use
// the shifted operand.
func (op Opcode) hasOperand1() bool {
	return op != OpMOV && op != OpMVN
}

// Operand2 is the barrel shifter operand of data processing instructions
// and the offset of register-offset data transfers: either an 8-bit
// immediate with a 4-bit rotation field, or a register shifted by a
// constant or by the low byte of another register.
type Operand2 struct {
	// Imm selects the rotated immediate form.
	Imm    bool
	Value  uint8
	Rotate uint8 // rotation right by twice this value

	// Rm is the register to shift in the register form.
	Rm    Reg
	Shift ShiftType
	// ByReg selects a shift amount read from Rs instead of Amount.
	ByReg  bool
	Rs     Reg
	Amount uint8
}

// RegOperand builds the plain register form of an operand: rm unshifted.
func RegOperand(rm Reg) Operand2 {
	return Operand2{Rm: rm}
}

// NewImmediate encodes a 32-bit value as an 8-bit immediate rotated right
// by an even amount. Values that cannot be represented that way fail with
// an EncodingRangeError.
func NewImmediate(value uint32) (Operand2, error) {
	for rotate := 0; rotate < 16; rotate++ {
		// The stored value is rotated right at decode time, so the
		// candidate is the value rotated left by the same amount.
		if v := bits.RotateLeft32(value, 2*rotate); v <= 0xff {
			return Operand2{Imm: true, Value: uint8(v), Rotate: uint8(rotate)}, nil
		}
	}
	return Operand2{}, EncodingRangeError{
		Field: "rotated immediate",
		Value: int64(value),
		Min:   0,
		Max:   0xff,
	}
}

// Validate checks every field against its binary encoding.
func (o Operand2) Validate() error {
	if o.Imm {
		if o.Rotate > 0xf {
			return EncodingRangeError{Field: "immediate rotation", Value: int64(o.Rotate), Min: 0, Max: 0xf}
		}
		return nil
	}
	if err := validReg("shifted register", o.Rm); err != nil {
		return err
	}
	if o.ByReg {
		return validReg("shift register", o.Rs)
	}
	if o.Amount > 31 {
		return EncodingRangeError{Field: "shift amount", Value: int64(o.Amount), Min: 0, Max: 31}
	}
	return nil
}

// Immediate returns the 32-bit value a rotated immediate stands for.
func (o Operand2) Immediate() uint32 {
	return bits.RotateLeft32(uint32(o.Value), -2*int(o.Rotate))
}

// Instruction is the closed set of executable variants: DataProcessing,
// Multiply, SingleTransfer and Branch. Encode is total for instructions
// that pass Validate.
type Instruction interface {
	fmt.Stringer
	Encode() uint32
	Validate() error
}

// DataProcessing covers the sixteen ALU opcodes.
type DataProcessing struct {
	Cond     Condition
	Op       Opcode
	SetFlags bool
	Rn       Reg
	Rd       Reg
	Op2      Operand2
}

func (i DataProcessing) Validate() error {
	if err := validReg("rn", i.Rn); err != nil {
		return err
	}
	if err := validReg("rd", i.Rd); err != nil {
		return err
	}
	return i.Op2.Validate()
}

// Multiply is mul (rd = rm * rs) or, with Accumulate, mla (rd = rm * rs + rn).
type Multiply struct {
	Cond       Condition
	Accumulate bool
	SetFlags   bool
	Rd         Reg
	Rn         Reg
	Rs         Reg
	Rm         Reg
}

func (i Multiply) Validate() error {
	for _, f := range []struct {
		name string
		r    Reg
	}{{"rd", i.Rd}, {"rn", i.Rn}, {"rs", i.Rs}, {"rm", i.Rm}} {
		if err := validReg(f.name, f.r); err != nil {
			return err
		}
	}
	return nil
}

// SingleTransfer is ldr/str of a word or byte. The offset is either a
// plain 12-bit immediate or a constant-shifted register.
type SingleTransfer struct {
	Cond       Condition
	Load       bool
	Byte       bool
	PreIndexed bool
	Up         bool
	Writeback  bool
	Rn         Reg
	Rd         Reg

	// Immediate offset, used when RegOffset is false.
	Imm uint16

	RegOffset bool
	Rm        Reg
	Shift     ShiftType
	Amount    uint8
}

func (i SingleTransfer) Validate() error {
	if err := validReg("rn", i.Rn); err != nil {
		return err
	}
	if err := validReg("rd", i.Rd); err != nil {
		return err
	}
	if i.RegOffset {
		if err := validReg("offset register", i.Rm); err != nil {
			return err
		}
		if i.Amount > 31 {
			return EncodingRangeError{Field: "offset shift amount", Value: int64(i.Amount), Min: 0, Max: 31}
		}
	} else if i.Imm > 0xfff {
		return EncodingRangeError{Field: "transfer offset", Value: int64(i.Imm), Min: 0, Max: 0xfff}
	}
	if !i.PreIndexed && i.Writeback {
		// Post-indexed transfers always write back; the explicit bit
		// selects a different instruction entirely.
		return EncodingRangeError{Field: "writeback", Value: 1, Min: 0, Max: 0}
	}
	return nil
}

// Branch adds a signed word offset to the program counter, optionally
// saving the return address in the link register first.
type Branch struct {
	Cond Condition
	Link bool
	// Offset is in words, relative to the branch address plus
	// PipelineOffset.
	Offset int32
}

// Branch offsets are signed 24-bit word counts.
const (
	MinBranchOffset = -1 << 23
	MaxBranchOffset = 1<<23 - 1
)

func (i Branch) Validate() error {
	if i.Offset < MinBranchOffset || i.Offset > MaxBranchOffset {
		return EncodingRangeError{
			Field: "branch offset",
			Value: int64(i.Offset),
			Min:   MinBranchOffset,
			Max:   MaxBranchOffset,
		}
	}
	return nil
}
