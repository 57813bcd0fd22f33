package cpu

import "errors"

// ErrCycleLimit is returned by Run when the caller's instruction ceiling
// is reached before the program terminates.
var ErrCycleLimit = errors.New("instruction limit reached")

// Run steps the machine until it halts or faults. A non-zero limit bounds
// the number of executed instructions; the instruction set itself has no
// way to detect a program that never terminates.
func (c *CPU) Run(limit uint64) error {
	for c.Running {
		if limit > 0 && c.Cycles >= limit {
			return ErrCycleLimit
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one fetch-decode-execute cycle. Execution halts normally when
// the program counter passes the end of the loaded image or an all-zero
// word is fetched, and fatally on any fault, leaving the machine state as
// it was at the point of failure.
func (c *CPU) Step() error {
	if !c.Running {
		return nil
	}
	pc := c.R[PC]
	if pc >= c.imageEnd {
		c.Running = false
		return nil
	}
	word, err := c.ReadWord(pc)
	if err != nil {
		c.Running = false
		return err
	}
	if word == 0 {
		// The image terminator the assembler emits for andeq r0,r0,r0.
		c.Running = false
		return nil
	}

	inst, ok := c.ICache[word]
	if !ok {
		inst, err = Decode(word)
		if err != nil {
			c.Running = false
			return IllegalInstruction{Address: pc, Word: word}
		}
		c.ICache[word] = inst
	}

	c.Cycles++
	c.pcWritten = false
	if err := c.execute(inst); err != nil {
		c.Running = false
		return err
	}
	if !c.pcWritten {
		c.R[PC] = pc + BytesPerWord
	}
	return nil
}

func (c *CPU) execute(i Instruction) error {
	switch v := i.(type) {
	case DataProcessing:
		if !v.Cond.Holds(c.N, c.Z, c.C, c.V) {
			return nil
		}
		c.executeDataProcessing(v)
	case Multiply:
		if !v.Cond.Holds(c.N, c.Z, c.C, c.V) {
			return nil
		}
		c.executeMultiply(v)
	case SingleTransfer:
		if !v.Cond.Holds(c.N, c.Z, c.C, c.V) {
			return nil
		}
		return c.executeTransfer(v)
	case Branch:
		if !v.Cond.Holds(c.N, c.Z, c.C, c.V) {
			return nil
		}
		if v.Link {
			c.writeReg(LR, c.R[PC]+BytesPerWord)
		}
		c.writeReg(PC, c.R[PC]+PipelineOffset+uint32(v.Offset)*BytesPerWord)
	}
	return nil
}

func (c *CPU) writeReg(r Reg, value uint32) {
	c.R[r] = value
	if r == PC {
		c.pcWritten = true
	}
}

// resolveOperand2 runs the barrel shifter for a shifted operand, returning
// the value and the shifter carry-out.
func (c *CPU) resolveOperand2(o Operand2) (uint32, bool) {
	if o.Imm {
		value := o.Immediate()
		carry := c.C
		if o.Rotate != 0 {
			carry = value&0x80000000 != 0
		}
		return value, carry
	}
	amount := o.Amount
	if o.ByReg {
		amount = uint8(c.regRead(o.Rs))
	}
	return applyShift(o.Shift, c.regRead(o.Rm), amount, o.ByReg, c.C)
}

// addWithCarry adds a, b and a carry-in, reporting unsigned carry-out and
// signed overflow. Subtractions go through it as a + ^b + 1, which makes
// the carry-out the inverted borrow, as the architecture defines it.
func addWithCarry(a, b uint32, carryIn bool) (uint32, bool, bool) {
	var cin uint64
	if carryIn {
		cin = 1
	}
	sum := uint64(a) + uint64(b) + cin
	result := uint32(sum)
	carry := sum > 0xffffffff
	overflow := (a^result)&(b^result)&0x80000000 != 0
	return result, carry, overflow
}

func (c *CPU) executeDataProcessing(v DataProcessing) {
	op2, shiftCarry := c.resolveOperand2(v.Op2)
	var op1 uint32
	if v.Op.hasOperand1() {
		op1 = c.regRead(v.Rn)
	}

	var result uint32
	var carry, overflow bool
	switch v.Op {
	case OpAND, OpTST:
		result = op1 & op2
	case OpEOR, OpTEQ:
		result = op1 ^ op2
	case OpSUB, OpCMP:
		result, carry, overflow = addWithCarry(op1, ^op2, true)
	case OpRSB:
		result, carry, overflow = addWithCarry(op2, ^op1, true)
	case OpADD, OpCMN:
		result, carry, overflow = addWithCarry(op1, op2, false)
	case OpADC:
		result, carry, overflow = addWithCarry(op1, op2, c.C)
	case OpSBC:
		result, carry, overflow = addWithCarry(op1, ^op2, c.C)
	case OpRSC:
		result, carry, overflow = addWithCarry(op2, ^op1, c.C)
	case OpORR:
		result = op1 | op2
	case OpMOV:
		result = op2
	case OpBIC:
		result = op1 &^ op2
	case OpMVN:
		result = ^op2
	}

	if !v.Op.IsComparison() {
		c.writeReg(v.Rd, result)
	}
	if v.SetFlags {
		c.N = result&0x80000000 != 0
		c.Z = result == 0
		if v.Op.IsArithmetic() {
			c.C = carry
			c.V = overflow
		} else {
			c.C = shiftCarry
		}
	}
}

func (c *CPU) executeMultiply(v Multiply) {
	result := c.regRead(v.Rm) * c.regRead(v.Rs)
	if v.Accumulate {
		result += c.regRead(v.Rn)
	}
	c.writeReg(v.Rd, result)
	if v.SetFlags {
		// The hardware leaves carry unpredictable after a multiply;
		// here it is left untouched. Overflow is unaffected too.
		c.N = result&0x80000000 != 0
		c.Z = result == 0
	}
}

func (c *CPU) executeTransfer(v SingleTransfer) error {
	base := c.regRead(v.Rn)
	var offset uint32
	if v.RegOffset {
		offset, _ = applyShift(v.Shift, c.regRead(v.Rm), v.Amount, false, c.C)
	} else {
		offset = uint32(v.Imm)
	}
	if !v.Up {
		offset = -offset
	}

	addr := base
	if v.PreIndexed {
		addr += offset
	}

	if v.Load {
		if v.Byte {
			b, err := c.ReadByte(addr)
			if err != nil {
				return err
			}
			c.writeReg(v.Rd, uint32(b))
		} else {
			w, err := c.ReadWord(addr)
			if err != nil {
				return err
			}
			c.writeReg(v.Rd, w)
		}
	} else {
		value := c.regRead(v.Rd)
		if v.Byte {
			if err := c.WriteByte(addr, uint8(value)); err != nil {
				return err
			}
		} else {
			if err := c.WriteWord(addr, value); err != nil {
				return err
			}
		}
	}

	if !v.PreIndexed {
		c.writeReg(v.Rn, base+offset)
	} else if v.Writeback {
		c.writeReg(v.Rn, addr)
	}
	return nil
}
