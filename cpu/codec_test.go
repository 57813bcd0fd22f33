package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Known good words, checked in both directions.
func TestKnownEncodings(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		inst Instruction
	}{
		{
			"MOV_Immediate", 0xe3a01001,
			DataProcessing{Cond: CondAL, Op: OpMOV, Rd: 1, Op2: Operand2{Imm: true, Value: 1}},
		},
		{
			"ADDS_Immediate", 0xe2900001,
			DataProcessing{Cond: CondAL, Op: OpADD, SetFlags: true, Op2: Operand2{Imm: true, Value: 1}},
		},
		{
			"CMP_Immediate", 0xe3500000,
			DataProcessing{Cond: CondAL, Op: OpCMP, SetFlags: true, Op2: Operand2{Imm: true}},
		},
		{
			"AND_RegisterShiftedRegister", 0xe0010312,
			DataProcessing{Cond: CondAL, Op: OpAND, Rn: 1, Op2: Operand2{Rm: 2, Shift: ShiftLSL, ByReg: true, Rs: 3}},
		},
		{
			"MLA", 0xe0231290,
			Multiply{Cond: CondAL, Accumulate: true, Rd: 3, Rn: 1, Rs: 2, Rm: 0},
		},
		{
			"MUL", 0xe0030291,
			Multiply{Cond: CondAL, Rd: 3, Rs: 2, Rm: 1},
		},
		{
			"LDR_NegativeShiftedRegister", 0xe7196103,
			SingleTransfer{Cond: CondAL, Load: true, PreIndexed: true, Rn: 9, Rd: 6,
				RegOffset: true, Rm: 3, Shift: ShiftLSL, Amount: 2},
		},
		{
			"STR_ZeroOffset", 0xe5801000,
			SingleTransfer{Cond: CondAL, PreIndexed: true, Up: true, Rn: 0, Rd: 1},
		},
		{
			"BEQ_Forward", 0x0a000121,
			Branch{Cond: CondEQ, Offset: 0x121},
		},
		{
			"BNE_Backward", 0x1afffffb,
			Branch{Cond: CondNE, Offset: -5},
		},
		{
			"BL", 0xeb000000,
			Branch{Cond: CondAL, Link: true},
		},
	}
	for _, tc := range tests {
		decoded, err := Decode(tc.word)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.inst, decoded, tc.name)
		assert.Equal(t, tc.word, tc.inst.Encode(), tc.name)
	}
}

func TestRoundTrip(t *testing.T) {
	insts := []Instruction{
		DataProcessing{Cond: CondAL, Op: OpMOV, Rd: 1, Op2: Operand2{Imm: true, Value: 0x2a, Rotate: 3}},
		DataProcessing{Cond: CondNE, Op: OpMVN, Rd: 12, Op2: Operand2{Rm: 7, Shift: ShiftROR, Amount: 17}},
		DataProcessing{Cond: CondGT, Op: OpEOR, SetFlags: true, Rn: 3, Rd: 4, Op2: Operand2{Rm: 5, Shift: ShiftASR, ByReg: true, Rs: 6}},
		DataProcessing{Cond: CondAL, Op: OpTEQ, SetFlags: true, Rn: 9, Op2: Operand2{Rm: 9, Shift: ShiftLSR, Amount: 31}},
		DataProcessing{Cond: CondCC, Op: OpRSC, Rn: 14, Rd: 0, Op2: Operand2{Imm: true, Value: 0xff, Rotate: 0xf}},
		DataProcessing{Cond: CondAL, Op: OpBIC, Rn: 2, Rd: 2, Op2: Operand2{Rm: 2, Shift: ShiftROR}},
		Multiply{Cond: CondAL, Rd: 7, Rs: 8, Rm: 9},
		Multiply{Cond: CondLE, Accumulate: true, SetFlags: true, Rd: 1, Rn: 2, Rs: 3, Rm: 4},
		SingleTransfer{Cond: CondAL, Load: true, PreIndexed: true, Up: true, Rn: 1, Rd: 2, Imm: 0xfff},
		SingleTransfer{Cond: CondHI, Load: true, Byte: true, Up: true, Rn: 3, Rd: 4, Imm: 1},
		SingleTransfer{Cond: CondAL, PreIndexed: true, Writeback: true, Rn: 5, Rd: 6, Imm: 16},
		SingleTransfer{Cond: CondAL, PreIndexed: true, Up: true, Rn: 15, Rd: 0, RegOffset: true, Rm: 11, Shift: ShiftASR, Amount: 4},
		SingleTransfer{Cond: CondVS, Load: true, Byte: true, PreIndexed: true, Rn: 8, Rd: 9, RegOffset: true, Rm: 10},
		Branch{Cond: CondAL, Offset: MaxBranchOffset},
		Branch{Cond: CondLT, Link: true, Offset: MinBranchOffset},
		Branch{Cond: CondAL, Offset: -2},
	}
	for _, inst := range insts {
		require.NoError(t, inst.Validate(), "%v", inst)
		decoded, err := Decode(inst.Encode())
		require.NoError(t, err, "%v", inst)
		assert.Equal(t, inst, decoded, "%v", inst)
	}
}

// The decoder must handle every 32-bit pattern without panicking, and
// every word it accepts must encode back to itself.
func TestDecoderTotality(t *testing.T) {
	check := func(word uint32) {
		inst, err := Decode(word)
		if err != nil {
			assert.ErrorIs(t, err, ErrUnsupported, "word 0x%08x", word)
			return
		}
		assert.Equal(t, word, inst.Encode(), "word 0x%08x", word)
	}
	specials := []uint32{
		0x00000000, 0xffffffff, 0xe8000000, 0xf0000000,
		0xe1000000, // tst without S: a PSR transfer
		0xe0000090, // multiply mask
		0xe4000002, // post-indexed store
		0xe6000010, // register offset with bit 4 set
	}
	for _, w := range specials {
		check(w)
	}
	// Deterministic sweep across the whole word space.
	for word := uint32(0); word < 0xfff00000; word += 99991 {
		check(word)
	}
}

func TestNewImmediate(t *testing.T) {
	tests := []struct {
		value uint32
		op2   Operand2
		fits  bool
	}{
		{0x00, Operand2{Imm: true}, true},
		{0xff, Operand2{Imm: true, Value: 0xff}, true},
		{0x3f0, Operand2{Imm: true, Value: 0x3f, Rotate: 14}, true},
		{0x3f00000, Operand2{Imm: true, Value: 0x3f, Rotate: 6}, true},
		{0xff000000, Operand2{Imm: true, Value: 0xff, Rotate: 4}, true},
		{0x101, Operand2{}, false},
		{0xffffffff, Operand2{}, false},
	}
	for _, tc := range tests {
		op2, err := NewImmediate(tc.value)
		if !tc.fits {
			var rangeErr EncodingRangeError
			require.ErrorAs(t, err, &rangeErr, "0x%x", tc.value)
			continue
		}
		require.NoError(t, err, "0x%x", tc.value)
		assert.Equal(t, tc.op2, op2, "0x%x", tc.value)
		assert.Equal(t, tc.value, op2.Immediate(), "0x%x", tc.value)
	}
}

func TestValidateRanges(t *testing.T) {
	var rangeErr EncodingRangeError

	err := Branch{Offset: MaxBranchOffset + 1}.Validate()
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "branch offset", rangeErr.Field)

	err = Branch{Offset: MinBranchOffset - 1}.Validate()
	assert.ErrorAs(t, err, &rangeErr)

	err = SingleTransfer{PreIndexed: true, Imm: 0x1000}.Validate()
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "transfer offset", rangeErr.Field)

	err = SingleTransfer{Writeback: true}.Validate()
	assert.ErrorAs(t, err, &rangeErr)

	err = DataProcessing{Op2: Operand2{Amount: 32}}.Validate()
	assert.ErrorAs(t, err, &rangeErr)

	assert.NoError(t, Branch{Offset: MaxBranchOffset}.Validate())
	assert.NoError(t, Branch{Offset: MinBranchOffset}.Validate())
}
