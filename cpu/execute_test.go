package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadWords assembles a word list into a little-endian image and loads it.
func loadWords(t *testing.T, c *CPU, words ...uint32) {
	t.Helper()
	require.NoError(t, c.LoadImage(WordsToBytes(words)))
}

func TestADDSCarryAndZero(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe2900001) // adds r0, r0, #1
	c.R[0] = 0xffffffff
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0), c.R[0])
	assert.False(t, c.N)
	assert.True(t, c.Z)
	assert.True(t, c.C)
	assert.False(t, c.V)
}

func TestSUBSBorrowClearsCarry(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe2500001) // subs r0, r0, #1
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0xffffffff), c.R[0])
	assert.True(t, c.N)
	assert.False(t, c.Z)
	assert.False(t, c.C)
	assert.False(t, c.V)
}

func TestSignedOverflow(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe2900001) // adds r0, r0, #1
	c.R[0] = 0x7fffffff
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0x80000000), c.R[0])
	assert.True(t, c.N)
	assert.True(t, c.V)
	assert.False(t, c.C)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c,
		0xe5801000, // str r1, [r0]
		0xe5902000, // ldr r2, [r0]
	)
	c.R[0] = 0x100
	c.R[1] = 0xdeadbeef
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0xdeadbeef), c.R[2])
	w, err := c.ReadWord(0x100)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), w)
}

func TestByteLoadZeroExtends(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe5d12000) // ldrb r2, [r1]
	c.R[1] = 0x80
	c.Mem[0x80] = 0xab
	c.R[2] = 0xffffffff
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0xab), c.R[2])
}

func TestPostIndexWritesBack(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe4910004) // ldr r0, [r1], #4
	c.R[1] = 0x200
	require.NoError(t, c.WriteWord(0x200, 0x12345678))
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0x12345678), c.R[0])
	assert.Equal(t, uint32(0x204), c.R[1])
}

func TestBranchAndLink(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c,
		0xeb000000, // bl past the next instruction
		0xe3a00001, // mov r0, #1 (skipped)
		0xe3a00002, // mov r0, #2
	)
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(2), c.R[0])
	assert.Equal(t, uint32(4), c.R[LR])
	assert.Equal(t, uint32(12), c.R[PC])
}

func TestConditionalExecution(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c,
		0xe3500000, // cmp r0, #0
		0x03a01005, // moveq r1, #5
		0x13a02007, // movne r2, #7
	)
	c.R[0] = 1
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0), c.R[1])
	assert.Equal(t, uint32(7), c.R[2])
}

func TestPCReadsAhead(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe1a0000f) // mov r0, pc
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(PipelineOffset), c.R[0])
}

func TestSummationLoop(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c,
		0xe3a00005, // mov r0, #5
		0xe3a01000, // mov r1, #0
		0xe0811000, // add r1, r1, r0
		0xe2400001, // sub r0, r0, #1
		0xe3500000, // cmp r0, #0
		0x1afffffb, // bne back to the add
	)
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0), c.R[0])
	assert.Equal(t, uint32(15), c.R[1])
	assert.True(t, c.Z)
	assert.Equal(t, uint64(22), c.Cycles)
	assert.Len(t, c.ICache, 6)
}

func TestMultiplyAccumulate(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe0231290) // mla r3, r0, r2, r1
	c.R[0] = 3
	c.R[1] = 5
	c.R[2] = 4
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(17), c.R[3])
}

func TestMultiplyLeavesCarryAlone(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe0130290) // muls r3, r0, r2
	c.C = true
	c.V = true
	c.R[2] = 9
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(0), c.R[3])
	assert.True(t, c.Z)
	assert.False(t, c.N)
	assert.True(t, c.C)
	assert.True(t, c.V)
}

func TestZeroWordHalts(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c,
		0xe3a00001, // mov r0, #1
		0x00000000,
		0xe3a00002, // mov r0, #2 (never reached)
	)
	require.NoError(t, c.Run(0))
	assert.Equal(t, uint32(1), c.R[0])
	assert.Equal(t, uint32(4), c.R[PC])
	assert.False(t, c.Running)
}

func TestIllegalInstructionFault(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe8000000) // block transfer, not implemented
	err := c.Run(0)
	var illegal IllegalInstruction
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, uint32(0), illegal.Address)
	assert.Equal(t, uint32(0xe8000000), illegal.Word)
	assert.False(t, c.Running)
}

func TestMemoryFault(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe5912000) // ldr r2, [r1]
	c.R[1] = uint32(DefaultMemorySize)
	err := c.Run(0)
	var fault MemoryFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, uint32(DefaultMemorySize), fault.Address)
}

func TestAlignmentFault(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xe5912000) // ldr r2, [r1]
	c.R[1] = 2
	err := c.Run(0)
	var fault AlignmentFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, uint32(2), fault.Address)
}

func TestCycleLimit(t *testing.T) {
	c := New(DefaultMemorySize)
	loadWords(t, c, 0xeafffffe) // b to itself
	err := c.Run(10)
	require.ErrorIs(t, err, ErrCycleLimit)
	assert.Equal(t, uint64(10), c.Cycles)
}

func TestGPIOAccess(t *testing.T) {
	var out bytes.Buffer
	c := New(DefaultMemorySize)
	c.Out = &out
	loadWords(t, c,
		0xe5801000, // str r1, [r0]
		0xe5932000, // ldr r2, [r3]
	)
	c.R[0] = 0x20200000
	c.R[3] = 0x2020001c
	require.NoError(t, c.Run(0))
	assert.Contains(t, out.String(), "One GPIO pin from 0 to 9 has been accessed")
	assert.Contains(t, out.String(), "PIN ON")
	// A GPIO load yields the address itself.
	assert.Equal(t, uint32(0x2020001c), c.R[2])
}

func TestLoadImageTooLarge(t *testing.T) {
	c := New(8)
	err := c.LoadImage(make([]byte, 12))
	var fault MemoryFault
	assert.ErrorAs(t, err, &fault)
}

func TestDumpState(t *testing.T) {
	var out bytes.Buffer
	c := New(DefaultMemorySize)
	c.Out = &out
	loadWords(t, c, 0xe3a01001) // mov r1, #1
	require.NoError(t, c.Run(0))
	c.DumpState()
	dump := out.String()
	assert.Contains(t, dump, "Registers:")
	assert.Contains(t, dump, "$1  :          1 (0x00000001)")
	assert.Contains(t, dump, "PC  :          4 (0x00000004)")
	assert.Contains(t, dump, "CPSR:          0 (0x00000000)")
	// Memory words print in stored byte order.
	assert.Contains(t, dump, "0x00000000: 0x0100a0e3")
}
