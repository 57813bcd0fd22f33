package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Architectural constants shared by the assembler and the emulator.
const (
	// NumRegisters is the number of general-purpose registers.
	NumRegisters = 16
	// PC is the register index of the program counter.
	PC = 15
	// LR is the register index of the link register.
	LR = 14
	// BytesPerWord is the width of one instruction or data word.
	BytesPerWord = 4
	// PipelineOffset is the fetch-ahead distance. A branch offset is
	// relative to the branch's address plus this, and reading r15 as an
	// operand yields the instruction address plus this. The encoder, the
	// decoder and the execute step all use this one constant.
	PipelineOffset = 8
	// DefaultMemorySize is the memory capacity of a new CPU.
	DefaultMemorySize = 65536
)

// CPU holds the register file, the flags and the memory of one machine.
// It is self-contained; multiple instances can run in the same process.
type CPU struct {
	// R is the register file. R[15] is the program counter.
	R [NumRegisters]uint32
	// N, Z, C and V are the condition flags.
	N, Z, C, V bool

	// Mem is flat, byte-addressable memory. Words are little-endian.
	Mem []byte
	// Cache for decoded instructions, keyed by their binary word.
	ICache map[uint32]Instruction

	// Out receives the state dump and GPIO messages.
	Out io.Writer

	// Cycles counts executed instructions.
	Cycles uint64
	// Running is cleared on normal termination or a fault.
	Running bool

	imageEnd  uint32
	pcWritten bool
}

// New creates a CPU with the given memory size in bytes.
func New(memsize int) *CPU {
	return &CPU{
		Mem:    make([]byte, memsize),
		ICache: make(map[uint32]Instruction, 256),
		Out:    os.Stdout,
	}
}

// LoadImage copies a binary image to address 0 and resets the machine so
// execution starts at the first word.
func (c *CPU) LoadImage(image []byte) error {
	if len(image) > len(c.Mem) {
		return MemoryFault{Address: uint32(len(image))}
	}
	copy(c.Mem, image)
	c.R = [NumRegisters]uint32{}
	c.N, c.Z, c.C, c.V = false, false, false, false
	c.Cycles = 0
	c.imageEnd = uint32(len(image))
	c.Running = true
	return nil
}

// CPSR packs the flags into the architectural status word.
func (c *CPU) CPSR() uint32 {
	var w uint32
	if c.N {
		w |= 1 << 31
	}
	if c.Z {
		w |= 1 << 30
	}
	if c.C {
		w |= 1 << 29
	}
	if c.V {
		w |= 1 << 28
	}
	return w
}

// DumpState writes the register file, the status word and all non-zero
// memory words to c.Out.
func (c *CPU) DumpState() {
	fmt.Fprintln(c.Out, "Registers:")
	for i := 0; i <= 12; i++ {
		fmt.Fprintf(c.Out, "$%-3d: %10d (0x%08x)\n", i, c.R[i], c.R[i])
	}
	fmt.Fprintf(c.Out, "PC  : %10d (0x%08x)\n", c.R[PC], c.R[PC])
	fmt.Fprintf(c.Out, "CPSR: %10d (0x%08x)\n", c.CPSR(), c.CPSR())
	fmt.Fprintln(c.Out, "Non-zero memory:")
	for addr := 0; addr+BytesPerWord <= len(c.Mem); addr += BytesPerWord {
		// Words are shown in stored byte order, most significant first.
		word := binary.BigEndian.Uint32(c.Mem[addr:])
		if word == 0 {
			continue
		}
		fmt.Fprintf(c.Out, "0x%08x: 0x%08x\n", addr, word)
	}
}

// regRead returns a register's value as seen by an executing instruction.
// The program counter reads ahead of the current instruction.
func (c *CPU) regRead(r Reg) uint32 {
	if r == PC {
		return c.R[PC] + PipelineOffset
	}
	return c.R[r]
}
