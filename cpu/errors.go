package cpu

import "fmt"

// EncodingRangeError reports an instruction field whose value does not fit
// its binary encoding.
type EncodingRangeError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e EncodingRangeError) Error() string {
	return fmt.Sprintf("%s value %d outside range %d to %d", e.Field, e.Value, e.Min, e.Max)
}

// IllegalInstruction is the fatal result of fetching a word the decoder
// does not support.
type IllegalInstruction struct {
	Address uint32
	Word    uint32
}

func (e IllegalInstruction) Error() string {
	return fmt.Sprintf("illegal instruction 0x%08x at 0x%08x", e.Word, e.Address)
}

// MemoryFault is an access outside allocated memory.
type MemoryFault struct {
	Address uint32
}

func (e MemoryFault) Error() string {
	return fmt.Sprintf("memory access out of bounds at 0x%08x", e.Address)
}

// AlignmentFault is a word access on a non-word-aligned address.
type AlignmentFault struct {
	Address uint32
}

func (e AlignmentFault) Error() string {
	return fmt.Sprintf("misaligned word access at 0x%08x", e.Address)
}
