// Package disassembler turns binary images back into readable assembly.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/arm11/cpu"
)

// Disassemble performs a linear sweep over a little-endian binary image,
// one instruction word per output line. Words outside the supported
// instruction subset, and the all-zero terminator, are kept as .word data
// so the sweep never fails.
func Disassemble(code []byte) (string, error) {
	var b strings.Builder
	for i, word := range cpu.BytesToWords(code) {
		addr := uint32(i) * cpu.BytesPerWord
		fmt.Fprintf(&b, "%08x:  %08x  %s\n", addr, word, formatWord(addr, word))
	}
	return b.String(), nil
}

func formatWord(addr, word uint32) string {
	if word == 0 {
		return ".word 0x00000000"
	}
	inst, err := cpu.Decode(word)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", word)
	}
	if br, ok := inst.(cpu.Branch); ok {
		return formatBranch(addr, br)
	}
	return inst.String()
}

// formatBranch resolves the word offset to an absolute target address.
func formatBranch(addr uint32, br cpu.Branch) string {
	var link string
	if br.Link {
		link = "l"
	}
	target := addr + cpu.PipelineOffset + uint32(br.Offset)*cpu.BytesPerWord
	return fmt.Sprintf("b%s%s 0x%08x", link, br.Cond, target)
}
