package cpu

import (
	"encoding/binary"
	"fmt"
)

// Memory-mapped GPIO control addresses of the target board. Accesses are
// reported on c.Out; loads yield the address itself.
const (
	gpioPins0  = 0x20200000
	gpioPins10 = 0x20200004
	gpioPins20 = 0x20200008
	gpioOn     = 0x2020001c
	gpioOff    = 0x20200028
)

func gpioMessage(addr uint32) (string, bool) {
	switch addr {
	case gpioPins0:
		return "One GPIO pin from 0 to 9 has been accessed", true
	case gpioPins10:
		return "One GPIO pin from 10 to 19 has been accessed", true
	case gpioPins20:
		return "One GPIO pin from 20 to 29 has been accessed", true
	case gpioOn:
		return "PIN ON", true
	case gpioOff:
		return "PIN OFF", true
	}
	return "", false
}

// ReadWord reads the little-endian word at addr.
func (c *CPU) ReadWord(addr uint32) (uint32, error) {
	if msg, ok := gpioMessage(addr); ok {
		fmt.Fprintln(c.Out, msg)
		return addr, nil
	}
	if addr%BytesPerWord != 0 {
		return 0, AlignmentFault{Address: addr}
	}
	if int(addr)+BytesPerWord > len(c.Mem) {
		return 0, MemoryFault{Address: addr}
	}
	return binary.LittleEndian.Uint32(c.Mem[addr:]), nil
}

// WriteWord stores a little-endian word at addr.
func (c *CPU) WriteWord(addr, value uint32) error {
	if msg, ok := gpioMessage(addr); ok {
		fmt.Fprintln(c.Out, msg)
		return nil
	}
	if addr%BytesPerWord != 0 {
		return AlignmentFault{Address: addr}
	}
	if int(addr)+BytesPerWord > len(c.Mem) {
		return MemoryFault{Address: addr}
	}
	binary.LittleEndian.PutUint32(c.Mem[addr:], value)
	return nil
}

// ReadByte reads the byte at addr.
func (c *CPU) ReadByte(addr uint32) (uint8, error) {
	if msg, ok := gpioMessage(addr); ok {
		fmt.Fprintln(c.Out, msg)
		return uint8(addr), nil
	}
	if int(addr) >= len(c.Mem) {
		return 0, MemoryFault{Address: addr}
	}
	return c.Mem[addr], nil
}

// WriteByte stores a byte at addr.
func (c *CPU) WriteByte(addr uint32, value uint8) error {
	if msg, ok := gpioMessage(addr); ok {
		fmt.Fprintln(c.Out, msg)
		return nil
	}
	if int(addr) >= len(c.Mem) {
		return MemoryFault{Address: addr}
	}
	c.Mem[addr] = value
	return nil
}
