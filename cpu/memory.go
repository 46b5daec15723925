package cpu

import (
	"errors"
)

// Memory is the flat LS-8 address space.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(mem) {
		err = errors.Join(ErrOutOfBounds, ErrAddress(addr))
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = errors.Join(ErrOutOfBounds, ErrAddress(addr))
		return
	}

	mem[addr] = value
	return
}

// peek reads addr without faulting; addresses past the end read as zero.
func (mem *Memory) peek(addr int) byte {
	if addr < 0 || addr >= len(mem) {
		return 0
	}
	return mem[addr]
}
