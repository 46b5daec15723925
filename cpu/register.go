package cpu

import (
	"errors"
)

// Registers is the LS-8 register file. Register SP is the stack pointer.
type Registers [REGISTER_COUNT]byte

// Check returns an error if index does not name a register.
func (reg *Registers) Check(index byte) (err error) {
	if int(index) >= len(reg) {
		err = errors.Join(ErrOutOfBounds, ErrRegisterInvalid, ErrRegister(index))
	}
	return
}

// Get returns the value of register index.
func (reg *Registers) Get(index byte) (value byte, err error) {
	err = reg.Check(index)
	if err != nil {
		return
	}

	value = reg[index]
	return
}

// Set assigns value to register index.
func (reg *Registers) Set(index byte, value byte) (err error) {
	err = reg.Check(index)
	if err != nil {
		return
	}

	reg[index] = value
	return
}

// Reset zeros the registers and points SP at the top of the stack.
func (reg *Registers) Reset() {
	clear(reg[:])
	reg[SP] = STACK_TOP
}
