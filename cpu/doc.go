// Package cpu implements the processor and assembler for the LS-8 system.
//
// The LS-8 has 256 bytes of memory, eight 8-bit general-purpose registers
// (r0-r7, with r7 reserved as the stack pointer), a program counter, and an
// ALU supporting add, subtract and multiply modulo 256. The stack starts at
// 0xf4 and grows downward.
//
// Each opcode is one byte followed by zero, one or two operand bytes. The
// dispatch table is fixed at compile time; every handler advances the
// program counter itself, so CALL and RET simply assign it.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, raw bytes, and compile-time expression
// evaluation.
package cpu
