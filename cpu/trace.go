package cpu

import (
	"fmt"
	"strings"
)

// Trace is a snapshot of the machine state at an instruction boundary.
type Trace struct {
	Pc       int
	Bytes    [3]byte // memory[Pc], memory[Pc+1], memory[Pc+2]
	Register Registers
}

// Trace returns a snapshot of the CPU state. It never modifies the CPU.
func (cpu *Cpu) Trace() (tr Trace) {
	tr.Pc = cpu.Pc
	for n := range tr.Bytes {
		tr.Bytes[n] = cpu.Memory.peek(cpu.Pc + n)
	}
	tr.Register = cpu.Register
	return
}

// String renders the trace in the classic LS-8 TRACE format.
func (tr Trace) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |", tr.Pc, tr.Bytes[0], tr.Bytes[1], tr.Bytes[2])
	for _, val := range tr.Register {
		fmt.Fprintf(&sb, " %02X", val)
	}

	return sb.String()
}
