package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = func() (defines map[string]string) {
	defines = map[string]string{
		"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
		"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
		"STACK_TOP":      fmt.Sprintf("0x%02x", STACK_TOP),
	}
	for n := range instructionSet {
		ins := &instructionSet[n]
		defines["OP_"+ins.Name] = fmt.Sprintf("0x%02x", byte(ins.Opcode))
	}
	return
}()

// Defines returns the assembler equates describing the machine.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int       // Address of the next opcode.
	Register Registers // Register bank; Register[SP] is the stack pointer.
	Memory   Memory    // Main memory.
	Running  bool      // Cleared by HLT.

	Ticks int // Instructions executed since reset.

	channel Channel // PRN output.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("r%d", n)
		if n == SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: %02X\n", name, val)
	}

	top := "--"
	if cpu.Register[SP] < STACK_TOP {
		top = fmt.Sprintf("%02X", cpu.peek())
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", top)

	state := "running"
	if !cpu.Running {
		state = "halted"
	}
	text += fmt.Sprintf("% 5s: %v\n", "state", state)

	return
}

// Reset the CPU state.
// - Clears memory and registers.
// - Points SP at the top of the stack.
// - Zeros the program counter and tick counter.
// - Rewinds the output channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Running = true

	if cpu.channel != nil {
		cpu.channel.Rewind()
	}
}

// Load copies data into memory starting at address 0.
func (cpu *Cpu) Load(data []byte) (err error) {
	if len(data) > len(cpu.Memory) {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[:], data)
	return
}

// SetChannel sets the output channel used by PRN.
func (cpu *Cpu) SetChannel(channel Channel) {
	cpu.channel = channel
}

// GetChannel gets the output channel used by PRN.
func (cpu *Cpu) GetChannel() (channel Channel, err error) {
	if cpu.channel == nil {
		err = ErrChannelInvalid
		return
	}

	channel = cpu.channel
	return
}

// FetchCode fetches and decodes the instruction at the program counter.
func (cpu *Cpu) FetchCode() (ins *Instruction, args []byte, err error) {
	pc := cpu.Pc

	op, err := cpu.Memory.Read(pc)
	if err != nil {
		err = &ErrInstruction{Pc: pc, Err: err}
		return
	}

	ins, ok := Lookup(Opcode(op))
	if !ok {
		err = &ErrInstruction{Pc: pc, Opcode: Opcode(op), Err: ErrIllegalInstruction}
		return
	}

	args = make([]byte, len(ins.Args))
	for n := range args {
		args[n], err = cpu.Memory.Read(pc + 1 + n)
		if err != nil {
			err = &ErrInstruction{Pc: pc, Opcode: ins.Opcode, Operands: args[:n], Err: err}
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	ins, args, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(ins, args)

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins *Instruction, args []byte) (err error) {
	pc := cpu.Pc

	defer func() {
		if err != nil {
			err = &ErrInstruction{Pc: pc, Opcode: ins.Opcode, Operands: args, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %02x: %v", pc, ins.Format(args))
	}

	err = ins.Exec(cpu, args)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Run executes instructions until HLT or a fault.
// A program that never halts never returns.
func (cpu *Cpu) Run() (err error) {
	cpu.Running = true

	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: halt at %02x after %d ticks", cpu.Pc, cpu.Ticks)
	}

	return
}
