package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is the first byte of an LS-8 instruction.
type Opcode byte

const (
	OP_HLT  = Opcode(0x01) // HLT
	OP_RET  = Opcode(0x11) // RET
	OP_PUSH = Opcode(0x45) // PUSH
	OP_POP  = Opcode(0x46) // POP
	OP_PRN  = Opcode(0x47) // PRN
	OP_CALL = Opcode(0x50) // CALL
	OP_SUB  = Opcode(0x66) // SUB
	OP_LDI  = Opcode(0x82) // LDI
	OP_ST   = Opcode(0x84) // ST
	OP_ADD  = Opcode(0xa0) // ADD
	OP_MUL  = Opcode(0xa2) // MUL
)

// String returns the mnemonic for the opcode, or its hex value if the
// opcode is not part of the instruction set.
func (op Opcode) String() string {
	ins, ok := Lookup(op)
	if !ok {
		return fmt.Sprintf("0x%02x", byte(op))
	}
	return ins.Name
}

// ArgKind is the kind of an instruction operand.
type ArgKind int

const (
	ARG_REG = ArgKind(0) // Register index.
	ARG_IMM = ArgKind(1) // Immediate byte.
)

// Handler executes one instruction. args holds exactly one byte per
// operand. A handler must leave cpu.Pc at the next instruction to run.
type Handler func(cpu *Cpu, args []byte) error

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Opcode Opcode
	Name   string
	Args   []ArgKind
	Exec   Handler
}

// Size returns the encoded length of the instruction in bytes.
func (ins *Instruction) Size() int {
	return 1 + len(ins.Args)
}

// Format renders the instruction and its operands as assembly text.
func (ins *Instruction) Format(args []byte) string {
	if len(args) == 0 {
		return ins.Name
	}

	words := make([]string, len(args))
	for n, arg := range args {
		if n < len(ins.Args) && ins.Args[n] == ARG_REG {
			words[n] = fmt.Sprintf("R%d", arg)
		} else {
			words[n] = fmt.Sprintf("%d", arg)
		}
	}

	return ins.Name + " " + strings.Join(words, ",")
}

var (
	argsNone = []ArgKind{}
	argsR    = []ArgKind{ARG_REG}
	argsRR   = []ArgKind{ARG_REG, ARG_REG}
	argsRI   = []ArgKind{ARG_REG, ARG_IMM}
)

// instructionSet is the complete LS-8 instruction set.
var instructionSet = [...]Instruction{
	{OP_HLT, "HLT", argsNone, execHlt},
	{OP_PRN, "PRN", argsR, execPrn},
	{OP_LDI, "LDI", argsRI, execLdi},
	{OP_PUSH, "PUSH", argsR, execPush},
	{OP_POP, "POP", argsR, execPop},
	{OP_CALL, "CALL", argsR, execCall},
	{OP_RET, "RET", argsNone, execRet},
	{OP_ADD, "ADD", argsRR, execAlu(ALU_OP_ADD)},
	{OP_SUB, "SUB", argsRR, execAlu(ALU_OP_SUB)},
	{OP_MUL, "MUL", argsRR, execAlu(ALU_OP_MUL)},
	{OP_ST, "ST", argsRR, execSt},
}

// dispatch maps every opcode byte to its instruction, or nil.
var dispatch = func() (table [256]*Instruction) {
	for n := range instructionSet {
		ins := &instructionSet[n]
		if table[ins.Opcode] != nil {
			panic("duplicate opcode " + ins.Name)
		}
		table[ins.Opcode] = ins
	}
	return
}()

// Lookup returns the instruction for an opcode.
func Lookup(op Opcode) (ins *Instruction, ok bool) {
	ins = dispatch[op]
	ok = ins != nil
	return
}

// Instructions returns an iterator over the instruction set, in table order.
func Instructions() iter.Seq[*Instruction] {
	return func(yield func(*Instruction) bool) {
		for n := range instructionSet {
			if !yield(&instructionSet[n]) {
				return
			}
		}
	}
}

// Disassemble decodes the instruction at addr.
// Unknown opcodes decode as a single raw byte.
func Disassemble(mem *Memory, addr int) (text string, size int) {
	op := Opcode(mem.peek(addr))
	ins, ok := Lookup(op)
	if !ok {
		return fmt.Sprintf(".db 0x%02x", byte(op)), 1
	}

	args := make([]byte, len(ins.Args))
	for n := range args {
		args[n] = mem.peek(addr + 1 + n)
	}

	return ins.Format(args), ins.Size()
}
