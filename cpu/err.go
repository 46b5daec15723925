package cpu

import (
	"errors"
	"fmt"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted               = errors.New(f("halted"))
	ErrIllegalInstruction   = errors.New(f("illegal instruction"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrOutOfBounds          = errors.New(f("out of bounds"))
	ErrRegisterInvalid      = errors.New(f("register invalid"))
	ErrChannelInvalid       = errors.New(f("channel invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramTooLarge    = errors.New(f("program exceeds memory"))
)

// ErrAddress is a memory address outside of the LS-8 address space.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x", int(ea))
}

// ErrRegister is a register index outside of the register file.
type ErrRegister byte

func (er ErrRegister) Error() string {
	return f("register %d", byte(er))
}

// ErrInstruction reports a fault raised while fetching or executing the
// instruction at Pc.
type ErrInstruction struct {
	Pc       int
	Opcode   Opcode
	Operands []byte
	Err      error
}

func (err *ErrInstruction) Error() string {
	operands := ""
	for _, op := range err.Operands {
		operands += fmt.Sprintf(" %02x", op)
	}
	return f("pc 0x%02x opcode 0x%02x (%v)%v: %v", err.Pc, byte(err.Opcode), err.Opcode.String(), operands, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a byte value", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
