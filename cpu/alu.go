package cpu

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_SUB = AluOp(1) // sub
	ALU_OP_MUL = AluOp(2) // mul
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_SUB:
		return "sub"
	case ALU_OP_MUL:
		return "mul"
	}
	return f("alu(%d)", int(op))
}

// Alu applies op to registers a and b, leaving the result in a.
// All results wrap modulo 256.
func (cpu *Cpu) Alu(op AluOp, a, b byte) (err error) {
	input, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	value, err := cpu.Register.Get(b)
	if err != nil {
		return
	}

	var output byte
	switch op {
	case ALU_OP_ADD:
		output = input + value
	case ALU_OP_SUB:
		output = input - value
	case ALU_OP_MUL:
		output = input * value
	default:
		err = ErrUnsupportedOperation
		return
	}

	err = cpu.Register.Set(a, output)

	return
}
