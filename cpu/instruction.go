package cpu

import (
	"errors"
)

// advance moves the program counter past the current instruction.
func (cpu *Cpu) advance(args []byte) {
	cpu.Pc += 1 + len(args)
}

// HLT leaves the program counter on the halt instruction.
func execHlt(cpu *Cpu, args []byte) (err error) {
	cpu.Running = false
	return
}

func execPrn(cpu *Cpu, args []byte) (err error) {
	value, err := cpu.Register.Get(args[0])
	if err != nil {
		return
	}

	channel, err := cpu.GetChannel()
	if err != nil {
		return
	}

	err = channel.Send(value)
	if err != nil {
		return
	}

	cpu.advance(args)
	return
}

func execLdi(cpu *Cpu, args []byte) (err error) {
	err = cpu.Register.Set(args[0], args[1])
	if err != nil {
		return
	}

	cpu.advance(args)
	return
}

func execPush(cpu *Cpu, args []byte) (err error) {
	value, err := cpu.Register.Get(args[0])
	if err != nil {
		return
	}

	err = cpu.push(value)
	if err != nil {
		return
	}

	cpu.advance(args)
	return
}

// POP moves SP before writing the destination, so that POP of SP itself
// restores the value saved by PUSH of SP.
func execPop(cpu *Cpu, args []byte) (err error) {
	err = cpu.Register.Check(args[0])
	if err != nil {
		return
	}

	value, err := cpu.pop()
	if err != nil {
		return
	}

	err = cpu.Register.Set(args[0], value)
	if err != nil {
		return
	}

	cpu.advance(args)
	return
}

func execCall(cpu *Cpu, args []byte) (err error) {
	err = cpu.Register.Check(args[0])
	if err != nil {
		return
	}

	next := cpu.Pc + 1 + len(args)
	if next >= MEMORY_SIZE {
		err = errors.Join(ErrOutOfBounds, ErrAddress(next))
		return
	}

	err = cpu.push(byte(next))
	if err != nil {
		return
	}

	target, err := cpu.Register.Get(args[0])
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	return
}

func execRet(cpu *Cpu, args []byte) (err error) {
	target, err := cpu.pop()
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	return
}

func execSt(cpu *Cpu, args []byte) (err error) {
	addr, err := cpu.Register.Get(args[0])
	if err != nil {
		return
	}

	value, err := cpu.Register.Get(args[1])
	if err != nil {
		return
	}

	err = cpu.Memory.Write(int(addr), value)
	if err != nil {
		return
	}

	cpu.advance(args)
	return
}

// execAlu returns the handler for a two-register ALU instruction.
func execAlu(op AluOp) Handler {
	return func(cpu *Cpu, args []byte) (err error) {
		err = cpu.Alu(op, args[0], args[1])
		if err != nil {
			return
		}

		cpu.advance(args)
		return
	}
}
