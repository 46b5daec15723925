package cpu

// push decrements SP and stores value at the new top of the stack.
func (cpu *Cpu) push(value byte) (err error) {
	cpu.Register[SP]--
	err = cpu.Memory.Write(int(cpu.Register[SP]), value)
	return
}

// pop loads the value at the top of the stack and increments SP.
func (cpu *Cpu) pop() (value byte, err error) {
	value, err = cpu.Memory.Read(int(cpu.Register[SP]))
	if err != nil {
		return
	}
	cpu.Register[SP]++
	return
}

// peek returns the value at the top of the stack without moving SP.
func (cpu *Cpu) peek() byte {
	return cpu.Memory.peek(int(cpu.Register[SP]))
}
