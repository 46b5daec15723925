package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	assert.NoError(cpu.push(0x12))
	assert.Equal(byte(STACK_TOP-1), cpu.Register[SP])
	assert.Equal(byte(0x12), cpu.Memory[STACK_TOP-1])
	assert.Equal(byte(0x12), cpu.peek())
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.push(0x12))
	assert.NoError(cpu.push(0xab))

	val, err := cpu.pop()
	assert.NoError(err)
	assert.Equal(byte(0xab), val)
	assert.Equal(byte(STACK_TOP-1), cpu.Register[SP])

	val, err = cpu.pop()
	assert.NoError(err)
	assert.Equal(byte(0x12), val)
	assert.Equal(byte(STACK_TOP), cpu.Register[SP])
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[SP] = 0

	assert.NoError(cpu.push(0x5a))
	assert.Equal(byte(0xff), cpu.Register[SP])
	assert.Equal(byte(0x5a), cpu.Memory[0xff])

	val, err := cpu.pop()
	assert.NoError(err)
	assert.Equal(byte(0x5a), val)
	assert.Equal(byte(0), cpu.Register[SP])
}
