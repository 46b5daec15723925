package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	tape := &Tape{Output: buf}

	for _, value := range []byte{72, 0, 255} {
		assert.NoError(tape.Send(value))
	}
	tape.Rewind()
	assert.NoError(tape.Send(7))

	assert.Equal("72\n0\n255\n7\n", buf.String())
}

func TestTape_NoOutput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.NoError(tape.Send(1))
}

func TestTemporary(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{}
	assert.Equal("", temp.String())

	assert.NoError(temp.Send(1))
	assert.NoError(temp.Send(200))
	assert.Equal([]byte{1, 200}, temp.Data)
	assert.Equal("1\n200\n", temp.String())

	temp.Rewind()
	assert.Empty(temp.Data)
}

func TestTemporary_Capacity(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{Capacity: 2}
	assert.NoError(temp.Send(1))
	assert.NoError(temp.Send(2))
	assert.ErrorIs(temp.Send(3), ErrChannelFull)
	assert.Equal([]byte{1, 2}, temp.Data)

	temp.Rewind()
	assert.NoError(temp.Send(3))
	assert.Equal([]byte{3}, temp.Data)
}
