package io

import (
	"io"
	"strconv"
)

// Tape writes each value it receives to Output as a decimal number
// followed by a newline.
type Tape struct {
	Output io.Writer

	buffer []byte
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Send writes the decimal rendering of value to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		return
	}

	tc.buffer = strconv.AppendUint(tc.buffer[:0], uint64(value), 10)
	tc.buffer = append(tc.buffer, '\n')

	_, err = tc.Output.Write(tc.buffer)

	return
}
