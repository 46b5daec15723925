package io

import (
	"strconv"
	"strings"
)

// Temporary collects emitted values in memory.
type Temporary struct {
	Capacity int // Maximum number of values kept; zero for no limit.

	Data []byte
}

var _ Channel = (*Temporary)(nil)

// Rewind discards all collected values.
func (temp *Temporary) Rewind() {
	temp.Data = temp.Data[:0]
}

// Send appends value to the buffer.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Send(value byte) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data = append(temp.Data, value)

	return
}

// String renders the collected values the way a Tape would print them.
func (temp *Temporary) String() string {
	var sb strings.Builder
	for _, value := range temp.Data {
		sb.WriteString(strconv.Itoa(int(value)))
		sb.WriteByte('\n')
	}
	return sb.String()
}
