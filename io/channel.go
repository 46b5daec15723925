// Package io provides the program image loader and the output channels of
// the LS-8 emulator.
//
// A Rom is the loaded form of a program image: one 8-bit binary literal per
// line, '#' comments, blank lines ignored. Channels receive the values
// emitted by the PRN instruction; Tape renders them as decimal text on an
// io.Writer, Temporary keeps them in memory.
package io

// Channel defines the interface for the LS-8 output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send emits a single register value.
	Send(value byte) error
}
