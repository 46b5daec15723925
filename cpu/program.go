package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Line is a single source statement and the bytes it generated.
type Line struct {
	LineNo int      // Source line number.
	Addr   int      // Address of the first generated byte.
	Words  []string // Source words.
	Bytes  []byte   // Generated bytes.
}

// Program is an assembled or loaded program listing.
type Program struct {
	Lines []Line
}

// Debug locates the byte at an address within a Program.
type Debug struct {
	*Line
	Index int
}

// Debug returns the line which generated the byte at addr.
// The returned Line is nil if no line covers addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Bytes returns an iterator over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []byte) {
	for addr, value := range prog.Bytes() {
		for len(bins) <= addr {
			bins = append(bins, 0)
		}
		bins[addr] = value
	}

	return
}

// Image writes the program in the line-per-byte binary image format.
// The first byte of each line carries the source text as a comment.
func (prog *Program) Image(w io.Writer) (err error) {
	bins := prog.Binary()
	for addr, value := range bins {
		dbg := prog.Debug(addr)
		if dbg.Line != nil && dbg.Index == 0 {
			_, err = fmt.Fprintf(w, "%08b # %v\n", value, strings.Join(dbg.Words, " "))
		} else {
			_, err = fmt.Fprintf(w, "%08b\n", value)
		}
		if err != nil {
			return
		}
	}

	return
}
