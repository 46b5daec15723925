package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/ls8/io"
)

func testProgram() *Program {
	return &Program{
		Lines: []Line{
			{LineNo: 1, Addr: 0, Words: []string{"LDI", "R0", "8"}, Bytes: []byte{0x82, 0, 8}},
			{LineNo: 2, Addr: 3, Words: []string{"PRN", "R0"}, Bytes: []byte{0x47, 0}},
			{LineNo: 4, Addr: 5, Words: []string{"HLT"}, Bytes: []byte{0x01}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Line)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Line)
	assert.Equal(4, dbg.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(10)
	assert.Nil(dbg.Line)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal([]byte{0x82, 0, 8, 0x47, 0, 0x01}, prog.Binary())

	empty := &Program{}
	assert.Empty(empty.Binary())

	// Gaps are zero filled.
	sparse := &Program{Lines: []Line{{Addr: 2, Bytes: []byte{0x01}}}}
	assert.Equal([]byte{0, 0, 0x01}, sparse.Binary())
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	buf := &bytes.Buffer{}
	require.NoError(t, prog.Image(buf))

	expected := []string{
		"10000010 # LDI R0 8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}
	assert.Equal(strings.Join(expected, "\n")+"\n", buf.String())

	rom, err := io.ReadRom(buf)
	assert.NoError(err)
	assert.Equal(prog.Binary(), rom.Data)
}
