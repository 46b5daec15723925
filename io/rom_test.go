package io

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multImage = `# mult.ls8
10000010 # LDI R0,8
00000000
00001000
10000010 # LDI R1,9
00000001
00001001

10100010 # MUL R0,R1
00000000
00000001
01000111 # PRN R0
00000000
00000001 # HLT
`

func TestReadRom(t *testing.T) {
	assert := assert.New(t)

	rom, err := ReadRom(strings.NewReader(multImage))
	require.NoError(t, err)

	assert.Equal([]byte{0x82, 0, 8, 0x82, 1, 9, 0xa2, 0, 1, 0x47, 0, 0x01}, rom.Data)
	assert.Equal([]int{2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14}, rom.LineNo)
}

func TestReadRom_Empty(t *testing.T) {
	assert := assert.New(t)

	rom, err := ReadRom(strings.NewReader("# nothing here\n\n   \n"))
	assert.NoError(err)
	assert.Empty(rom.Data)
}

func TestReadRom_Errors(t *testing.T) {
	table := [](struct {
		name   string
		image  string
		lineno int
	}){
		{"decimal", "00000001\n12\n", 2},
		{"wide", "100000000\n", 1},
		{"text", "# ok\nHLT # nope\n", 2},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			rom, err := ReadRom(strings.NewReader(entry.image))
			assert.Nil(rom)
			assert.ErrorIs(err, ErrRomLiteral)

			var syntax *ErrRomSyntax
			if assert.True(errors.As(err, &syntax)) {
				assert.Equal(entry.lineno, syntax.LineNo)
			}
		})
	}
}

func TestReadRom_TooLarge(t *testing.T) {
	assert := assert.New(t)

	image := strings.Repeat("00000001\n", ROM_LIMIT)
	rom, err := ReadRom(strings.NewReader(image))
	assert.NoError(err)
	assert.Len(rom.Data, ROM_LIMIT)

	rom, err = ReadRom(strings.NewReader(image + "00000001\n"))
	assert.Nil(rom)
	assert.ErrorIs(err, ErrRomTooLarge)
}

func TestRom_Receive(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{3, 2, 1}}

	var addrs []int
	var values []byte
	for addr, value := range rom.Receive() {
		addrs = append(addrs, addr)
		values = append(values, value)
		if addr == 1 {
			break
		}
	}

	assert.Equal([]int{0, 1}, addrs)
	assert.Equal([]byte{3, 2}, values)
}

func TestLoadRom(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "mult.ls8")
	require.NoError(t, os.WriteFile(path, []byte(multImage), 0o644))

	rom, err := LoadRom(path)
	assert.NoError(err)
	assert.Len(rom.Data, 12)

	_, err = LoadRom(filepath.Join(t.TempDir(), "missing.ls8"))
	assert.ErrorIs(err, ErrProgramNotFound)
	assert.ErrorIs(err, fs.ErrNotExist)
}

func TestLoadRomFS(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"examples/mult.ls8": &fstest.MapFile{Data: []byte(multImage)},
		"examples/bad.ls8":  &fstest.MapFile{Data: []byte("2\n")},
	}

	rom, err := LoadRomFS(fsys, "examples/mult.ls8")
	assert.NoError(err)
	assert.Equal(byte(0x82), rom.Data[0])

	_, err = LoadRomFS(fsys, "examples/bad.ls8")
	assert.ErrorIs(err, ErrRomLiteral)
	assert.NotErrorIs(err, ErrProgramNotFound)

	_, err = LoadRomFS(fsys, "examples/none.ls8")
	assert.ErrorIs(err, ErrProgramNotFound)
}

func TestNotFound(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(NotFound(nil))
	assert.Equal(ErrChannelFull, NotFound(ErrChannelFull))
	assert.ErrorIs(NotFound(fs.ErrNotExist), ErrProgramNotFound)
}
