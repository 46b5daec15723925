package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ls8io "github.com/ezrec/ls8/io"
)

const multImage = `10000010 # LDI R0,8
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

func writeFile(t *testing.T, dir string, name string, text string) (path string) {
	path = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return
}

func runArgs(args ...string) (code int, stdout string, stderr string) {
	var outb, errb bytes.Buffer
	code = run(args, &outb, &errb)
	stdout = outb.String()
	stderr = errb.String()
	return
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, t.TempDir(), "mult.ls8", multImage)

	code, stdout, stderr := runArgs(path)
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)
	assert.Empty(stderr)
}

func TestRun_Assembly(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := "LDI R0,3\nLDI R1,4\nADD R0,R1\nPRN R0\nHLT\n"

	code, stdout, _ := runArgs(writeFile(t, dir, "add.asm", source))
	assert.Equal(EXIT_OK, code)
	assert.Equal("7\n", stdout)

	// -a forces assembly for any extension.
	code, stdout, _ = runArgs("-a", writeFile(t, dir, "add.txt", source))
	assert.Equal(EXIT_OK, code)
	assert.Equal("7\n", stdout)
}

func TestRun_Trace(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, t.TempDir(), "mult.ls8", multImage)

	code, stdout, stderr := runArgs("-t", path)
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	assert.Len(lines, 5)
	assert.Equal("TRACE: 00 | 82 00 08 | 00 00 00 00 00 00 00 F4", lines[0])
}

func TestRun_Image(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := "LDI R0,8\nLDI R1,9\nMUL R0,R1\nPRN R0\nHLT\n"
	image := filepath.Join(dir, "mult.ls8")

	code, stdout, _ := runArgs("-o", image, writeFile(t, dir, "mult.asm", source))
	assert.Equal(EXIT_OK, code)
	assert.Empty(stdout)

	rom, err := ls8io.LoadRom(image)
	require.NoError(t, err)
	assert.Equal([]byte{0x82, 0, 8, 0x82, 1, 9, 0xa2, 0, 1, 0x47, 0, 0x01}, rom.Data)

	code, stdout, _ = runArgs(image)
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()

	table := [](struct {
		name   string
		args   []string
		code   int
		stderr string
	}){
		{"no-args", nil, EXIT_USAGE, "usage:"},
		{"extra-args", []string{"a.ls8", "b.ls8"}, EXIT_USAGE, "usage:"},
		{"bad-flag", []string{"-nope", "a.ls8"}, EXIT_USAGE, "-nope"},
		{"exclusive", []string{"-watch", "-debug", "a.ls8"}, EXIT_USAGE, "exclusive"},
		{"not-found", []string{filepath.Join(dir, "missing.ls8")}, EXIT_NOT_FOUND, "not found"},
		{"bad-image", []string{writeFile(t, dir, "bad.ls8", "2\n")}, EXIT_USAGE, "not an 8-bit binary literal"},
		{"bad-source", []string{writeFile(t, dir, "bad.asm", "JMP R0\n")}, EXIT_USAGE, "instruction invalid"},
		{"illegal", []string{writeFile(t, dir, "illegal.ls8", "11111111\n")}, EXIT_FAULT, "illegal instruction"},
		{"limit", []string{"-limit", "10", writeFile(t, dir, "loop.asm", "LDI R1,3\nCALL R1\n")}, EXIT_FAULT, "step limit reached"},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			code, _, stderr := runArgs(entry.args...)
			assert.Equal(entry.code, code)
			assert.Contains(stderr, entry.stderr)
		})
	}
}
