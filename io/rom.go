package io

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ROM_LIMIT is the largest image that fits in LS-8 memory.
const ROM_LIMIT = 256

// Rom is a loaded program image.
type Rom struct {
	Data   []byte // Bytes, in address order from 0.
	LineNo []int  // Source line of each byte.
}

// Receive returns an iterator over the address and value of every byte.
func (rc *Rom) Receive() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for addr, value := range rc.Data {
			if !yield(addr, value) {
				return
			}
		}
	}
}

// ReadRom parses a program image.
//
// Each non-blank line holds one binary literal, optionally followed by a
// '#' comment. Comment-only lines are skipped.
func ReadRom(input io.Reader) (rom *Rom, err error) {
	scanner := bufio.NewScanner(input)

	rom = &Rom{}

	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		num, _, _ := strings.Cut(text, "#")
		num = strings.TrimSpace(num)
		if len(num) == 0 {
			continue
		}

		value, perr := strconv.ParseUint(num, 2, 8)
		if perr != nil {
			err = &ErrRomSyntax{LineNo: lineno, Line: text, Err: ErrRomLiteral}
			return nil, err
		}

		if len(rom.Data) == ROM_LIMIT {
			err = &ErrRomSyntax{LineNo: lineno, Line: text, Err: ErrRomTooLarge}
			return nil, err
		}

		rom.Data = append(rom.Data, byte(value))
		rom.LineNo = append(rom.LineNo, lineno)
	}

	err = scanner.Err()
	if err != nil {
		return nil, err
	}

	return
}

// LoadRom reads the program image at path.
// A missing file is reported as ErrProgramNotFound.
func LoadRom(path string) (rom *Rom, err error) {
	return LoadRomFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadRomFS reads the program image name from fsys.
func LoadRomFS(fsys fs.FS, name string) (rom *Rom, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		err = NotFound(err)
		return
	}
	defer inf.Close()

	return ReadRom(inf)
}

// NotFound converts a missing-file error into ErrProgramNotFound.
func NotFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrProgramNotFound, err)
	}
	return err
}
