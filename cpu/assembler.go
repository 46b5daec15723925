// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"SP": "R7",
}

// mnemonicMap maps upper case mnemonics to instructions.
var mnemonicMap = func() (mnemonics map[string]*Instruction) {
	mnemonics = make(map[string]*Instruction, len(instructionSet)+1)
	for ins := range Instructions() {
		mnemonics[ins.Name] = ins
	}
	// Alternate name for SUB.
	mnemonics["DEC"] = dispatch[OP_SUB]
	return
}()

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// fixup is an operand resolved after all labels are known.
type fixup struct {
	line   int     // Index into Assembler.Lines
	offset int     // Byte offset in the line.
	kind   ArgKind // Operand kind.
	word   string  // Operand text.
}

// Assembler is a two pass assembler for the LS-8 system.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	fixups []fixup
	text   map[int]string // Source text by line number, for errors.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parseRegister returns the index of a register name.
func parseRegister(word string) (index byte, err error) {
	upper := strings.ToUpper(word)
	if len(upper) == 2 && upper[0] == 'R' && upper[1] >= '0' && upper[1] < '0'+REGISTER_COUNT {
		index = upper[1] - '0'
		return
	}

	err = errors.Join(ErrRegisterInvalid, ErrParseRegister(word))
	return
}

// toByte range checks an integer for storage in a byte.
// Negative values are stored in two's complement.
func toByte(v64 int64) (value byte, ok bool) {
	if v64 < -0x80 || v64 > 0xff {
		return
	}
	return byte(v64), true
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2 : len(word)-1])
	}

	addr, ok := asm.Label[word]
	if ok {
		value, ok = toByte(int64(addr))
		if !ok {
			err = ErrParseNumber(word)
		}
		return
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		if labelRe.MatchString(word) {
			err = ErrLabelMissing(word)
		} else {
			err = ErrParseNumber(word)
		}
		return
	}

	value, ok = toByte(v64)
	if !ok {
		err = ErrParseNumber(word)
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value byte, err error) {
	thread := starlark.Thread{Name: "ls8"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = toByte(st_int64)
	if !ok {
		err = ErrParseExpression(expr)
	}
	return
}

// resolve returns the byte encoding of an operand.
func (asm *Assembler) resolve(word string, kind ArgKind) (value byte, err error) {
	// Check for equate first. Register names are case insensitive.
	equate, ok := asm.Equate[word]
	if !ok && kind == ARG_REG {
		equate, ok = asm.Equate[strings.ToUpper(word)]
	}
	if ok {
		word = equate
	}

	switch kind {
	case ARG_REG:
		value, err = parseRegister(word)
	default:
		value, err = asm.valueOf(word)
	}

	return
}

// splitWords splits a statement on whitespace and commas, keeping
// $(...) expressions intact.
func splitWords(line string) (words []string) {
	var word strings.Builder
	depth := 0
	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ',' || r == ' ' || r == '\t'):
			flush()
			continue
		}
		word.WriteRune(r)
	}
	flush()
	return
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// emit appends a line of generated bytes, with operands to resolve later.
func (asm *Assembler) emit(lineno int, words []string, bytes []byte, kinds []ArgKind, args []string) (err error) {
	addr := asm.currentAddr()
	if addr+len(bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	index := len(asm.Lines)
	asm.Lines = append(asm.Lines, Line{LineNo: lineno, Addr: addr, Words: words, Bytes: bytes})

	offset := len(bytes) - len(args)
	for n, arg := range args {
		asm.fixups = append(asm.fixups, fixup{line: index, offset: offset + n, kind: kinds[n], word: arg})
	}

	return
}

// parseLine parses a single line of assembly text.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	words := splitWords(line)

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRe.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddr()
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	switch strings.ToLower(words[0]) {
	case ".equ":
		// .equ CONST VALUE
		if len(words) != 3 || !labelRe.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case ".db":
		// .db VALUE...
		args := words[1:]
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		kinds := make([]ArgKind, len(args))
		for n := range kinds {
			kinds[n] = ARG_IMM
		}
		err = asm.emit(lineno, words, make([]byte, len(args)), kinds, args)
		return
	}

	ins, ok := mnemonicMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) > len(ins.Args) {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < len(ins.Args) {
		err = ErrOpcodeValueMissing
		return
	}

	bytes := make([]byte, ins.Size())
	bytes[0] = byte(ins.Opcode)

	err = asm.emit(lineno, words, bytes, ins.Args, args)

	return
}

// link resolves all operands now that every label is known.
func (asm *Assembler) link() (err error) {
	for _, fix := range asm.fixups {
		line := &asm.Lines[fix.line]

		var value byte
		value, err = asm.resolve(fix.word, fix.kind)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: asm.text[line.LineNo], Err: err}
			return
		}

		line.Bytes[fix.offset] = value
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	asm.Lines = asm.Lines[:0]
	asm.fixups = asm.fixups[:0]
	asm.Label = make(map[string]int, 16)
	asm.text = make(map[int]string)
	asm.Equate = maps.Clone(sysEquate)
	maps.Insert(asm.Equate, Defines())
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		asm.text[lineno] = line

		err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels and expressions.
	err = asm.link()
	if err != nil {
		return
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
