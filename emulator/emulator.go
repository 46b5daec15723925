// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/io"
)

const (
	CONTEXT_CHECK_TICKS = 1024 // Ticks between cancellation checks in Run.
)

// Emulator state. CPU + program listing + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Tape io.Tape // PRN output channel.

	StepLimit int                // Abort after this many instructions; zero for no limit.
	Tracer    func(tr cpu.Trace) // If set, called before every instruction.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.SetChannel(&emu.Tape)

	return
}

// ProgramFromRom builds a program listing from a loaded image, one line
// per byte.
func ProgramFromRom(rom *io.Rom) (prog *cpu.Program) {
	prog = &cpu.Program{}
	for addr, value := range rom.Receive() {
		lineno := 0
		if addr < len(rom.LineNo) {
			lineno = rom.LineNo[addr]
		}
		prog.Lines = append(prog.Lines, cpu.Line{
			LineNo: lineno,
			Addr:   addr,
			Words:  []string{fmt.Sprintf("%08b", value)},
			Bytes:  []byte{value},
		})
	}

	return
}

// IsAssembly reports whether path names assembly source rather than a
// binary image.
func IsAssembly(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		return true
	}
	return false
}

// LoadProgram reads a program from path, either as assembly source or as a
// binary image. A missing file is reported as io.ErrProgramNotFound.
func LoadProgram(path string, assemble bool, verbose bool) (prog *cpu.Program, err error) {
	if !assemble {
		var rom *io.Rom
		rom, err = io.LoadRom(path)
		if err != nil {
			return
		}
		prog = ProgramFromRom(rom)
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		err = io.NotFound(err)
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	prog, err = asm.Parse(inf)

	return
}

// Reset the emulator and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d lines", len(emu.Program.Lines))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if !emu.Cpu.Running {
		done = true
		return
	}

	if emu.StepLimit > 0 && emu.Cpu.Ticks >= emu.StepLimit {
		err = ErrStepLimit
		return
	}

	if emu.Tracer != nil {
		emu.Tracer(emu.Cpu.Trace())
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = !emu.Cpu.Running
	if done && emu.Verbose {
		log.Printf("emulator: halt at %02x after %d ticks", emu.Cpu.Pc, emu.Cpu.Ticks)
	}

	return
}

// Run ticks the emulator until the CPU halts, a fault occurs, or ctx is
// done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.Cpu.Running = true

	var done bool
	for n := 0; !done; n++ {
		if n%CONTEXT_CHECK_TICKS == 0 {
			err = ctx.Err()
			if err != nil {
				return
			}
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
