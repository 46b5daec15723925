// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command ls8 runs LS-8 programs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

// Process exit codes.
const (
	EXIT_OK        = 0
	EXIT_USAGE     = 1
	EXIT_NOT_FOUND = 2
	EXIT_FAULT     = 3
)

// options are the parsed command line flags.
type options struct {
	verbose  bool
	trace    bool
	assemble bool
	output   string
	limit    int
	watch    bool
	debug    bool
	path     string
}

func main() {
	log.SetPrefix("ls8: ")
	log.SetFlags(0)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseArgs parses the command line. ok is false if the program should
// exit with EXIT_USAGE.
func parseArgs(args []string, stderr io.Writer) (opts options, ok bool) {
	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.BoolVar(&opts.verbose, "v", false, "Verbose mode")
	flags.BoolVar(&opts.trace, "t", false, "Trace every instruction to stderr")
	flags.BoolVar(&opts.assemble, "a", false, "Program is assembly source (default for .asm and .s)")
	flags.StringVar(&opts.output, "o", "", "Write the program image to `file`, do not execute")
	flags.IntVar(&opts.limit, "limit", 0, "Abort after `n` instructions (0 for no limit)")
	flags.BoolVar(&opts.watch, "watch", false, "Re-run the program whenever it changes")
	flags.BoolVar(&opts.debug, "debug", false, "Interactive debugger")

	flags.Usage = func() {
		translate.Fprintf(stderr, "usage: %v [flags] <program.ls8 | program.asm>\n", flags.Name())
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return
	}

	if opts.watch && opts.debug {
		translate.Fprintf(stderr, "%v: -watch and -debug are exclusive\n", flags.Name())
		return
	}

	opts.path = flags.Arg(0)
	opts.assemble = opts.assemble || emulator.IsAssembly(opts.path)
	ok = true

	return
}

// newEmulator creates an emulator for prog writing PRN output to stdout.
func newEmulator(prog *cpu.Program, opts options, stdout, stderr io.Writer) (emu *emulator.Emulator, err error) {
	emu = emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = opts.verbose
	emu.StepLimit = opts.limit
	emu.Tape.Output = stdout

	if opts.trace {
		emu.Tracer = func(tr cpu.Trace) {
			fmt.Fprintln(stderr, tr.String())
		}
	}

	err = emu.Reset()

	return
}

// loadError reports a program loading error and returns the exit code.
func loadError(stderr io.Writer, path string, err error) int {
	if errors.Is(err, ls8io.ErrProgramNotFound) {
		translate.Fprintf(stderr, "ls8: %v not found\n", path)
		return EXIT_NOT_FOUND
	}

	translate.Fprintf(stderr, "ls8: %v: %v\n", path, err)
	return EXIT_USAGE
}

// writeImage assembles the program to an image file.
func writeImage(prog *cpu.Program, output string) (err error) {
	ouf, err := os.Create(output)
	if err != nil {
		return
	}

	err = prog.Image(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()

	return
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, ok := parseArgs(args, stderr)
	if !ok {
		return EXIT_USAGE
	}

	prog, err := emulator.LoadProgram(opts.path, opts.assemble, opts.verbose)
	if err != nil {
		return loadError(stderr, opts.path, err)
	}

	if len(opts.output) != 0 {
		err = writeImage(prog, opts.output)
		if err != nil {
			translate.Fprintf(stderr, "ls8: %v: %v\n", opts.output, err)
			return EXIT_USAGE
		}
		return EXIT_OK
	}

	if opts.watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		err = watchProgram(ctx, opts, stdout, stderr)
		if err != nil {
			translate.Fprintf(stderr, "ls8: %v\n", err)
			return EXIT_FAULT
		}
		return EXIT_OK
	}

	if opts.debug {
		err = debugProgram(prog, opts)
		if err != nil {
			translate.Fprintf(stderr, "ls8: %v\n", err)
			return EXIT_FAULT
		}
		return EXIT_OK
	}

	emu, err := newEmulator(prog, opts, stdout, stderr)
	if err != nil {
		translate.Fprintf(stderr, "ls8: %v: %v\n", opts.path, err)
		return EXIT_USAGE
	}

	err = emu.Run(context.Background())
	if err != nil {
		translate.Fprintf(stderr, "ls8: %v: %v\n", opts.path, err)
		if opts.verbose {
			fmt.Fprint(stderr, emu.Cpu.String())
		}
		return EXIT_FAULT
	}

	return EXIT_OK
}
