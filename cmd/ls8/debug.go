package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

var errNoTerminal = errors.New(translate.From("debugger requires a terminal"))

// Ticks between screen refreshes while continuing.
const debugRefreshTicks = 4096

var debugCommands = []string{"step", "continue", "pause", "break", "reset", "exit"}

type debugger struct {
	emu *emulator.Emulator

	log    *tview.TextView
	output *tview.TextView
	memory *tview.TextView
	state  *tview.TextView
	input  *tview.InputField
	cols   *tview.Flex
	rows   *tview.Flex
	app    *tview.Application

	mu      sync.Mutex
	breaks  map[int]bool
	history ls8io.Temporary // PRN output since reset.

	running atomic.Bool
	pause   atomic.Bool
}

func newDebugger(emu *emulator.Emulator) *debugger {
	d := &debugger{
		emu: emu,
		log: tview.NewTextView().
			SetMaxLines(1000),
		output: tview.NewTextView().
			SetMaxLines(1000),
		memory: tview.NewTextView().
			SetWrap(false).
			SetDynamicColors(true),
		state: tview.NewTextView().
			SetWrap(false),
		input:  tview.NewInputField(),
		cols:   tview.NewFlex(),
		rows:   tview.NewFlex().SetDirection(tview.FlexRow),
		app:    tview.NewApplication(),
		breaks: make(map[int]bool),
	}

	emu.SetChannel(&d.history)

	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.log.SetBorder(true).SetTitle("log")
	d.output.SetBorder(true).SetTitle("output")
	d.memory.SetBorder(true).SetTitle("memory")
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.output, 0, 1, false).
		AddItem(d.log, 0, 1, false)
	d.cols.
		AddItem(d.memory, 56, 0, false).
		AddItem(right, 0, 1, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetLabel("> ")
	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if len(t) == 0 || strings.Contains(t, " ") {
			return
		}
		for _, cmd := range debugCommands {
			if strings.HasPrefix(cmd, t) {
				entries = append(entries, cmd)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		d.input.SetText("")
		if cmd == "" {
			cmd = "step"
		}
		d.command(cmd)
	})

	d.refresh()

	return d
}

func (d *debugger) Run() error { return d.app.Run() }

// command executes one debugger command line.
func (d *debugger) command(line string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	if d.running.Load() && cmd != "p" && cmd != "pause" && cmd != "exit" && cmd != "q" {
		log.Printf("running; pause first")
		return
	}

	switch cmd {
	case "s", "step":
		count := 1
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				log.Printf("invalid count %q", arg)
				return
			}
			count = n
		}
		d.step(count)
	case "c", "continue":
		d.resume()
	case "p", "pause":
		d.pause.Store(true)
	case "b", "break":
		d.toggleBreak(arg)
	case "r", "reset":
		d.mu.Lock()
		err := d.emu.Reset()
		d.mu.Unlock()
		if err != nil {
			log.Printf("reset: %v", err)
		} else {
			log.Printf("reset")
		}
	case "q", "exit":
		d.pause.Store(true)
		d.app.Stop()
		return
	default:
		log.Printf("unknown command %q", cmd)
	}

	d.refresh()
}

// toggleBreak toggles the breakpoint at the address in arg, or clears all
// breakpoints if arg is empty.
func (d *debugger) toggleBreak(arg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if arg == "" {
		clear(d.breaks)
		log.Print("cleared breaks")
		return
	}

	addr, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		log.Printf("invalid addr %q", arg)
		return
	}

	if d.breaks[int(addr)] {
		delete(d.breaks, int(addr))
		log.Printf("clear break %02x", addr)
	} else {
		d.breaks[int(addr)] = true
		log.Printf("set break %02x", addr)
	}
}

// tick executes one instruction. stop is set when execution cannot
// continue.
func (d *debugger) tick() (stop bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	done, err := d.emu.Tick()
	switch {
	case err != nil:
		log.Printf("fault: %v", err)
		return true
	case done:
		log.Printf("halted after %d ticks", d.emu.Ticks())
		return true
	}

	return false
}

func (d *debugger) atBreak() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.breaks[d.emu.Pc()]
}

func (d *debugger) step(count int) {
	for range count {
		if d.tick() {
			return
		}
	}
}

// resume runs the program in the background until it halts, faults, hits
// a breakpoint, or is paused.
func (d *debugger) resume() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	d.pause.Store(false)

	go func() {
		defer func() {
			d.running.Store(false)
			d.app.QueueUpdateDraw(d.refresh)
		}()

		d.until(func() { d.app.QueueUpdateDraw(d.refresh) })
	}()
}

// until ticks until the program halts, faults, hits a breakpoint, or is
// paused. redraw, if set, is called every debugRefreshTicks.
func (d *debugger) until(redraw func()) {
	for n := 1; ; n++ {
		if d.tick() {
			return
		}
		if d.atBreak() {
			log.Printf("break at %02x", d.emu.Pc())
			return
		}
		if d.pause.Load() {
			log.Printf("paused at %02x", d.emu.Pc())
			return
		}
		if redraw != nil && n%debugRefreshTicks == 0 {
			redraw()
		}
	}
}

// refresh redraws the memory and state panes.
func (d *debugger) refresh() {
	d.mu.Lock()
	memory := memoryDump(d.emu.Cpu, d.breaks)
	state := stateMsg(d.emu, d.running.Load())
	output := d.history.String()
	d.mu.Unlock()

	d.memory.SetText(memory)
	d.state.SetText(state)
	d.output.SetText(output)
	d.output.ScrollToEnd()
}

// memoryDump renders memory as a hex dump, highlighting PC, SP and
// breakpoints.
func memoryDump(c *cpu.Cpu, breaks map[int]bool) string {
	var b strings.Builder

	sp := int(c.Register[cpu.SP])
	for row := 0; row < cpu.MEMORY_SIZE; row += 16 {
		fmt.Fprintf(&b, "%02X:", row)
		for addr := row; addr < row+16; addr++ {
			value := c.Memory[addr]
			switch {
			case addr == c.Pc:
				fmt.Fprintf(&b, " [black:yellow]%02X[-:-]", value)
			case breaks[addr]:
				fmt.Fprintf(&b, " [white:red]%02X[-:-]", value)
			case addr == sp:
				fmt.Fprintf(&b, " [black:green]%02X[-:-]", value)
			default:
				fmt.Fprintf(&b, " %02X", value)
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func stateMsg(emu *emulator.Emulator, running bool) string {
	text, _ := cpu.Disassemble(&emu.Cpu.Memory, emu.Pc())

	kind := "[pause]"
	switch {
	case running:
		kind = "[run]  "
	case !emu.Cpu.Running:
		kind = "[HALT!]"
	}

	return fmt.Sprintf("%v %v  line %d  ticks %d\n%-12s\n",
		kind, emu.Cpu.Trace(), emu.LineNo(), emu.Ticks(), text)
}

// debugProgram runs prog under the interactive debugger.
func debugProgram(prog *cpu.Program, opts options) (err error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		err = errNoTerminal
		return
	}

	opts.trace = false
	emu, err := newEmulator(prog, opts, nil, nil)
	if err != nil {
		return
	}

	d := newDebugger(emu)

	log.SetPrefix("")
	log.SetOutput(d.log)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("ls8: ")
	}()

	log.Printf("debug: %v loaded, %d lines", opts.path, len(prog.Lines))

	err = d.Run()

	return
}
