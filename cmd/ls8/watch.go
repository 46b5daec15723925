package main

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/ezrec/ls8/emulator"
)

// watchRun loads and runs the program once, logging the outcome.
func watchRun(ctx context.Context, opts options, stdout, stderr io.Writer) {
	prog, err := emulator.LoadProgram(opts.path, opts.assemble, opts.verbose)
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}

	emu, err := newEmulator(prog, opts, stdout, stderr)
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}

	err = emu.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Printf("watch: stopped after %d ticks", emu.Ticks())
	case err != nil:
		log.Printf("watch: %v", err)
	default:
		log.Printf("watch: halted after %d ticks", emu.Ticks())
	}
}

// watchProgram runs the program, and runs it again each time the file
// changes, until ctx is done.
func watchProgram(ctx context.Context, opts options, stdout, stderr io.Writer) (err error) {
	path := filepath.Clean(opts.path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	defer watcher.Close()

	err = watcher.Watch(filepath.Dir(path))
	if err != nil {
		return
	}

	cancel := context.CancelFunc(func() {})
	var finished chan struct{}
	wait := func() {
		cancel()
		if finished != nil {
			<-finished
		}
	}
	defer wait()

	start := func() {
		wait()

		var runCtx context.Context
		runCtx, cancel = context.WithCancel(ctx)
		finished = make(chan struct{})
		go func(done chan struct{}) {
			defer close(done)
			log.Printf("watch: run %s", filepath.Base(path))
			watchRun(runCtx, opts, stdout, stderr)
		}(finished)
	}

	rerun := time.After(1 * time.Millisecond)
	for {
		select {
		case <-ctx.Done():
			return
		case <-rerun:
			rerun = nil
			start()
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == path && !ev.IsAttrib() {
				rerun = time.After(100 * time.Millisecond)
			}
		case werr := <-watcher.Error:
			log.Printf("watch: watcher: %v", werr)
		}
	}
}
