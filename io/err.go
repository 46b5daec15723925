package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))

	// Loader errors
	ErrProgramNotFound = errors.New(f("program not found"))
	ErrRomTooLarge     = errors.New(f("program exceeds memory"))
	ErrRomLiteral      = errors.New(f("not an 8-bit binary literal"))
)

// ErrRomSyntax reports the image line that could not be loaded.
type ErrRomSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrRomSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrRomSyntax) Unwrap() error {
	return err.Err
}
