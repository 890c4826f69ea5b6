package emulator

import (
	"errors"

	"github.com/ezrec/hokster/cpu"
	"github.com/ezrec/hokster/translate"
)

var f = translate.From

var (
	ErrNoProgram = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%03x %v", err.Pc, err.Err)
	}
	return f("pc 0x%03x line %d %v", err.Pc, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrBreakInstruction aborts the recognition of an instruction
// selected by BreakInstruction.
type ErrBreakInstruction struct {
	Mnemonic cpu.Mnemonic
	Pc       uint16
}

func (err ErrBreakInstruction) Error() string {
	return f("break on '%v' at pc 0x%03x", err.Mnemonic, err.Pc)
}
