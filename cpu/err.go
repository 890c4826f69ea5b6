package cpu

import (
	"errors"

	"github.com/ezrec/hokster/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrDecode         = errors.New(f("decode"))
	ErrAddress        = errors.New(f("address out of range"))
	ErrWidth          = errors.New(f("word width mismatch"))
	ErrMaxPc          = errors.New(f("max pc exceeded"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrSystemExit     = errors.New(f("termination signal received"))
	ErrShadowPairs    = errors.New(f("shadow pair count invalid"))
	ErrConfig         = errors.New(f("configuration invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelSyntax        = errors.New(f(".lbl syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDataSyntax         = errors.New(f(".dat syntax"))
	ErrDataOverlap        = errors.New(f(".dat overlaps"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrVectorInvalid      = errors.New(f("interrupt vector invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrProgramSize        = errors.New(f("program too large"))
	ErrExitMissing        = errors.New(f("program has no 'sys 0xff' termination"))
)

// ErrOpcode is returned when a program word does not decode.
type ErrOpcode struct {
	Pc   uint16
	Word uint8
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x at pc 0x%03x", eo.Word, eo.Pc)
}

func (eo ErrOpcode) Unwrap() error {
	return ErrDecode
}

// ErrAccess is returned when a storage unit is addressed out of range.
type ErrAccess struct {
	Unit string
	Addr int
}

func (err ErrAccess) Error() string {
	return f("%v: address 0x%x out of range", err.Unit, err.Addr)
}

func (err ErrAccess) Unwrap() error {
	return ErrAddress
}

// ErrWordWidth is returned when a storage unit is written with a word of
// the wrong width.
type ErrWordWidth struct {
	Unit string
	Want int
	Got  int
}

func (err ErrWordWidth) Error() string {
	return f("%v: %v bit word written to %v bit storage", err.Unit, err.Got, err.Want)
}

func (err ErrWordWidth) Unwrap() error {
	return ErrWidth
}

// ErrSyntax wraps an assembler error with its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}
