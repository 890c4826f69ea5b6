package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/hokster/io"
)

// Opcode is the program words assembled from one source line.
type Opcode struct {
	LineNo int      // Source line number.
	Pc     int      // Program address of the first word.
	Words  []string // Source words, after equate expansion.
	Codes  []uint8  // Program words.
}

// Program is an assembled program image and its data image.
type Program struct {
	Opcodes []Opcode
	Data    map[int]uint8 // Data words, by address.
}

// Debug locates a program address in the source.
type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= uint16(op.Pc) && pc < uint16(op.Pc)+uint16(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc - uint16(op.Pc)),
			}
			break
		}
	}

	return
}

// Codes iterates over all program words, by address.
func (prog *Program) Codes() iter.Seq2[uint16, uint8] {
	return func(yield func(pc uint16, code uint8) bool) {
		for _, op := range prog.Opcodes {
			pc := uint16(op.Pc)
			for n, code := range op.Codes {
				if !yield(pc+uint16(n), code) {
					return
				}
			}
		}
	}
}

// Binary returns the program image.
func (prog *Program) Binary() (words []uint8) {
	for _, code := range prog.Codes() {
		words = append(words, code)
	}
	return
}

// DataImage returns the data image from address 0 to the highest
// assembled data address, with gaps filled by zero.
func (prog *Program) DataImage() (words []uint8) {
	if len(prog.Data) == 0 {
		return
	}
	top := slices.Max(slices.Collect(maps.Keys(prog.Data)))
	words = make([]uint8, top+1)
	for addr, value := range prog.Data {
		words[addr] = value
	}
	return
}

// Rom returns the program image annotated with its source.
func (prog *Program) Rom() (rom *io.Rom) {
	rom = &io.Rom{
		Data:    prog.Binary(),
		Comment: map[int]string{},
	}
	for _, op := range prog.Opcodes {
		if len(op.Codes) == 0 {
			continue
		}
		rom.Comment[op.Pc] = fmt.Sprintf("%03X: %v", op.Pc, strings.Join(op.Words, " "))
	}
	return
}

// DataRom returns the data image.
func (prog *Program) DataRom() (rom *io.Rom) {
	rom = &io.Rom{Data: prog.DataImage()}
	return
}
