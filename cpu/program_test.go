package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Words: []string{"mvi", "5", "a1"}, Codes: []uint8{0x89, 0x05}},
			{LineNo: 3, Pc: 2, Words: []string{"psh", "a1"}, Codes: []uint8{0xd9}},
			{LineNo: 4, Pc: 3, Words: []string{"sys", "0xff"}, Codes: []uint8{0xcf, 0xff}},
		},
		Data: map[int]uint8{2: 0xaa},
	}
}

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	table := [](struct {
		pc     uint16
		lineno int
		index  int
	}){
		{0, 1, 0},
		{1, 1, 1},
		{2, 3, 0},
		{3, 4, 0},
		{4, 4, 1},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.pc)
		if assert.NotNil(dbg.Opcode, "pc %v", entry.pc) {
			assert.Equal(entry.lineno, dbg.LineNo, "pc %v", entry.pc)
			assert.Equal(entry.index, dbg.Index, "pc %v", entry.pc)
		}
	}

	dbg := prog.Debug(5)
	assert.Nil(dbg.Opcode)
}

func TestProgramCodes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var pcs []uint16
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		if pc == 2 {
			assert.Equal(uint8(0xd9), code)
			break
		}
	}
	assert.Equal([]uint16{0, 1, 2}, pcs)

	assert.Equal([]uint8{0x89, 0x05, 0xd9, 0xcf, 0xff}, prog.Binary())
	assert.Nil((&Program{}).Binary())
}

func TestProgramDataImage(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal([]uint8{0, 0, 0xaa}, prog.DataImage())
	assert.Nil((&Program{}).DataImage())
}

func TestProgramRom(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	buff := &bytes.Buffer{}
	_, err := prog.Rom().WriteTo(buff)
	assert.NoError(err)

	expected := "" +
		"89\t-- 000: mvi 5 a1\n" +
		"05\n" +
		"D9\t-- 002: psh a1\n" +
		"CF\t-- 003: sys 0xff\n" +
		"FF\n"
	assert.Equal(expected, buff.String())

	buff.Reset()
	_, err = prog.DataRom().WriteTo(buff)
	assert.NoError(err)
	assert.Equal("00\n00\nAA\n", buff.String())
}

func TestProgramAssembled(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(
		"mvi 1, r0",
		"loop: sbi 1, r0",
		"bzi end",
		"jmp loop",
		"end: sys 0xff",
	)
	assert.NoError(err)

	dbg := prog.Debug(5)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)
	assert.Equal([]string{"bzi", "end"}, dbg.Words)
	assert.Equal([]uint8{0x80, 0x01, 0x9f, 0x00, 0x40, 0x08, 0x20, 0x02, 0xcf, 0xff}, prog.Binary())
}
