package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// alu runs an ALU handler with src in r0 and dst in r1.
func alu(cpu *Cpu, handler Handler, src, dst uint8, carry bool) (result uint8) {
	cpu.Register.Write(0, byteVector(src))
	cpu.Register.Write(1, byteVector(dst))
	cpu.Sr.Reset()
	cpu.Sr.Set(FLAG_C, carry)
	handler(cpu, Operand{Word: 0x01})
	value, _ := cpu.Register.Read(1)
	return vectorByte(value)
}

func TestAluFlags(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(DefaultConfig())
	assert.NoError(err)

	for a := range 256 {
		for b := range 256 {
			for _, c := range []bool{false, true} {
				cin := 0
				if c {
					cin = 1
				}
				table := [](struct {
					name    string
					handler Handler
					result  int
					carry   bool
				}){
					{"add", (*Cpu).opAdd, a + b, a+b > 0xff},
					{"adc", (*Cpu).opAdc, a + b + cin, a+b+cin > 0xff},
					{"sub", (*Cpu).opSub, a - b, a < b},
					{"sbc", (*Cpu).opSbc, a - b - cin, a < b+cin},
				}
				for _, entry := range table {
					got := alu(cpu, entry.handler, uint8(a), uint8(b), c)
					want := uint8(entry.result)
					if got != want ||
						cpu.Sr.Get(FLAG_C) != entry.carry ||
						cpu.Sr.Get(FLAG_Z) != (want == 0) ||
						cpu.Sr.Get(FLAG_N) != (want&0x80 != 0) {
						assert.Fail(fmt.Sprintf("%v a=0x%02x b=0x%02x c=%v", entry.name, a, b, c),
							"got 0x%02x %v, want 0x%02x", got, cpu.Sr.String(), want)
						return
					}
				}
			}
		}
	}
}

func TestAluImmediate(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := NewCpu(DefaultConfig())

	for b := range 256 {
		for imm := 1; imm <= 16; imm++ {
			word := uint8(imm-1)<<4 | 1

			cpu.Register.Write(1, byteVector(uint8(b)))
			cpu.opAdi(Operand{Word: word})
			value, _ := cpu.Register.Read(1)
			assert.Equal(uint8(b+imm), vectorByte(value))
			assert.Equal(b+imm > 0xff, cpu.Sr.Get(FLAG_C))

			cpu.Register.Write(1, byteVector(uint8(b)))
			cpu.opSbi(Operand{Word: word})
			value, _ = cpu.Register.Read(1)
			assert.Equal(uint8(b-imm), vectorByte(value))
			assert.Equal(b < imm, cpu.Sr.Get(FLAG_C))
			assert.Equal(b == imm, cpu.Sr.Get(FLAG_Z))
		}
	}
}

func TestAluLogic(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := NewCpu(DefaultConfig())

	table := [](struct {
		name    string
		handler Handler
		src     uint8
		dst     uint8
		result  uint8
	}){
		{"and", (*Cpu).opAnd, 0xf0, 0x3c, 0x30},
		{"lor", (*Cpu).opLor, 0xf0, 0x3c, 0xfc},
		{"xor", (*Cpu).opXor, 0xf0, 0x3c, 0xcc},
		{"not", (*Cpu).opNot, 0xf0, 0x3c, 0x0f},
		{"sll", (*Cpu).opSll, 3, 0x81, 0x08},
		{"sll8", (*Cpu).opSll, 8, 0x81, 0x00},
		{"slr", (*Cpu).opSlr, 3, 0x81, 0x10},
		{"slr200", (*Cpu).opSlr, 200, 0xff, 0x00},
		{"rol", (*Cpu).opRol, 3, 0x81, 0x0c},
		{"rol9", (*Cpu).opRol, 9, 0x81, 0x03},
		{"ror", (*Cpu).opRor, 3, 0x81, 0x30},
		{"ror0", (*Cpu).opRor, 0, 0x81, 0x81},
		{"mov", (*Cpu).opMov, 0x42, 0x00, 0x42},
		{"asb", (*Cpu).opAsb, 0x53, 0x00, 0xed},
		{"asb0", (*Cpu).opAsb, 0x00, 0x00, 0x63},
	}

	for _, entry := range table {
		// Logic operations leave the flags alone.
		result := alu(cpu, entry.handler, entry.src, entry.dst, true)
		assert.Equal(entry.result, result, entry.name)
		assert.True(cpu.Sr.Get(FLAG_C), entry.name)
		assert.False(cpu.Sr.Get(FLAG_Z), entry.name)
	}
}

func TestAesSbox(t *testing.T) {
	assert := assert.New(t)

	// The S-box is a permutation with no fixed points.
	seen := map[uint8]bool{}
	for n, value := range aesSbox {
		assert.NotEqual(uint8(n), value)
		seen[value] = true
	}
	assert.Equal(256, len(seen))
}
