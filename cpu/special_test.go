package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hokster/bitvec"
	"github.com/ezrec/hokster/io"
)

func TestProgramCounter(t *testing.T) {
	assert := assert.New(t)

	pc := &ProgramCounter{}
	pc.Reset()
	assert.Equal(uint16(0), pc.Value())
	assert.Equal(uint16(PC_MAX), pc.Max)

	assert.NoError(pc.Advance(false))
	assert.Equal(uint16(1), pc.Value())

	assert.NoError(pc.Advance(true))
	assert.Equal(uint16(1), pc.Value())

	assert.NoError(pc.Write(bitvec.New(PC_WIDTH, 0x123)))
	assert.True(pc.Changed())
	assert.NoError(pc.Advance(false))
	assert.False(pc.Changed())
	assert.Equal(uint16(0x123), pc.Value())
	assert.NoError(pc.Advance(false))
	assert.Equal(uint16(0x124), pc.Value())

	err := pc.Write(bitvec.New(8, 0))
	assert.True(errors.Is(err, ErrWidth))

	pc.Save()
	pc.Write(bitvec.New(PC_WIDTH, 0x10))
	pc.Restore()
	assert.Equal(uint16(0x124), pc.Value())

	pc.Max = 0x124
	assert.NoError(pc.Advance(false))
	err = pc.Advance(false)
	assert.True(errors.Is(err, ErrMaxPc))
	assert.Equal(uint16(0x124), pc.Value())
}

func newStack(policy StackPolicy, size int) (sp *StackPointer) {
	sp = &StackPointer{Policy: policy, mem: NewMemory("dram", size, 8)}
	sp.Reset()
	return
}

func TestStackPointer(t *testing.T) {
	assert := assert.New(t)

	for _, policy := range []StackPolicy{STACK_WARN, STACK_STRICT} {
		sp := newStack(policy, 16)
		assert.NoError(sp.Write(bitvec.New(SP_WIDTH, 10)))

		values := []uint8{0x11, 0x22, 0x33}
		for _, value := range values {
			assert.NoError(sp.Push(byteVector(value)), policy)
		}
		assert.Equal(uint16(7), sp.Value(), policy)
		assert.Equal([]uint8{0x33, 0x22, 0x11}, sp.mem.Bytes(8, 3), policy)

		for n := range values {
			value, err := sp.Pop()
			assert.NoError(err, policy)
			assert.Equal(values[len(values)-1-n], vectorByte(value), policy)
		}
		assert.Equal(uint16(10), sp.Value(), policy)

		err := sp.Write(bitvec.New(8, 0))
		assert.True(errors.Is(err, ErrWidth))
	}
}

func TestStackPointerBounds(t *testing.T) {
	assert := assert.New(t)

	// Warn: push at 0 writes and stays at 0.
	sp := newStack(STACK_WARN, 16)
	assert.NoError(sp.Push(byteVector(0x5a)))
	assert.Equal(uint16(0), sp.Value())
	assert.Equal([]uint8{0x5a}, sp.mem.Bytes(0, 1))

	// Warn: pop at the top reads in place.
	sp.Write(bitvec.New(SP_WIDTH, 15))
	sp.mem.Write(15, byteVector(0xa5))
	value, err := sp.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0xa5), vectorByte(value))
	assert.Equal(uint16(15), sp.Value())

	// Strict: both are rejected, and nothing changes.
	sp = newStack(STACK_STRICT, 16)
	err = sp.Push(byteVector(0x5a))
	assert.True(errors.Is(err, ErrStackOverflow))
	assert.Equal(uint16(0), sp.Value())
	assert.Equal([]uint8{0}, sp.mem.Bytes(0, 1))

	sp.Write(bitvec.New(SP_WIDTH, 15))
	_, err = sp.Pop()
	assert.True(errors.Is(err, ErrStackUnderflow))
	assert.Equal(uint16(15), sp.Value())
}

func TestStatus(t *testing.T) {
	assert := assert.New(t)

	sr := &Status{}
	sr.Reset()
	assert.Equal("----", sr.String())

	sr.Set(FLAG_Z, true)
	sr.Set(FLAG_C, true)
	assert.True(sr.Get(FLAG_Z))
	assert.False(sr.Get(FLAG_N))
	assert.Equal(uint64(0x05), sr.Read().Uint())
	assert.Equal("Z-C-", sr.String())

	sr.Save()
	assert.NoError(sr.Write(byteVector(0x0a)))
	assert.Equal("-N-X", sr.String())
	sr.Restore()
	assert.Equal("Z-C-", sr.String())

	assert.True(errors.Is(sr.Write(bitvec.New(4, 0)), ErrWidth))

	assert.Equal("x", FLAG_X.String())
}

func TestInterruptEnable(t *testing.T) {
	assert := assert.New(t)

	ie := &InterruptEnable{}
	ie.Reset()
	assert.Equal(uint16(0), ie.Mask())

	assert.NoError(ie.Write(byteVector(0x12), byteVector(0x34)))
	assert.Equal(uint16(0x1234), ie.Mask())
	hi, lo := ie.Read()
	assert.Equal(uint64(0x12), hi.Uint())
	assert.Equal(uint64(0x34), lo.Uint())

	assert.True(errors.Is(ie.Write(bitvec.New(16, 0), byteVector(0)), ErrWidth))
	assert.Equal(uint16(0x1234), ie.Mask())
}

func TestSystemBus(t *testing.T) {
	assert := assert.New(t)

	tape := &io.Tape{}
	bus := &SystemBus{Channel: tape}
	bus.Reset()

	assert.NoError(bus.Write(byteVector('h')))
	assert.NoError(bus.Write(byteVector('i')))
	assert.False(bus.Exit())
	assert.Equal(uint64('i'), bus.Read().Uint())

	assert.NoError(bus.Write(byteVector(SYS_EXIT)))
	assert.True(bus.Exit())
	assert.Equal([]uint8{'h', 'i', SYS_EXIT}, tape.Data)

	bus.Reset()
	assert.False(bus.Exit())
	assert.Empty(tape.Data)

	assert.True(errors.Is(bus.Write(bitvec.New(9, 0)), ErrWidth))
}
