package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assemble returns a machine loaded with the program and data images of
// the source.
func assemble(t *testing.T, source ...string) (cpu *Cpu) {
	t.Helper()

	prog, err := parse(source...)
	require.NoError(t, err)

	cpu, err = NewCpu(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, cpu.Load(prog.Binary()))
	require.NoError(t, cpu.LoadData(0, prog.DataImage()))

	return
}

// run ticks the machine until the termination signal.
func run(t *testing.T, cpu *Cpu) {
	t.Helper()

	for range 10000 {
		err := cpu.Tick()
		if errors.Is(err, ErrSystemExit) {
			return
		}
		require.NoError(t, err)
	}

	t.Fatal("no termination signal")
}

func reg(cpu *Cpu, index int) uint8 {
	value, _ := cpu.Register.Read(index)
	return vectorByte(value)
}

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(DefaultConfig())
	assert.NoError(err)
	assert.Equal(STATE_IDLE, cpu.State)
	assert.Equal(PROGRAM_SIZE, cpu.Program.Size())
	assert.Equal(DATA_SIZE, cpu.Data.Size())

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}
	assert.Equal("0xff", defines["SYS_EXIT"])
	assert.Equal("16", defines["VECTOR_COUNT"])

	table := [](struct {
		config func(config *Config)
		err    error
	}){
		{func(config *Config) { config.ShadowPairs = 0 }, ErrShadowPairs},
		{func(config *Config) { config.ShadowPairs = 9 }, ErrShadowPairs},
		{func(config *Config) { config.DataSize = 0 }, ErrConfig},
		{func(config *Config) { config.DataSize = DATA_SIZE + 1 }, ErrConfig},
		{func(config *Config) { config.ProgramSize = PROGRAM_SIZE + 1 }, ErrConfig},
		{func(config *Config) { config.StackPolicy = StackPolicy(7) }, ErrConfig},
	}

	for n, entry := range table {
		config := DefaultConfig()
		entry.config(&config)
		_, err := NewCpu(config)
		assert.True(errors.Is(err, entry.err), "%d: %v", n, err)
	}
}

func TestCpuSysExit(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t, "sys 0xff")
	run(t, cpu)

	assert.Equal(1, cpu.Instructions())
	assert.Equal(2, cpu.Cycles)
	assert.Equal(0, cpu.HaltCycles)

	// Stays terminated.
	assert.True(errors.Is(cpu.Tick(), ErrSystemExit))
	assert.Equal(2, cpu.Cycles)
}

func TestCpuMvi(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t, "mvi 5, r0", "sys 0xff")
	run(t, cpu)

	assert.Equal(uint8(5), reg(cpu, 0))
	assert.Equal(2, cpu.Instructions())
	assert.Equal(4, cpu.Cycles)
}

func TestCpuHaltCycles(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t, "hlt", "sys 0xff")

	for range 3 {
		assert.NoError(cpu.Tick())
	}

	assert.Equal(STATE_HALTED, cpu.State)
	assert.Equal(0, cpu.Cycles, "the halting cycle is not active")
	assert.Equal(2, cpu.HaltCycles)
	assert.Equal(uint16(1), cpu.Pc.Value())
	assert.Equal(1, cpu.Instructions())
}

func TestCpuCurrent(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t, "mvi 5, r0", "psh r0", "sys 0xff")

	op, _ := cpu.Current()
	assert.Nil(op)

	assert.NoError(cpu.Tick())
	op, cycle := cpu.Current()
	if assert.NotNil(op) {
		assert.Equal(MNEM_MVI, op.Mnemonic)
		assert.Equal(1, cycle)
	}
	assert.Equal(uint16(1), cpu.Pc.Value())

	assert.NoError(cpu.Tick())
	op, _ = cpu.Current()
	assert.Nil(op)
	assert.Equal(uint16(2), cpu.Pc.Value())

	// Single cycle instruction.
	assert.NoError(cpu.Tick())
	assert.Equal(STATE_IDLE, cpu.State)
	assert.Equal(uint16(3), cpu.Pc.Value())
}

func TestCpuSubroutine(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"mvs 0x1000",
		"mvi 1, r0",
		"jsr sub",
		"mvi 3, r2",
		"sys 0xff",
		"sub: mvi 2, r1",
		"ret",
	)
	run(t, cpu)

	assert.Equal(uint8(1), reg(cpu, 0))
	assert.Equal(uint8(2), reg(cpu, 1))
	assert.Equal(uint8(3), reg(cpu, 2))
	assert.Equal(uint16(0x1000), cpu.Sp.Value())
	assert.Equal([]uint8{0x06, 0x00}, cpu.Data.Bytes(0x0fff, 2))
	assert.Equal(7, cpu.Instructions())
	assert.Equal(14, cpu.Cycles)
}

func TestCpuSubroutineHigh(t *testing.T) {
	assert := assert.New(t)

	// Return addresses above 0xff need the high nibble.
	source := []string{"mvs 0x1000", "jmp start", ".lbl sub", "ret"}
	for range 16 {
		source = append(source, ".align")
		source = append(source, "nop")
	}
	source = append(source, "start: jsr sub", "mvi 9, r5", "sys 0xff")

	cpu := assemble(t, source...)
	run(t, cpu)

	assert.Equal(uint8(9), reg(cpu, 5))
	assert.Equal(uint16(0x1000), cpu.Sp.Value())
}

func TestCpuBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		setup  []string
		branch string
		taken  bool
	}){
		{"bzi taken", []string{"mvi 0x80, r0", "mvi 0x80, r1", "add r0, r1"}, "bzi", true},
		{"bzi", []string{"mvi 1, r0", "mvi 1, r1", "add r0, r1"}, "bzi", false},
		{"bni taken", []string{"mvi 0x40, r0", "mvi 0x40, r1", "add r0, r1"}, "bni", true},
		{"bni", []string{"mvi 0x40, r0", "mvi 0x3f, r1", "add r0, r1"}, "bni", false},
		{"bci taken", []string{"mvi 1, r0", "mvi 2, r1", "sub r0, r1"}, "bci", true},
		{"bci", []string{"mvi 2, r0", "mvi 1, r1", "sub r0, r1"}, "bci", false},
		{"bxi taken", []string{"mvs 0x100", "mvi 0x08, r0", "psh r0", "lsr"}, "bxi", true},
		{"bxi", []string{"mvi 0xff, r0", "mvi 1, r1", "add r0, r1"}, "bxi", false},
	}

	for _, entry := range table {
		source := append([]string{}, entry.setup...)
		source = append(source,
			fmt.Sprintf("%v taken", entry.branch),
			"mvi 1, r2",
			"sys 0xff",
			"taken: mvi 2, r2",
			"sys 0xff",
		)
		cpu := assemble(t, source...)
		run(t, cpu)

		if entry.taken {
			assert.Equal(uint8(2), reg(cpu, 2), entry.name)
		} else {
			assert.Equal(uint8(1), reg(cpu, 2), entry.name)
		}
	}
}

func TestCpuLoop(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"  mvi 10, r0",
		"  mvi 0, r1",
		"loop:",
		"  adi 3, r1",
		"  sbi 1, r0",
		"  bzi done",
		"  jmp loop",
		"done:",
		"  sys 0xff",
	)
	run(t, cpu)

	assert.Equal(uint8(30), reg(cpu, 1))
	assert.Equal(10, cpu.Occurrence[MNEM_ADI])
	assert.Equal(9, cpu.Occurrence[MNEM_JMP])

	var mnems []Mnemonic
	for mnem := range cpu.Occurrences() {
		mnems = append(mnems, mnem)
	}
	assert.Equal([]Mnemonic{MNEM_BZI, MNEM_ADI, MNEM_SBI, MNEM_JMP, MNEM_MVI, MNEM_SYS}, mnems)
}

func TestCpuStack(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"mvs 0x0200",
		"mvi 7, r0",
		"psh r0",
		"pop a5",
		"mvi 0xff, r0",
		"mvi 1, r1",
		"add r0, r1",
		"str",
		"adi 1, r1",
		"lsr",
		"sys 0xff",
	)
	run(t, cpu)

	assert.Equal(uint8(7), reg(cpu, 13))
	assert.Equal(uint16(0x0200), cpu.Sp.Value())
	assert.Equal("Z-C-", cpu.Sr.String())
	assert.Equal([]uint8{0x05}, cpu.Data.Bytes(0x0200, 1))
}

func TestCpuByteMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		".dat 0x1030 0x99",
		"mvi 0x20, r2",
		"mvi 0x10, a2",
		"mvi 0xab, r0",
		"spb r0, 2",
		"mvi 0xcd, r0",
		"stb r0, 2",
		"mvi 0x20, r2",
		"lpb 2, r3",
		"ldb 2, r4",
		"mvi 0x30, r2",
		"ldb 2, r5",
		"sys 0xff",
	)
	run(t, cpu)

	assert.Equal([]uint8{0xab, 0xcd}, cpu.Data.Bytes(0x1020, 2))
	assert.Equal(uint8(0xab), reg(cpu, 3))
	assert.Equal(uint8(0xcd), reg(cpu, 4))
	assert.Equal(uint8(0x99), reg(cpu, 5))
}

func TestCpuSpecialMoves(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"mvs 0xabc0",
		"mvv 0x120, iv3",
		"mvi 0x34, r3",
		"mvi 0x12, a3",
		"sie 3",
		"rie 5",
		"sys 0xff",
	)
	run(t, cpu)

	assert.Equal(uint16(0xabc0), cpu.Sp.Value())
	target, err := cpu.VectorTarget(3)
	assert.NoError(err)
	assert.Equal(uint16(0x120), target)
	assert.Equal(uint16(0x1234), cpu.Ie.Mask())
	assert.Equal(uint8(0x34), reg(cpu, 5))
	assert.Equal(uint8(0x12), reg(cpu, 13))
}

func TestCpuAmc(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"mvi 0xdb, r0",
		"mvi 0x13, r1",
		"mvi 0x53, r2",
		"mvi 0x45, r3",
		"amc r0, r1",
		"amc r2, r3",
		"amc r0, r2",
		"amc r0, r1",
		"amc r1, r0",
		"sys 0xff",
	)
	run(t, cpu)

	assert.Equal(uint8(0x8e), reg(cpu, 0))
	assert.Equal(uint8(0x4d), reg(cpu, 1))
	assert.Equal(uint8(0xa1), reg(cpu, 2))
	assert.Equal(uint8(0xbc), reg(cpu, 3))
	assert.Equal(10, cpu.Instructions())
	assert.Equal(5, cpu.Occurrence[MNEM_AMC])
	assert.Equal(23, cpu.Cycles)
}

func TestCpuSwd(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t,
		"mvi 0x78, r0",
		"mvi 0x56, r1",
		"mvi 0x34, r2",
		"mvi 0x12, r3",
		"mvi 4, r4",
		"swd r0, r1",
		"swd r2, r3",
		"swd r4, r5",
		"swd r0, r6",
		"swd r0, r7",
		"swd r0, a0",
		"sys 0xff",
	)
	run(t, cpu)

	assert.Equal([]uint8{0x23, 0x45, 0x67, 0x81}, []uint8{reg(cpu, 5), reg(cpu, 6), reg(cpu, 7), reg(cpu, 8)})
	assert.Equal(25, cpu.Cycles)
}

func TestCpuGsp(t *testing.T) {
	assert := assert.New(t)

	var source []string
	for n := range REGISTER_COUNT {
		source = append(source, fmt.Sprintf("mvi %d, %v", n, RegisterName(n)))
	}
	for n := range GSP_LOADS {
		source = append(source, fmt.Sprintf("gsp %v, %v", RegisterName(2*n), RegisterName(2*n+1)))
	}
	// The last load holds into the first unload.
	source = append(source, "spb a7, 1")
	for range GSP_UNLDS - 1 {
		source = append(source, "gsp r0, r0", "spb r0, 1")
	}
	source = append(source, "sys 0xff")

	cpu := assemble(t, source...)
	run(t, cpu)

	assert.Equal([]uint8{
		0xb1, 0xb1, 0x13, 0x13, 0x04, 0x11, 0x15, 0x40,
		0x91, 0x3b, 0xbb, 0x99, 0x41, 0x54, 0x14, 0x41,
	}, cpu.Data.Bytes(0x0901, GSP_UNLDS))
}

func TestCpuErrors(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := NewCpu(DefaultConfig())

	// Decode error.
	assert.NoError(cpu.Load([]uint8{0xf0}))
	err := cpu.Tick()
	assert.True(errors.Is(err, ErrDecode))
	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(ErrOpcode{Pc: 0, Word: 0xf0}, eo)

	// Program counter runs past the image.
	cpu.Reset()
	assert.NoError(cpu.Load([]uint8{0x80, 0x01}))
	assert.NoError(cpu.Tick())
	err = cpu.Tick()
	assert.True(errors.Is(err, ErrMaxPc))

	// Strict stack.
	config := DefaultConfig()
	config.StackPolicy = STACK_STRICT
	cpu, _ = NewCpu(config)
	assert.NoError(cpu.Load([]uint8{0xd0, 0xcf, 0xff}))
	err = cpu.Tick()
	assert.True(errors.Is(err, ErrStackOverflow))

	// Oversized image.
	err = cpu.Load(make([]uint8, PROGRAM_SIZE+1))
	assert.True(errors.Is(err, ErrProgramSize))
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := assemble(t, "mvi 0x42, a1", "sys 0xff")
	run(t, cpu)

	text := cpu.String()
	assert.True(strings.HasPrefix(text, "state: idle\n"), text)
	assert.Contains(text, "   pc: 0x003\n")
	assert.Contains(text, "  bus: 0xff\n")
}
