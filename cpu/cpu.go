package cpu

import (
	"cmp"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/hokster/io"
)

// Channel receives values latched onto the system bus.
type Channel io.Channel

const (
	PROGRAM_SIZE  = 1 << PC_WIDTH // Program memory words.
	PROGRAM_WIDTH = 8             // Program word width.
	DATA_SIZE     = 1 << SP_WIDTH // Data memory words.
	DATA_WIDTH    = 8             // Data word width.
	SHADOW_PAIRS  = 2             // Default shadowed register pairs.
)

var _cpu_defines = map[string]string{
	"SYS_EXIT":       fmt.Sprintf("0x%x", SYS_EXIT),
	"PC_MAX":         fmt.Sprintf("0x%x", PC_MAX),
	"PROGRAM_SIZE":   fmt.Sprintf("%d", PROGRAM_SIZE),
	"DATA_SIZE":      fmt.Sprintf("%d", DATA_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"VECTOR_COUNT":   fmt.Sprintf("%d", VECTOR_COUNT),
}

// State is the program state of the cycle state machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_IDLE      = State(0) // idle
	STATE_EXECUTING = State(1) // executing
	STATE_HALTED    = State(2) // halted
)

// Config sets the machine geometry and policies.
type Config struct {
	ProgramSize int         // Program memory words, at most PROGRAM_SIZE.
	DataSize    int         // Data memory words, at most DATA_SIZE.
	ShadowPairs int         // Register pairs saved on interrupt entry, 1..8.
	StackPolicy StackPolicy // Behaviour at the stack bounds.
}

// DefaultConfig returns the configuration of the reference machine.
func DefaultConfig() Config {
	return Config{
		ProgramSize: PROGRAM_SIZE,
		DataSize:    DATA_SIZE,
		ShadowPairs: SHADOW_PAIRS,
		StackPolicy: STACK_WARN,
	}
}

// Validate the configuration.
func (config Config) Validate() (err error) {
	switch {
	case config.ProgramSize < 1 || config.ProgramSize > PROGRAM_SIZE:
		err = fmt.Errorf("%w: program size %d", ErrConfig, config.ProgramSize)
	case config.DataSize < 1 || config.DataSize > DATA_SIZE:
		err = fmt.Errorf("%w: data size %d", ErrConfig, config.DataSize)
	case config.ShadowPairs < 1 || config.ShadowPairs > REGISTER_BANK:
		err = fmt.Errorf("%w: %d", ErrShadowPairs, config.ShadowPairs)
	case config.StackPolicy != STACK_WARN && config.StackPolicy != STACK_STRICT:
		err = fmt.Errorf("%w: stack policy %d", ErrConfig, config.StackPolicy)
	}
	return
}

// Cpu is the cycle level simulation of the machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Config  Config

	Register *RegisterFile // General registers.
	Vector   *RegisterFile // Interrupt vector registers.
	Program  *Memory       // Program memory.
	Data     *Memory       // Data memory.

	Pc  ProgramCounter
	Sp  StackPointer
	Sr  Status
	Ie  InterruptEnable
	Bus SystemBus

	Amc AmcPipeline
	Swd SwdPipeline
	Gsp GspPipeline

	State     State // Program state.
	Interrupt bool  // Set while an interrupt is being serviced.

	Cycles     int              // Active cycles.
	HaltCycles int              // Cycles spent halted.
	Occurrence map[Mnemonic]int // Recognized instructions, by mnemonic.

	PcInterrupt    map[uint16]uint16 // Pending vector masks, by program counter.
	CycleInterrupt map[int]uint16    // Pending vector masks, by cycle.

	// Recognize, if set, is called when an instruction is recognized,
	// before it executes. A returned error aborts the instruction and is
	// returned by Tick.
	Recognize func(op *Operation, pc uint16) error

	op      *Operation
	cur     int
	operand Operand
	hold    bool
}

// NewCpu creates a machine with the given configuration.
func NewCpu(config Config) (cpu *Cpu, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	cpu = &Cpu{
		Config:         config,
		Register:       NewRegisterFile("reg", REGISTER_WIDTH),
		Vector:         NewRegisterFile("iv", REGISTER_WIDTH),
		Program:        NewMemory("pram", config.ProgramSize, PROGRAM_WIDTH),
		Data:           NewMemory("dram", config.DataSize, DATA_WIDTH),
		Occurrence:     map[Mnemonic]int{},
		PcInterrupt:    map[uint16]uint16{},
		CycleInterrupt: map[int]uint16{},
	}
	cpu.Sp.mem = cpu.Data
	cpu.Reset()

	return
}

// Defines for the assembler.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

func (cpu *Cpu) logf(format string, args ...any) {
	log.Print("cpu: " + f(format, args...))
}

// Reset all storage to zero, and return to the idle state.
// Pending interrupt requests are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logf("reset")
	}

	cpu.Register.Reset()
	cpu.Vector.Reset()
	cpu.Program.Reset()
	cpu.Data.Reset()
	cpu.Pc.Reset()
	cpu.Sp.Reset()
	cpu.Sp.Policy = cpu.Config.StackPolicy
	cpu.Sr.Reset()
	cpu.Ie.Reset()
	cpu.Bus.Reset()
	cpu.Amc.Reset()
	cpu.Swd.Reset()
	cpu.Gsp.Reset()

	cpu.State = STATE_IDLE
	cpu.Interrupt = false
	cpu.Cycles = 0
	cpu.HaltCycles = 0
	clear(cpu.Occurrence)

	cpu.op = nil
	cpu.cur = 0
	cpu.operand = Operand{}
	cpu.hold = false
}

// Load a program image at address 0. The program counter may advance up
// to the last word of the image.
func (cpu *Cpu) Load(words []uint8) (err error) {
	if len(words) > cpu.Program.Size() {
		err = fmt.Errorf("%w: %d words", ErrProgramSize, len(words))
		return
	}
	err = cpu.Program.Load(0, words)
	if err != nil {
		return
	}
	cpu.Pc.Max = uint16(max(len(words)-1, 0))
	return
}

// LoadData loads a data image at base.
func (cpu *Cpu) LoadData(base int, words []uint8) (err error) {
	err = cpu.Data.Load(base, words)
	return
}

// Current returns the instruction in progress, if any.
func (cpu *Cpu) Current() (op *Operation, cycle int) {
	if cpu.State != STATE_EXECUTING {
		return
	}
	return cpu.op, cpu.cur
}

// Hold is true while a coprocessor pipeline holds the program counter.
func (cpu *Cpu) Hold() bool {
	return cpu.hold
}

// Instructions is the count of recognized instructions.
func (cpu *Cpu) Instructions() (count int) {
	for _, n := range cpu.Occurrence {
		count += n
	}
	return
}

// Occurrences iterates over the recognized instruction counts, most
// frequent first.
func (cpu *Cpu) Occurrences() iter.Seq2[Mnemonic, int] {
	mnems := slices.SortedFunc(maps.Keys(cpu.Occurrence), func(a, b Mnemonic) int {
		return cmp.Or(cmp.Compare(cpu.Occurrence[b], cpu.Occurrence[a]), cmp.Compare(a, b))
	})
	return func(yield func(Mnemonic, int) bool) {
		for _, mnem := range mnems {
			if !yield(mnem, cpu.Occurrence[mnem]) {
				return
			}
		}
	}
}

// cycle runs the handler for the current cycle of the operation.
func (cpu *Cpu) cycle() (err error) {
	if cpu.cur < len(cpu.op.Handler) {
		if handler := cpu.op.Handler[cpu.cur]; handler != nil {
			err = handler(cpu, cpu.operand)
			if err != nil {
				return
			}
		}
	}
	if !cpu.hold {
		cpu.cur++
	}
	return
}

// recognize decodes the first word of an instruction and runs its
// recognition cycle.
func (cpu *Cpu) recognize(pc uint16, word uint8) (err error) {
	op, err := Decode(word)
	if err != nil {
		err = ErrOpcode{Pc: pc, Word: word}
		return
	}

	if cpu.Recognize != nil {
		err = cpu.Recognize(op, pc)
		if err != nil {
			return
		}
	}

	cpu.op = op
	cpu.operand = Operand{Field: word & 0xf}
	cpu.cur = 0
	cpu.hold = false
	cpu.State = STATE_EXECUTING
	cpu.Occurrence[op.Mnemonic]++

	err = cpu.cycle()
	return
}

// Tick runs one cycle of the machine.
//
// ErrSystemExit is returned, without running a cycle, once the
// termination signal is latched on the system bus. A cycle that enters
// an interrupt handler does not count, and only moves the program counter
// to the handler.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Bus.Exit() {
		err = ErrSystemExit
		return
	}

	if cpu.State != STATE_EXECUTING && !cpu.Interrupt {
		var taken bool
		taken, err = cpu.checkInterrupts()
		if err != nil || taken {
			return
		}
	}

	pc := cpu.Pc.Value()
	value, err := cpu.Program.Read(int(pc))
	if err != nil {
		return
	}
	word := uint8(value.Uint())

	if cpu.Verbose {
		cpu.logf("%v pc=0x%03x word=0x%02x sp=0x%04x sr=%v", cpu.State, pc, word, cpu.Sp.Value(), cpu.Sr.String())
	}

	switch cpu.State {
	case STATE_HALTED:
		cpu.HaltCycles++
		return
	case STATE_IDLE:
		err = cpu.recognize(pc, word)
	case STATE_EXECUTING:
		cpu.operand.Word = word
		err = cpu.cycle()
	}
	if err != nil {
		return
	}

	if cpu.State == STATE_EXECUTING && cpu.cur >= cpu.op.Cycles {
		cpu.State = STATE_IDLE
	}

	// The cycle entering the halt state is neither active nor halted.
	if cpu.State != STATE_HALTED {
		cpu.Cycles++
	}

	if cpu.Bus.Exit() {
		err = ErrSystemExit
		return
	}

	err = cpu.Pc.Advance(cpu.hold)
	if err != nil {
		err = fmt.Errorf("%w: pc 0x%03x max 0x%03x", err, pc, cpu.Pc.Max)
	}

	return
}

// String returns the machine state as text.
func (cpu *Cpu) String() (text string) {
	hi, lo := cpu.Ie.Read()
	text += fmt.Sprintf("state: %v", cpu.State)
	if cpu.Interrupt {
		text += " (interrupt)"
	}
	text += "\n"
	text += fmt.Sprintf("   pc: 0x%03x\n", cpu.Pc.Value())
	text += fmt.Sprintf("   sp: 0x%04x\n", cpu.Sp.Value())
	text += fmt.Sprintf("   sr: %v\n", cpu.Sr.String())
	text += fmt.Sprintf("   ie: 0x%02x%02x\n", hi.Uint(), lo.Uint())
	text += fmt.Sprintf("  bus: 0x%02x\n", cpu.Bus.Read().Uint())
	text += cpu.Register.String()
	return
}
