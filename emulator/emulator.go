// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ezrec/hokster/cpu"
	"github.com/ezrec/hokster/io"
	"github.com/ezrec/hokster/translate"
)

const (
	DEFAULT_TIMEOUT = 30 * time.Second // Default run time before asking to continue.
	BREAK_ALWAYS    = -1               // Break instruction count that never expires.
)

// Stop is the reason a run returned.
type Stop int

//go:generate go tool stringer -linecomment -type=Stop
const (
	STOP_NONE              = Stop(iota) // running
	STOP_EXIT                           // termination signal received
	STOP_BREAKPOINT                     // breakpoint reached
	STOP_BREAK_INSTRUCTION              // break on instruction reached
	STOP_TIMEOUT                        // timeout expired
)

// Emulator state. CPU + program images + system bus tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Assembled program listing, if known.

	Tape io.Tape // System bus output.

	ProgramImage []uint8 // Program memory image.
	DataImage    []uint8 // Data memory image.
	DataBase     int     // Data memory address of the data image.

	Breakpoint       map[uint16]bool      // Stop before a cycle at these program counters.
	BreakInstruction map[cpu.Mnemonic]int // Stop before recognizing these, by remaining count.

	Elapsed time.Duration // Wall time spent running since the last reset.

	running        bool
	firstCycle     bool
	firstRecognize bool
}

// NewEmulator creates a new emulator.
func NewEmulator(config cpu.Config) (emu *Emulator, err error) {
	machine, err := cpu.NewCpu(config)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:              machine,
		Breakpoint:       map[uint16]bool{},
		BreakInstruction: map[cpu.Mnemonic]int{},
	}

	emu.Cpu.Bus.Channel = &emu.Tape
	emu.Cpu.Recognize = emu.recognize

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	strict := 0
	if emu.Config.StackPolicy == cpu.STACK_STRICT {
		strict = 1
	}

	defines := map[string]string{
		"SHADOW_PAIRS": fmt.Sprintf("%d", emu.Config.ShadowPairs),
		"STACK_STRICT": fmt.Sprintf("%d", strict),
	}

	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(defines)) {
			if !yield(name, defines[name]) {
				return
			}
		}
		for name, value := range emu.Cpu.Defines() {
			if !yield(name, value) {
				return
			}
		}
	}
}

// LoadProgram uses the images of an assembled program.
func (emu *Emulator) LoadProgram(prog *cpu.Program) {
	emu.Program = prog
	emu.ProgramImage = prog.Binary()
	emu.DataImage = prog.DataImage()
	emu.DataBase = 0
}

// LoadImages uses program and data images without a listing.
func (emu *Emulator) LoadImages(program []uint8, data []uint8, base int) {
	emu.Program = nil
	emu.ProgramImage = program
	emu.DataImage = data
	emu.DataBase = base
}

// BreakOn stops the run before count recognitions of the named
// instruction. A negative count never expires; a zero count removes the
// break.
func (emu *Emulator) BreakOn(name string, count int) (err error) {
	form, ok := cpu.Forms[strings.ToLower(name)]
	if !ok {
		err = fmt.Errorf("%w: %v", cpu.ErrOpcodeInvalid, name)
		return
	}

	if count == 0 {
		delete(emu.BreakInstruction, form.Mnemonic)
		return
	}

	emu.BreakInstruction[form.Mnemonic] = count
	return
}

// Reset the machine, and load the program and data images.
// Breakpoints and pending interrupt requests are kept.
func (emu *Emulator) Reset() (err error) {
	if len(emu.ProgramImage) == 0 {
		err = ErrNoProgram
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Elapsed = 0

	err = emu.Cpu.Load(emu.ProgramImage)
	if err != nil {
		return
	}

	if len(emu.DataImage) != 0 {
		err = emu.Cpu.LoadData(emu.DataBase, emu.DataImage)
		if err != nil {
			return
		}
	}

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.lineNo(emu.Pc.Value())
}

func (emu *Emulator) lineNo(pc uint16) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// recognize is called by the cpu as each instruction is recognized.
// The first recognition of a run is never stopped, so that a run can
// resume past the instruction it stopped before.
func (emu *Emulator) recognize(op *cpu.Operation, pc uint16) (err error) {
	if !emu.running {
		return
	}

	if emu.firstRecognize {
		emu.firstRecognize = false
		return
	}

	count, ok := emu.BreakInstruction[op.Mnemonic]
	if !ok {
		return
	}

	switch {
	case count > 0:
		count--
		if count == 0 {
			delete(emu.BreakInstruction, op.Mnemonic)
		} else {
			emu.BreakInstruction[op.Mnemonic] = count
		}
	case count < 0:
	default:
		delete(emu.BreakInstruction, op.Mnemonic)
		return
	}

	err = ErrBreakInstruction{Mnemonic: op.Mnemonic, Pc: pc}
	return
}

// tick runs a single cycle, and classifies the outcome.
func (emu *Emulator) tick() (stop Stop, err error) {
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Pc.Value()
	err = emu.Cpu.Tick()

	var brk ErrBreakInstruction
	switch {
	case err == nil:
	case errors.Is(err, cpu.ErrSystemExit):
		stop = STOP_EXIT
		err = nil
	case errors.As(err, &brk):
		stop = STOP_BREAK_INSTRUCTION
		err = nil
		if emu.Verbose {
			log.Print(brk.Error())
		}
	default:
		err = &ErrRuntime{Pc: pc, LineNo: emu.lineNo(pc), Err: err}
	}

	return
}

// Step runs a single cycle. Breakpoints are ignored.
func (emu *Emulator) Step() (stop Stop, err error) {
	return emu.tick()
}

// Run until the termination signal, a breakpoint, a break instruction,
// an error, or the expiry of the context deadline.
//
// A breakpoint at the program counter the run starts from is passed.
func (emu *Emulator) Run(ctx context.Context) (stop Stop, err error) {
	emu.firstCycle = true
	emu.firstRecognize = true
	return emu.run(ctx)
}

// Continue a run that stopped on a timeout, without passing breakpoints.
func (emu *Emulator) Continue(ctx context.Context) (stop Stop, err error) {
	return emu.run(ctx)
}

func (emu *Emulator) run(ctx context.Context) (stop Stop, err error) {
	start := time.Now()
	emu.running = true
	defer func() {
		emu.running = false
		emu.Elapsed += time.Since(start)
	}()

	for {
		err = ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			stop = STOP_TIMEOUT
			err = nil
			return
		}
		if err != nil {
			return
		}

		if emu.firstCycle {
			emu.firstCycle = false
		} else if pc := emu.Pc.Value(); emu.Breakpoint[pc] {
			if emu.Verbose {
				translate.Log("breakpoint at pc 0x%03x", pc)
			}
			stop = STOP_BREAKPOINT
			return
		}

		stop, err = emu.tick()
		if err != nil || stop != STOP_NONE {
			return
		}
	}
}
