package cpu

import (
	"log"

	"github.com/ezrec/hokster/bitvec"
)

const (
	PC_WIDTH  = 12 // Program counter width.
	SP_WIDTH  = 16 // Stack pointer width.
	SR_WIDTH  = 8  // Status register width.
	IE_WIDTH  = 16 // Interrupt enable width.
	BUS_WIDTH = 8  // System bus width.

	PC_MAX   = (1 << PC_WIDTH) - 1 // Highest program counter value.
	SYS_EXIT = 0xff                // System bus value that terminates a run.
)

// ProgramCounter is the program counter, with a shadow copy.
type ProgramCounter struct {
	pc      bitvec.Vector
	shadow  bitvec.Vector
	changed bool
	Max     uint16 // Highest address the counter may advance to.
}

// Reset the program counter to zero, and allow the whole address space.
func (pc *ProgramCounter) Reset() {
	pc.pc = bitvec.New(PC_WIDTH, 0)
	pc.shadow = pc.pc
	pc.changed = false
	pc.Max = PC_MAX
}

// Value of the program counter.
func (pc *ProgramCounter) Value() uint16 {
	return uint16(pc.pc.Uint())
}

func (pc *ProgramCounter) Read() bitvec.Vector {
	return pc.pc
}

// Write the program counter. The next Advance will not increment it.
func (pc *ProgramCounter) Write(word bitvec.Vector) (err error) {
	err = checkWord("pc", word, PC_WIDTH)
	if err != nil {
		return
	}
	pc.pc = word
	pc.changed = true
	return
}

// Changed is true if the counter was written since the last Advance.
func (pc *ProgramCounter) Changed() bool {
	return pc.changed
}

// vector loads an interrupt target; the target word is fetched without
// an intervening Advance.
func (pc *ProgramCounter) vector(word bitvec.Vector) {
	pc.pc = word
	pc.changed = false
}

// Advance moves the program counter past the word just consumed.
// A held counter does not move, and a written counter only clears
// its changed flag.
func (pc *ProgramCounter) Advance(hold bool) (err error) {
	switch {
	case hold:
	case pc.changed:
		pc.changed = false
	case pc.Value()+1 > pc.Max:
		err = ErrMaxPc
	default:
		pc.pc = pc.pc.Add(bitvec.New(PC_WIDTH, 1))
	}
	return
}

// Save copies the counter into the shadow.
func (pc *ProgramCounter) Save() {
	pc.shadow = pc.pc
}

// Restore writes the shadow back into the counter.
func (pc *ProgramCounter) Restore() {
	pc.pc = pc.shadow
	pc.changed = true
}

// StackPolicy selects the behaviour of the stack pointer at the bounds of
// data memory.
type StackPolicy int

//go:generate go tool stringer -linecomment -type=StackPolicy
const (
	STACK_WARN   = StackPolicy(0) // warn
	STACK_STRICT = StackPolicy(1) // strict
)

// StackPointer addresses the top of a descending stack in data memory.
type StackPointer struct {
	Policy StackPolicy
	sp     bitvec.Vector
	mem    *Memory
}

// Reset the stack pointer to address 0.
func (sp *StackPointer) Reset() {
	sp.sp = bitvec.New(SP_WIDTH, 0)
}

// Value of the stack pointer.
func (sp *StackPointer) Value() uint16 {
	return uint16(sp.sp.Uint())
}

func (sp *StackPointer) Read() bitvec.Vector {
	return sp.sp
}

func (sp *StackPointer) Write(word bitvec.Vector) (err error) {
	err = checkWord("sp", word, SP_WIDTH)
	if err != nil {
		return
	}
	sp.sp = word
	return
}

// Push writes word at the stack pointer, then decrements it.
func (sp *StackPointer) Push(word bitvec.Vector) (err error) {
	addr := int(sp.Value())
	if addr == 0 && sp.Policy == STACK_STRICT {
		err = ErrStackOverflow
		return
	}
	err = sp.mem.Write(addr, word)
	if err != nil {
		return
	}
	if addr == 0 {
		log.Print(f("sp: push at address 0, stack pointer not decremented"))
		return
	}
	sp.sp = sp.sp.Sub(bitvec.New(SP_WIDTH, 1))
	return
}

// Pop increments the stack pointer, then reads the word it addresses.
func (sp *StackPointer) Pop() (word bitvec.Vector, err error) {
	addr := int(sp.Value())
	if addr+1 < sp.mem.Size() {
		addr++
	} else if sp.Policy == STACK_STRICT {
		err = ErrStackUnderflow
		return
	} else {
		log.Print(f("sp: pop at address 0x%x, stack pointer not incremented", addr))
	}
	word, err = sp.mem.Read(addr)
	if err != nil {
		return
	}
	sp.sp = bitvec.New(SP_WIDTH, uint64(addr))
	return
}

// Flag is a status register bit.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_Z = Flag(0) // z
	FLAG_N = Flag(1) // n
	FLAG_C = Flag(2) // c
	FLAG_X = Flag(3) // x
)

// Status is the status register, with a shadow copy.
type Status struct {
	sr     bitvec.Vector
	shadow bitvec.Vector
}

func (sr *Status) Reset() {
	sr.sr = bitvec.New(SR_WIDTH, 0)
	sr.shadow = sr.sr
}

// Get a status flag.
func (sr *Status) Get(flag Flag) bool {
	return sr.sr.Bit(int(flag))
}

// Set a status flag.
func (sr *Status) Set(flag Flag, value bool) {
	sr.sr = sr.sr.SetBit(int(flag), value)
}

func (sr *Status) Read() bitvec.Vector {
	return sr.sr
}

func (sr *Status) Write(word bitvec.Vector) (err error) {
	err = checkWord("sr", word, SR_WIDTH)
	if err != nil {
		return
	}
	sr.sr = word
	return
}

func (sr *Status) Save() {
	sr.shadow = sr.sr
}

func (sr *Status) Restore() {
	sr.sr = sr.shadow
}

// String renders set flags in upper case, clear flags as '-'.
func (sr *Status) String() string {
	text := []byte("----")
	for n, name := range "ZNCX" {
		if sr.Get(Flag(n)) {
			text[n] = byte(name)
		}
	}
	return string(text)
}

// InterruptEnable is the interrupt enable mask, bit k enabling vector k.
// It is accessed as two halves matching the two register banks.
type InterruptEnable struct {
	ie bitvec.Vector
}

func (ie *InterruptEnable) Reset() {
	ie.ie = bitvec.New(IE_WIDTH, 0)
}

// Mask returns the enabled vectors.
func (ie *InterruptEnable) Mask() uint16 {
	return uint16(ie.ie.Uint())
}

// Read the high and low halves.
func (ie *InterruptEnable) Read() (hi, lo bitvec.Vector) {
	hi = ie.ie.Slice(IE_WIDTH-1, IE_WIDTH/2)
	lo = ie.ie.Slice(IE_WIDTH/2-1, 0)
	return
}

// Write the high and low halves.
func (ie *InterruptEnable) Write(hi, lo bitvec.Vector) (err error) {
	err = checkWord("ie", hi, IE_WIDTH/2)
	if err != nil {
		return
	}
	err = checkWord("ie", lo, IE_WIDTH/2)
	if err != nil {
		return
	}
	ie.ie = hi.Concat(lo)
	return
}

// SystemBus is the system bus latch. Latched values are sent to the
// attached channel, if any.
type SystemBus struct {
	Channel Channel
	latch   bitvec.Vector
}

func (bus *SystemBus) Reset() {
	bus.latch = bitvec.New(BUS_WIDTH, 0)
	if bus.Channel != nil {
		bus.Channel.Rewind()
	}
}

func (bus *SystemBus) Read() bitvec.Vector {
	return bus.latch
}

func (bus *SystemBus) Write(word bitvec.Vector) (err error) {
	err = checkWord("bus", word, BUS_WIDTH)
	if err != nil {
		return
	}
	bus.latch = word
	if bus.Channel != nil {
		err = bus.Channel.Send(uint8(word.Uint()))
	}
	return
}

// Exit is true when the termination signal is latched.
func (bus *SystemBus) Exit() bool {
	return bus.latch.Uint() == SYS_EXIT
}
