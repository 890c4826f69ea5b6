package cpu

import (
	"fmt"

	"github.com/ezrec/hokster/bitvec"
)

const (
	REGISTER_COUNT = 16 // General registers, r0..r7 then a0..a7.
	REGISTER_BANK  = 8  // Registers per bank.
	REGISTER_WIDTH = 8  // Width of a general register.
)

// RegisterName returns the assembler name of a general register index.
func RegisterName(index int) string {
	if index >= REGISTER_BANK {
		return fmt.Sprintf("a%d", index-REGISTER_BANK)
	}
	return fmt.Sprintf("r%d", index)
}

// RegisterFile is a bank of sixteen registers with a parallel shadow bank.
//
// Register i (0..7) and register i+8 form pair i, read and written as
// a double-width value with register i+8 in the high half.
type RegisterFile struct {
	Name   string
	width  int
	reg    [REGISTER_COUNT]bitvec.Vector
	shadow [REGISTER_COUNT]bitvec.Vector
}

var _ Storage = (*RegisterFile)(nil)

// NewRegisterFile creates a zeroed register file of the given word width.
func NewRegisterFile(name string, width int) (rf *RegisterFile) {
	rf = &RegisterFile{
		Name:  name,
		width: width,
	}
	rf.Reset()
	return
}

// Width of each register.
func (rf *RegisterFile) Width() int {
	return rf.width
}

// Reset zeros both the registers and their shadows.
func (rf *RegisterFile) Reset() {
	zero := bitvec.New(rf.width, 0)
	for n := range rf.reg {
		rf.reg[n] = zero
		rf.shadow[n] = zero
	}
}

func (rf *RegisterFile) Read(addr int) (word bitvec.Vector, err error) {
	err = checkAddr(rf.Name, addr, len(rf.reg))
	if err != nil {
		return
	}
	word = rf.reg[addr]
	return
}

func (rf *RegisterFile) Write(addr int, word bitvec.Vector) (err error) {
	err = checkAddr(rf.Name, addr, len(rf.reg))
	if err != nil {
		return
	}
	err = checkWord(rf.Name, word, rf.width)
	if err != nil {
		return
	}
	rf.reg[addr] = word
	return
}

func (rf *RegisterFile) Access(addr int, word ...bitvec.Vector) (bitvec.Vector, error) {
	return access(rf, addr, word)
}

// ReadPair reads pair index as a double-width value.
func (rf *RegisterFile) ReadPair(index int) (word bitvec.Vector, err error) {
	err = checkAddr(rf.Name, index, REGISTER_BANK)
	if err != nil {
		return
	}
	word = rf.reg[index+REGISTER_BANK].Concat(rf.reg[index])
	return
}

// WritePair writes a double-width value to pair index.
func (rf *RegisterFile) WritePair(index int, word bitvec.Vector) (err error) {
	err = checkAddr(rf.Name, index, REGISTER_BANK)
	if err != nil {
		return
	}
	err = checkWord(rf.Name, word, rf.width*2)
	if err != nil {
		return
	}
	rf.reg[index+REGISTER_BANK] = word.Slice(rf.width*2-1, rf.width)
	rf.reg[index] = word.Slice(rf.width-1, 0)
	return
}

// Save copies the first pairs register pairs into the shadow bank.
func (rf *RegisterFile) Save(pairs int) (err error) {
	if pairs < 1 || pairs > REGISTER_BANK {
		err = ErrShadowPairs
		return
	}
	for n := range pairs {
		rf.shadow[n] = rf.reg[n]
		rf.shadow[n+REGISTER_BANK] = rf.reg[n+REGISTER_BANK]
	}
	return
}

// Restore copies the first pairs register pairs back from the shadow bank.
func (rf *RegisterFile) Restore(pairs int) (err error) {
	if pairs < 1 || pairs > REGISTER_BANK {
		err = ErrShadowPairs
		return
	}
	for n := range pairs {
		rf.reg[n] = rf.shadow[n]
		rf.reg[n+REGISTER_BANK] = rf.shadow[n+REGISTER_BANK]
	}
	return
}

// Shadow returns the saved value of register index.
func (rf *RegisterFile) Shadow(index int) (word bitvec.Vector, err error) {
	err = checkAddr(rf.Name, index, len(rf.shadow))
	if err != nil {
		return
	}
	word = rf.shadow[index]
	return
}

// String renders both banks as hex.
func (rf *RegisterFile) String() (text string) {
	for bank := range 2 {
		for n := range REGISTER_BANK {
			index := bank*REGISTER_BANK + n
			text += fmt.Sprintf("%v:%02x ", RegisterName(index), rf.reg[index].Uint())
		}
		text = text[:len(text)-1] + "\n"
	}
	return
}
