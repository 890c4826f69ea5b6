package cpu

import (
	"log"

	"github.com/ezrec/hokster/bitvec"
)

// Storage is the bus contract shared by the addressable storage units.
//
// Invalid addresses and wrong-width words are logged, reported as errors,
// and leave the unit unchanged.
type Storage interface {
	Read(addr int) (word bitvec.Vector, err error)
	Write(addr int, word bitvec.Vector) (err error)
	// Access reads when no word is supplied, and writes otherwise.
	Access(addr int, word ...bitvec.Vector) (value bitvec.Vector, err error)
}

func access(s Storage, addr int, word []bitvec.Vector) (value bitvec.Vector, err error) {
	switch len(word) {
	case 0:
		value, err = s.Read(addr)
	case 1:
		err = s.Write(addr, word[0])
		if err == nil {
			value = word[0]
		}
	default:
		err = ErrOpcodeExtraArgs
	}
	return
}

func checkAddr(unit string, addr int, size int) (err error) {
	if addr < 0 || addr >= size {
		err = ErrAccess{Unit: unit, Addr: addr}
		log.Print(err)
	}
	return
}

func checkWord(unit string, word bitvec.Vector, width int) (err error) {
	if word.Width() != width {
		err = ErrWordWidth{Unit: unit, Want: width, Got: word.Width()}
		log.Print(err)
	}
	return
}

// Memory is a linear array of fixed-width words.
type Memory struct {
	Name  string // Name used in diagnostics.
	Width int    // Width of each word, in bits.
	data  []bitvec.Vector
}

var _ Storage = (*Memory)(nil)

// NewMemory creates a zeroed memory of size words, each width bits wide.
func NewMemory(name string, size int, width int) (mem *Memory) {
	mem = &Memory{
		Name:  name,
		Width: width,
		data:  make([]bitvec.Vector, size),
	}
	mem.Reset()
	return
}

// Size of the memory in words.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	zero := bitvec.New(mem.Width, 0)
	for n := range mem.data {
		mem.data[n] = zero
	}
}

func (mem *Memory) Read(addr int) (word bitvec.Vector, err error) {
	err = checkAddr(mem.Name, addr, len(mem.data))
	if err != nil {
		return
	}
	word = mem.data[addr]
	return
}

func (mem *Memory) Write(addr int, word bitvec.Vector) (err error) {
	err = checkAddr(mem.Name, addr, len(mem.data))
	if err != nil {
		return
	}
	err = checkWord(mem.Name, word, mem.Width)
	if err != nil {
		return
	}
	mem.data[addr] = word
	return
}

func (mem *Memory) Access(addr int, word ...bitvec.Vector) (bitvec.Vector, error) {
	return access(mem, addr, word)
}

// Load copies words into the memory starting at base.
// Nothing is written if the words do not fit.
func (mem *Memory) Load(base int, words []uint8) (err error) {
	if len(words) == 0 {
		return
	}
	err = checkAddr(mem.Name, base, len(mem.data))
	if err != nil {
		return
	}
	err = checkAddr(mem.Name, base+len(words)-1, len(mem.data))
	if err != nil {
		return
	}
	for n, w := range words {
		mem.data[base+n] = bitvec.New(mem.Width, uint64(w))
	}
	return
}

// Bytes returns a copy of count words starting at addr, clipped to the
// memory size.
func (mem *Memory) Bytes(addr int, count int) (words []uint8) {
	for n := addr; n < addr+count && n < len(mem.data); n++ {
		if n < 0 {
			continue
		}
		words = append(words, uint8(mem.data[n].Uint()))
	}
	return
}
