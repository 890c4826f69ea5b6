package cpu

import (
	"fmt"

	"github.com/ezrec/hokster/bitvec"
)

// Step is the outcome of advancing a coprocessor pipeline by one state.
type Step struct {
	Output bitvec.Vector // Valid when Write is set.
	Write  bool          // Output is unloaded into the destination register.
	Hold   bool          // The program counter must not advance.
	Done   bool          // The pipeline completed and returned to its first state.
}

// Pipeline is a resumable coprocessor state machine, advanced once per
// cycle with the two operand registers of the issuing instruction.
type Pipeline interface {
	fmt.Stringer
	// Advance the pipeline by one state.
	Advance(a, b bitvec.Vector) (step Step)
	// Reset the pipeline to its first state, zeroing all accumulators.
	Reset()
}

func byteVector(value uint8) bitvec.Vector {
	return bitvec.New(8, uint64(value))
}

func vectorByte(value bitvec.Vector) uint8 {
	return uint8(value.Uint())
}
