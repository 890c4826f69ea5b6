package cpu

import (
	"math/bits"
)

const VECTOR_COUNT = 16 // Interrupt vectors.

// eligible selects the vector to service from a request mask.
// Only enabled vectors are eligible, and the lowest numbered one wins.
func (cpu *Cpu) eligible(mask uint16) (vector int, ok bool) {
	mask &= cpu.Ie.Mask()
	if mask == 0 {
		return
	}
	vector = bits.TrailingZeros16(mask)
	ok = true
	return
}

// checkInterrupts services a pending interrupt request, if any.
//
// A request keyed by the current cycle count, halted cycles included,
// is examined first. The program counter keyed requests are only
// examined when no cycle request exists. A request with no eligible
// vector stays pending.
func (cpu *Cpu) checkInterrupts() (taken bool, err error) {
	cycle := cpu.Cycles + cpu.HaltCycles
	if mask, ok := cpu.CycleInterrupt[cycle]; ok {
		vector, ok := cpu.eligible(mask)
		if !ok {
			return
		}
		delete(cpu.CycleInterrupt, cycle)
		err = cpu.service(vector)
		taken = err == nil
		return
	}

	pc := cpu.Pc.Value()
	if mask, ok := cpu.PcInterrupt[pc]; ok {
		vector, ok := cpu.eligible(mask)
		if !ok {
			return
		}
		delete(cpu.PcInterrupt, pc)
		err = cpu.service(vector)
		taken = err == nil
	}

	return
}

// service enters the handler for an interrupt vector.
func (cpu *Cpu) service(vector int) (err error) {
	target, err := cpu.Vector.Read(vector)
	if err != nil {
		return
	}

	err = cpu.Register.Save(cpu.Config.ShadowPairs)
	if err != nil {
		return
	}
	cpu.Sr.Save()
	cpu.Pc.Save()

	cpu.Pc.vector(target.Resize(PC_WIDTH).Shl(4))
	cpu.State = STATE_IDLE
	cpu.Interrupt = true

	if cpu.Verbose {
		cpu.logf("interrupt i%d from pc 0x%03x to 0x%03x", vector, cpu.Pc.shadow.Uint(), cpu.Pc.Value())
	}

	return
}

// RequestAtPc requests vector when the program counter reaches pc.
func (cpu *Cpu) RequestAtPc(pc uint16, vector int) {
	cpu.PcInterrupt[pc] |= 1 << vector
}

// RequestAtCycle requests vector at the given cycle count.
func (cpu *Cpu) RequestAtCycle(cycle int, vector int) {
	cpu.CycleInterrupt[cycle] |= 1 << vector
}

// VectorTarget returns the program address of an interrupt vector.
func (cpu *Cpu) VectorTarget(vector int) (pc uint16, err error) {
	target, err := cpu.Vector.Read(vector)
	if err != nil {
		return
	}
	pc = uint16(target.Resize(PC_WIDTH).Shl(4).Uint())
	return
}
