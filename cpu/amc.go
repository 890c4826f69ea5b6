package cpu

import (
	"github.com/ezrec/hokster/bitvec"
)

// AmcState is a state of the column mixer pipeline.
type AmcState int

//go:generate go tool stringer -linecomment -type=AmcState
const (
	AMC_LOAD01 = AmcState(0) // load01
	AMC_LD23U3 = AmcState(1) // ld23u3
	AMC_CALC_1 = AmcState(2) // calc_1
	AMC_CALC_2 = AmcState(3) // calc_2
	AMC_UNLD_3 = AmcState(4) // unld_3
	AMC_UNLD_2 = AmcState(5) // unld_2
	AMC_UNLD_1 = AmcState(6) // unld_1
	AMC_UNLD_0 = AmcState(7) // unld_0
)

// xtime doubles a value in GF(2^8) modulo x^8 + x^4 + x^3 + x + 1.
func xtime(value bitvec.Vector) (result bitvec.Vector) {
	result = value.Shl(1)
	if value.Msb() {
		result = result.Xor(byteVector(0x1b))
	}
	return
}

// AmcPipeline computes one column of the AES MixColumns transform.
//
// Column bytes s0 and s1 are loaded on the first issue, s2 and s3 on the
// second. The second issue holds the program counter through two compute
// states, then each issue unloads one result byte into the destination
// register, r3 first.
type AmcPipeline struct {
	State  AmcState
	s      [3]bitvec.Vector
	sum    bitvec.Vector
	result bitvec.Vector
	xin    bitvec.Vector
	xout   bitvec.Vector
}

var _ Pipeline = (*AmcPipeline)(nil)

func (amc *AmcPipeline) Reset() {
	zero := byteVector(0)
	amc.State = AMC_LOAD01
	amc.s = [3]bitvec.Vector{zero, zero, zero}
	amc.sum = zero
	amc.result = zero
	amc.xin = zero
	amc.xout = zero
}

func (amc *AmcPipeline) String() string {
	return amc.State.String()
}

func (amc *AmcPipeline) Advance(a, b bitvec.Vector) (step Step) {
	if amc.sum.Width() == 0 {
		amc.Reset()
	}

	amc.xout = xtime(amc.xin)

	switch amc.State {
	case AMC_LOAD01:
		amc.sum = a.Xor(b)
		amc.s[0] = a
		amc.s[1] = b
		amc.State = AMC_LD23U3
	case AMC_LD23U3:
		amc.sum = amc.sum.Xor(a)
		amc.s[2] = a
		amc.State = AMC_CALC_1
		step.Hold = true
	case AMC_CALC_1:
		amc.sum = amc.sum.Xor(b)
		amc.xin = b.Xor(amc.s[0])
		amc.State = AMC_CALC_2
		step.Hold = true
	case AMC_CALC_2:
		amc.result = b.Xor(amc.xout).Xor(amc.sum)
		amc.xin = amc.s[2].Xor(b)
		amc.State = AMC_UNLD_3
		step.Hold = true
	case AMC_UNLD_3:
		step.Output = amc.result
		step.Write = true
		amc.State = AMC_UNLD_2
	case AMC_UNLD_2:
		step.Output = amc.s[2].Xor(amc.xout).Xor(amc.sum)
		step.Write = true
		amc.xin = amc.s[1].Xor(amc.s[2])
		amc.State = AMC_UNLD_1
	case AMC_UNLD_1:
		step.Output = amc.s[1].Xor(amc.xout).Xor(amc.sum)
		step.Write = true
		amc.xin = amc.s[0].Xor(amc.s[1])
		amc.State = AMC_UNLD_0
	case AMC_UNLD_0:
		step.Output = amc.s[0].Xor(amc.xout).Xor(amc.sum)
		step.Write = true
		step.Done = true
		amc.Reset()
	}

	return
}
