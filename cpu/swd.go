package cpu

import (
	"github.com/ezrec/hokster/bitvec"
)

// SwdState is a state of the barrel rotator pipeline.
type SwdState int

//go:generate go tool stringer -linecomment -type=SwdState
const (
	SWD_LOAD01 = SwdState(0) // load01
	SWD_LOAD23 = SwdState(1) // load23
	SWD_SHIFAM = SwdState(2) // shifam
	SWD_UNLD_3 = SwdState(3) // unld_3
	SWD_UNLD_2 = SwdState(4) // unld_2
	SWD_UNLD_1 = SwdState(5) // unld_1
	SWD_UNLD_0 = SwdState(6) // unld_0
)

const SWD_WIDTH = 32 // Rotator word width.

// SwdPipeline rotates a 32-bit word left.
//
// Two issues load the word, low half first, with the first operand as the
// low byte of each half. The third issue latches the rotate amount from
// the low five bits of the first operand and holds, then four issues
// unload the rotated word, most significant byte first.
type SwdPipeline struct {
	State  SwdState
	in     bitvec.Vector
	out    bitvec.Vector
	amount int
}

var _ Pipeline = (*SwdPipeline)(nil)

func (swd *SwdPipeline) Reset() {
	swd.State = SWD_LOAD01
	swd.in = bitvec.New(SWD_WIDTH, 0)
	swd.out = swd.in
	swd.amount = 0
}

func (swd *SwdPipeline) String() string {
	return swd.State.String()
}

func (swd *SwdPipeline) Advance(a, b bitvec.Vector) (step Step) {
	if swd.in.Width() == 0 {
		swd.Reset()
	}

	swd.out = swd.in.RotateLeft(swd.amount)

	switch swd.State {
	case SWD_LOAD01:
		swd.in = swd.in.Slice(31, 16).Concat(b.Concat(a))
		swd.State = SWD_LOAD23
	case SWD_LOAD23:
		swd.in = b.Concat(a).Concat(swd.in.Slice(15, 0))
		swd.State = SWD_SHIFAM
	case SWD_SHIFAM:
		swd.amount = int(a.Uint() & 0x1f)
		swd.State = SWD_UNLD_3
		step.Hold = true
	case SWD_UNLD_3:
		step.Output = swd.out.Slice(31, 24)
		step.Write = true
		swd.State = SWD_UNLD_2
	case SWD_UNLD_2:
		step.Output = swd.out.Slice(23, 16)
		step.Write = true
		swd.State = SWD_UNLD_1
	case SWD_UNLD_1:
		step.Output = swd.out.Slice(15, 8)
		step.Write = true
		swd.State = SWD_UNLD_0
	case SWD_UNLD_0:
		step.Output = swd.out.Slice(7, 0)
		step.Write = true
		step.Done = true
		swd.Reset()
	}

	return
}
