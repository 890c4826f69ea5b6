package cpu

import (
	"fmt"

	"github.com/ezrec/hokster/bitvec"
)

const (
	GSP_WIDTH  = 128            // Block width.
	GSP_LOADS  = GSP_WIDTH / 16 // Issues needed to load a block.
	GSP_UNLDS  = GSP_WIDTH / 8  // Issues needed to unload a block.
	GSP_STATES = GSP_LOADS + GSP_UNLDS
)

// giftSub substitutes both nibbles of a byte through the GIFT S-box.
func giftSub(value bitvec.Vector) bitvec.Vector {
	v := vectorByte(value)
	return byteVector(giftSbox[v>>4]<<4 | giftSbox[v&0xf])
}

// giftPermute applies the GIFT-128 bit permutation.
func giftPermute(in bitvec.Vector) (out bitvec.Vector) {
	out = bitvec.New(GSP_WIDTH, 0)
	for n, to := range giftPerm {
		if in.Bit(n) {
			out = out.SetBit(int(to), true)
		}
	}
	return
}

// GspPipeline is the GIFT-128 substitution and permutation unit.
//
// Eight issues load a 128-bit block two substituted bytes at a time,
// starting with byte 0. The last load holds, then sixteen issues unload
// the permuted block into the destination register, most significant
// byte first.
type GspPipeline struct {
	State int // 0..7 are loads, 8..23 are unloads.
	in    bitvec.Vector
	out   bitvec.Vector
}

var _ Pipeline = (*GspPipeline)(nil)

func (gsp *GspPipeline) Reset() {
	gsp.State = 0
	gsp.in = bitvec.New(GSP_WIDTH, 0)
	gsp.out = gsp.in
}

func (gsp *GspPipeline) String() string {
	if gsp.State < GSP_LOADS {
		return fmt.Sprintf("load%d", gsp.State)
	}
	return fmt.Sprintf("unld%d", GSP_STATES-1-gsp.State)
}

func (gsp *GspPipeline) Advance(a, b bitvec.Vector) (step Step) {
	if gsp.in.Width() == 0 {
		gsp.Reset()
	}

	sa := giftSub(a)
	sb := giftSub(b)
	gsp.out = giftPermute(gsp.in)

	if gsp.State < GSP_LOADS {
		gsp.in = gsp.in.WithByte(gsp.State*2, vectorByte(sa))
		gsp.in = gsp.in.WithByte(gsp.State*2+1, vectorByte(sb))
		gsp.State++
		step.Hold = gsp.State == GSP_LOADS
		return
	}

	unload := gsp.State - GSP_LOADS
	step.Output = byteVector(gsp.out.Byte(GSP_UNLDS - 1 - unload))
	step.Write = true
	gsp.State++
	if gsp.State == GSP_STATES {
		step.Done = true
		gsp.Reset()
	}

	return
}
