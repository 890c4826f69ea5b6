package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func advance(p Pipeline, a, b uint8) Step {
	return p.Advance(byteVector(a), byteVector(b))
}

func TestAmcPipeline(t *testing.T) {
	assert := assert.New(t)

	amc := &AmcPipeline{}

	// Column db 13 53 45 mixes to 8e 4d a1 bc.
	for range 2 {
		var hold, write, done []bool
		var output []uint8
		issue := [](struct{ a, b uint8 }){
			{0xdb, 0x13},
			{0x53, 0x45}, {0x53, 0x45}, {0x53, 0x45}, {0x53, 0x45},
			{0, 0}, {0, 0}, {0, 0},
		}
		for _, operands := range issue {
			step := advance(amc, operands.a, operands.b)
			hold = append(hold, step.Hold)
			write = append(write, step.Write)
			done = append(done, step.Done)
			if step.Write {
				output = append(output, vectorByte(step.Output))
			}
		}
		assert.Equal([]bool{false, true, true, true, false, false, false, false}, hold)
		assert.Equal([]bool{false, false, false, false, true, true, true, true}, write)
		assert.Equal([]bool{false, false, false, false, false, false, false, true}, done)
		assert.Equal([]uint8{0xbc, 0xa1, 0x4d, 0x8e}, output)
		assert.Equal(AMC_LOAD01, amc.State)
	}
}

func TestAmcPipelineState(t *testing.T) {
	assert := assert.New(t)

	amc := &AmcPipeline{}
	amc.Reset()

	var names []string
	for range 8 {
		names = append(names, amc.String())
		advance(amc, 1, 2)
	}
	assert.Equal([]string{"load01", "ld23u3", "calc_1", "calc_2", "unld_3", "unld_2", "unld_1", "unld_0"}, names)
}

func TestXtime(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint8(0xae), vectorByte(xtime(byteVector(0x57))))
	assert.Equal(uint8(0x47), vectorByte(xtime(byteVector(0xae))))
	assert.Equal(uint8(0x1b), vectorByte(xtime(byteVector(0x80))))
}

func swdRotate(swd *SwdPipeline, word uint32, amount uint8) (result uint32, done bool) {
	advance(swd, uint8(word), uint8(word>>8))
	advance(swd, uint8(word>>16), uint8(word>>24))
	step := advance(swd, amount, 0)
	if !step.Hold {
		return
	}
	for range 4 {
		step = advance(swd, 0, 0)
		result = result<<8 | uint32(vectorByte(step.Output))
	}
	done = step.Done
	return
}

func TestSwdPipeline(t *testing.T) {
	assert := assert.New(t)

	swd := &SwdPipeline{}

	table := []uint32{0x12345678, 0x80000001, 0xdeadbeef, 0, 0xffffffff}
	for _, word := range table {
		for amount := range 40 {
			result, done := swdRotate(swd, word, uint8(amount))
			rot := amount & 0x1f
			expected := word<<rot | word>>((32-rot)&0x1f)
			if rot == 0 {
				expected = word
			}
			assert.Equal(expected, result, "0x%08x rol %d", word, amount)
			assert.True(done)
			assert.Equal(SWD_LOAD01, swd.State)
		}
	}

	assert.Equal("load01", swd.String())
}

func gspBlock(gsp *GspPipeline, pairs [GSP_LOADS][2]uint8) (output []uint8, holds int) {
	for _, pair := range pairs {
		step := advance(gsp, pair[0], pair[1])
		if step.Hold {
			holds++
		}
	}
	for range GSP_UNLDS {
		step := advance(gsp, 0, 0)
		if step.Hold {
			holds++
		}
		output = append(output, vectorByte(step.Output))
	}
	return
}

func TestGspPipeline(t *testing.T) {
	assert := assert.New(t)

	gsp := &GspPipeline{}

	// GIFT S-box maps 0 to 1, and the permutation keeps bit 0 of every
	// nibble within the same slice.
	output, holds := gspBlock(gsp, [GSP_LOADS][2]uint8{})
	assert.Equal(1, holds)
	for _, value := range output {
		assert.Equal(uint8(0x11), value)
	}
	assert.Equal(0, gsp.State)

	var pairs [GSP_LOADS][2]uint8
	for n := range GSP_LOADS {
		pairs[n] = [2]uint8{uint8(2 * n), uint8(2*n + 1)}
	}
	output, _ = gspBlock(gsp, pairs)
	assert.Equal([]uint8{
		0xb1, 0xb1, 0x13, 0x13, 0x04, 0x11, 0x15, 0x40,
		0x91, 0x3b, 0xbb, 0x99, 0x41, 0x54, 0x14, 0x41,
	}, output)
}

func TestGspPipelineState(t *testing.T) {
	assert := assert.New(t)

	gsp := &GspPipeline{}
	gsp.Reset()
	assert.Equal("load0", gsp.String())
	for range GSP_LOADS {
		advance(gsp, 0, 0)
	}
	assert.Equal("unld15", gsp.String())
	for range GSP_UNLDS - 1 {
		advance(gsp, 0, 0)
	}
	assert.Equal("unld0", gsp.String())
	step := advance(gsp, 0, 0)
	assert.True(step.Done)
	assert.Equal("load0", gsp.String())
}

func TestGiftTables(t *testing.T) {
	assert := assert.New(t)

	seen := map[uint8]bool{}
	for _, to := range giftPerm {
		seen[to] = true
	}
	assert.Equal(GSP_WIDTH, len(seen))

	seen = map[uint8]bool{}
	for _, value := range giftSbox {
		seen[value] = true
	}
	assert.Equal(16, len(seen))
}
