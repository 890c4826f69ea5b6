package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadImage(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		words []uint8
		err   error
	}){
		{text: "CF\nFF\n", words: []uint8{0xcf, 0xff}},
		{text: "80\t-- mvi 0x05, r0\n05\ncf\nff", words: []uint8{0x80, 0x05, 0xcf, 0xff}},
		{text: "# comment\n\n12\nzz\n3\n34 trailing\n", words: []uint8{0x12, 0x34}},
		// Skipped lines leave no gap.
		{text: "80\n\n05\n-- note\nff\n", words: []uint8{0x80, 0x05, 0xff}},
		{text: "", err: ErrImageEmpty},
		{text: "hello\nworld\n", err: ErrImageEmpty},
	}

	for _, entry := range table {
		words, err := ReadImage(strings.NewReader(entry.text))
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.text)
			continue
		}
		assert.NoError(err, entry.text)
		assert.Equal(entry.words, words, entry.text)
	}
}

func TestRomRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{
		Data:    []uint8{0x80, 0x05, 0xcf, 0xff},
		Comment: map[int]string{0: "mvi 0x05, r0", 2: "sys 0xff"},
	}

	var buff bytes.Buffer
	n, err := rom.WriteTo(&buff)
	assert.NoError(err)
	assert.Equal(int64(buff.Len()), n)
	assert.Equal("80\t-- mvi 0x05, r0\n05\nCF\t-- sys 0xff\nFF\n", buff.String())

	size := int64(buff.Len())
	var back Rom
	n, err = back.ReadFrom(&buff)
	assert.NoError(err)
	assert.Equal(size, n)
	assert.Equal(rom.Data, back.Data)
}
