package io

import (
	"io"
)

const TAPE_EXIT = 0xff // Termination value, recorded but never written.

// Tape records the values sent to it, and copies each one except the
// termination value to Output, if set.
type Tape struct {
	Output io.Writer
	Data   []uint8
}

var _ Channel = (*Tape)(nil)

// Rewind discards the recorded values.
func (tc *Tape) Rewind() {
	tc.Data = tc.Data[:0]
}

// Send records value, and writes it to the output.
func (tc *Tape) Send(value uint8) (err error) {
	tc.Data = append(tc.Data, value)

	if tc.Output == nil || value == TAPE_EXIT {
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		err = ErrChannelWrite{Err: err}
	}

	return
}
