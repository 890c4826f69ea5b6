package io

import (
	"errors"

	"github.com/ezrec/hokster/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageEmpty = errors.New(f("no hex-pair words found"))
)

// ErrChannelWrite wraps a failure to copy a bus value to a channel output.
type ErrChannelWrite struct {
	Err error
}

func (err ErrChannelWrite) Error() string {
	return f("channel write: %v", err.Err)
}

func (err ErrChannelWrite) Unwrap() error {
	return err.Err
}
