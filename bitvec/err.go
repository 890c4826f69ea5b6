package bitvec

import (
	"errors"

	"github.com/ezrec/hokster/translate"
)

var f = translate.From

var (
	ErrWidth    = errors.New(f("bit vector width invalid"))
	ErrMismatch = errors.New(f("bit vector widths differ"))
	ErrRange    = errors.New(f("bit index out of range"))
)
