package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("pc 0x012 out of range", From("pc 0x%03x out of range", 0x12))
	assert.Equal("plain", From("plain"))
}

func TestSetLanguage(t *testing.T) {
	assert := assert.New(t)

	saved := printer
	defer func() { printer = saved }()

	SetLanguage()
	assert.NotNil(printer)
	assert.Equal("sys 0xff", From("sys 0x%02x", 0xff))

	SetLanguage("en-GB", "fr-FR")
	assert.Equal("line 3", From("line %d", 3))
}

func TestFprintln(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	n, err := Fprintln(out, "stop at pc 0x%03x", 0x2a)
	assert.NoError(err)
	assert.Equal(len("stop at pc 0x02a\n"), n)
	assert.Equal("stop at pc 0x02a\n", out.String())
}
