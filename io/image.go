package io

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

var hexPair = regexp.MustCompile(`^([0-9a-fA-F]{2})`)

// ReadImage reads an image of one two-digit hex word per line.
// Lines that do not begin with a hex pair are skipped, and anything after
// the pair is ignored.
func ReadImage(r io.Reader) (words []uint8, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		match := hexPair.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		var value uint64
		value, err = strconv.ParseUint(match[1], 16, 8)
		if err != nil {
			return
		}
		words = append(words, uint8(value))
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if len(words) == 0 {
		err = ErrImageEmpty
	}

	return
}

// Rom is an image paired with optional per-word annotations.
type Rom struct {
	Data    []uint8
	Comment map[int]string // Annotation, by word index.
}

// WriteTo writes the image, one upper case hex pair per line, with
// annotations after a tab.
func (rom *Rom) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)
	for index, word := range rom.Data {
		var count int
		comment, ok := rom.Comment[index]
		if ok {
			count, err = fmt.Fprintf(bw, "%02X\t-- %v\n", word, comment)
		} else {
			count, err = fmt.Fprintf(bw, "%02X\n", word)
		}
		n += int64(count)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// ReadFrom replaces the image with one read from r.
func (rom *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	counter := &countingReader{r: r}
	rom.Data, err = ReadImage(counter)
	rom.Comment = nil
	n = counter.n
	return
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (n int, err error) {
	n, err = cr.r.Read(p)
	cr.n += int64(n)
	return
}
