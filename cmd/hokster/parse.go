package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ezrec/hokster/cpu"
	"github.com/ezrec/hokster/emulator"
)

var (
	ErrFlagValue = errors.New(f("flag value invalid"))
)

// parseNumber parses a number in the given base. A zero base takes the
// base from the prefix.
func parseNumber(text string, base int) (value int64, err error) {
	value, err = strconv.ParseInt(strings.TrimSpace(text), base, 64)
	if err != nil {
		err = fmt.Errorf("%w: '%v'", ErrFlagValue, text)
	}
	return
}

// parseHex parses a hex number, with or without a 0x prefix.
func parseHex(text string, bits int) (value uint64, err error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	value, err = strconv.ParseUint(text, 16, bits)
	if err != nil {
		err = fmt.Errorf("%w: '%v' is not %d bit hex", ErrFlagValue, text, bits)
	}
	return
}

// parsePc parses a hex program address.
func parsePc(text string) (pc uint16, err error) {
	value, err := parseHex(text, cpu.PC_WIDTH)
	if err != nil {
		return
	}
	pc = uint16(value)
	return
}

// parseBreakInstruction parses MNEM[=COUNT]. Without a count the break
// never expires.
func parseBreakInstruction(text string) (name string, count int, err error) {
	name, countText, ok := strings.Cut(text, "=")
	if len(name) == 0 {
		err = fmt.Errorf("%w: '%v'", ErrFlagValue, text)
		return
	}

	count = emulator.BREAK_ALWAYS
	if !ok {
		return
	}

	value, err := parseNumber(countText, 10)
	if err != nil {
		return
	}
	count = int(value)
	return
}

// parsePcRequest parses PC=MASK, both in hex.
func parsePcRequest(text string) (pc uint16, mask uint16, err error) {
	pcText, maskText, ok := strings.Cut(text, "=")
	if !ok {
		err = fmt.Errorf("%w: '%v' is not PC=MASK", ErrFlagValue, text)
		return
	}

	pc, err = parsePc(pcText)
	if err != nil {
		return
	}

	value, err := parseHex(maskText, cpu.VECTOR_COUNT)
	if err != nil {
		return
	}
	mask = uint16(value)
	return
}

// parseCycleRequest parses CYCLE=MASK, the cycle in decimal and the mask
// in hex.
func parseCycleRequest(text string) (cycle int, mask uint16, err error) {
	cycleText, maskText, ok := strings.Cut(text, "=")
	if !ok {
		err = fmt.Errorf("%w: '%v' is not CYCLE=MASK", ErrFlagValue, text)
		return
	}

	value, err := parseNumber(cycleText, 10)
	if err != nil {
		return
	}
	if value < 0 {
		err = fmt.Errorf("%w: cycle %d", ErrFlagValue, value)
		return
	}
	cycle = int(value)

	bits, err := parseHex(maskText, cpu.VECTOR_COUNT)
	if err != nil {
		return
	}
	mask = uint16(bits)
	return
}

// parseYes interprets an answer to a continue prompt. An empty answer
// is yes.
func parseYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	switch {
	case answer == "":
		return true
	case answer == "0" || answer == "false":
		return false
	case strings.Contains(answer, "y"), strings.Contains(answer, "1"), strings.Contains(answer, "true"):
		return true
	}
	return false
}

// disassemble returns a listing of a program image, one instruction
// per line.
func disassemble(words []uint8) (lines []string) {
	for pc := 0; pc < len(words); {
		var word1 uint8
		if pc+1 < len(words) {
			word1 = words[pc+1]
		}

		text, count, err := cpu.Disassemble(words[pc], word1)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%03X: %02X       ?? %v", pc, words[pc], err))
			pc++
			continue
		}

		if count > 1 {
			lines = append(lines, fmt.Sprintf("%03X: %02X %02X    %v", pc, words[pc], word1, text))
		} else {
			lines = append(lines, fmt.Sprintf("%03X: %02X       %v", pc, words[pc], text))
		}
		pc += count
	}

	return
}
