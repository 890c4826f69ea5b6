// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Syntax is the operand syntax of an assembler instruction.
type Syntax int

//go:generate go tool stringer -linecomment -type=Syntax
const (
	SYNTAX_NONE     = Syntax(iota) // ret
	SYNTAX_IMM16                   // mvs Im16
	SYNTAX_VECTOR                  // mvv Im12, ivN
	SYNTAX_TARGET                  // jmp Im12|label
	SYNTAX_IMM8_REG                // mvi Im8, reg
	SYNTAX_REG_REG                 // add src, dst
	SYNTAX_BIAS_REG                // adi Im1..16, reg
	SYNTAX_PTR_REG                 // ldb Im3, reg
	SYNTAX_REG_PTR                 // stb reg, Im3
	SYNTAX_PAIR                    // rie Im3
	SYNTAX_IMM8                    // sys Im8
	SYNTAX_REG                     // psh reg
)

// Form is an assembler instruction: an operation, its operand syntax,
// and the pointer post-increment flag of the byte load and store forms.
type Form struct {
	Mnemonic  Mnemonic
	Syntax    Syntax
	Increment bool
}

// Forms maps assembler instruction names to their forms.
var Forms = map[string]Form{
	"mvs": {Mnemonic: MNEM_MVS, Syntax: SYNTAX_IMM16},
	"mvv": {Mnemonic: MNEM_MVV, Syntax: SYNTAX_VECTOR},
	"jmp": {Mnemonic: MNEM_JMP, Syntax: SYNTAX_TARGET},
	"jsr": {Mnemonic: MNEM_JSR, Syntax: SYNTAX_TARGET},
	"bzi": {Mnemonic: MNEM_BZI, Syntax: SYNTAX_TARGET},
	"bni": {Mnemonic: MNEM_BNI, Syntax: SYNTAX_TARGET},
	"bci": {Mnemonic: MNEM_BCI, Syntax: SYNTAX_TARGET},
	"bxi": {Mnemonic: MNEM_BXI, Syntax: SYNTAX_TARGET},
	"mvi": {Mnemonic: MNEM_MVI, Syntax: SYNTAX_IMM8_REG},
	"psh": {Mnemonic: MNEM_PSH, Syntax: SYNTAX_REG},
	"pop": {Mnemonic: MNEM_POP, Syntax: SYNTAX_REG},
	"add": {Mnemonic: MNEM_ADD, Syntax: SYNTAX_REG_REG},
	"sub": {Mnemonic: MNEM_SUB, Syntax: SYNTAX_REG_REG},
	"and": {Mnemonic: MNEM_AND, Syntax: SYNTAX_REG_REG},
	"lor": {Mnemonic: MNEM_LOR, Syntax: SYNTAX_REG_REG},
	"sll": {Mnemonic: MNEM_SLL, Syntax: SYNTAX_REG_REG},
	"rol": {Mnemonic: MNEM_ROL, Syntax: SYNTAX_REG_REG},
	"slr": {Mnemonic: MNEM_SLR, Syntax: SYNTAX_REG_REG},
	"ror": {Mnemonic: MNEM_ROR, Syntax: SYNTAX_REG_REG},
	"not": {Mnemonic: MNEM_NOT, Syntax: SYNTAX_REG_REG},
	"xor": {Mnemonic: MNEM_XOR, Syntax: SYNTAX_REG_REG},
	"adc": {Mnemonic: MNEM_ADC, Syntax: SYNTAX_REG_REG},
	"sbc": {Mnemonic: MNEM_SBC, Syntax: SYNTAX_REG_REG},
	"adi": {Mnemonic: MNEM_ADI, Syntax: SYNTAX_BIAS_REG},
	"sbi": {Mnemonic: MNEM_SBI, Syntax: SYNTAX_BIAS_REG},
	"asb": {Mnemonic: MNEM_ASB, Syntax: SYNTAX_REG_REG},
	"amc": {Mnemonic: MNEM_AMC, Syntax: SYNTAX_REG_REG},
	"swd": {Mnemonic: MNEM_SWD, Syntax: SYNTAX_REG_REG},
	"gsp": {Mnemonic: MNEM_GSP, Syntax: SYNTAX_REG_REG},
	"mov": {Mnemonic: MNEM_MOV, Syntax: SYNTAX_REG_REG},
	"nop": {Mnemonic: MNEM_MOV, Syntax: SYNTAX_NONE},
	"ldb": {Mnemonic: MNEM_LXB, Syntax: SYNTAX_PTR_REG},
	"lpb": {Mnemonic: MNEM_LXB, Syntax: SYNTAX_PTR_REG, Increment: true},
	"stb": {Mnemonic: MNEM_SXB, Syntax: SYNTAX_REG_PTR},
	"spb": {Mnemonic: MNEM_SXB, Syntax: SYNTAX_REG_PTR, Increment: true},
	"ret": {Mnemonic: MNEM_RET, Syntax: SYNTAX_NONE},
	"str": {Mnemonic: MNEM_STR, Syntax: SYNTAX_NONE},
	"lsr": {Mnemonic: MNEM_LSR, Syntax: SYNTAX_NONE},
	"rie": {Mnemonic: MNEM_RIE, Syntax: SYNTAX_PAIR},
	"sie": {Mnemonic: MNEM_SIE, Syntax: SYNTAX_PAIR},
	"hlt": {Mnemonic: MNEM_HLT, Syntax: SYNTAX_NONE},
	"rti": {Mnemonic: MNEM_RTI, Syntax: SYNTAX_NONE},
	"sys": {Mnemonic: MNEM_SYS, Syntax: SYNTAX_IMM8},
}

// Assembler is a two pass assembler. The first pass sizes every line
// and collects the labels, the second encodes with all labels known.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to program addresses.
	Equate    map[string]string // Map of equates.
	Data      map[int]uint8     // Data memory image, by address.

	known map[string]int // Labels found by the first pass.
	final bool           // Set on the second pass.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if isIdentifier(word) {
		pc, ok := asm.known[word]
		switch {
		case ok:
			value = int64(pc)
		case asm.final:
			err = ErrLabelMissing(word)
		}
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	value, err = strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	if invert {
		value = ^value
	}
	return
}

// immediate parses a value within lo..hi inclusive.
func (asm *Assembler) immediate(word string, lo int64, hi int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if (value < lo || value > hi) && asm.final {
		err = fmt.Errorf("%w: %v not in %v..%v", ErrImmediateRange, word, lo, hi)
	}
	return
}

// register parses a general register name.
func register(word string) (index uint8, err error) {
	if len(word) == 2 && word[1] >= '0' && word[1] <= '7' {
		switch word[0] {
		case 'r':
			index = word[1] - '0'
			return
		case 'a':
			index = word[1] - '0' + REGISTER_BANK
			return
		}
	}
	err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
	return
}

// vector parses an interrupt vector register name.
func vector(word string) (index uint8, err error) {
	if strings.HasPrefix(word, "iv") {
		var n uint64
		n, err = strconv.ParseUint(word[2:], 10, 8)
		if err == nil && n < VECTOR_COUNT {
			index = uint8(n)
			return
		}
	}
	err = fmt.Errorf("%w: %v", ErrVectorInvalid, word)
	return
}

// isIdentifier is true for words that can only be a label.
var isIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`).MatchString

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, pc := range asm.known {
		pred[key] = starlark.MakeInt(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// stripComment removes '#', '//' and ';' comments.
func stripComment(text string) string {
	for _, marker := range []string{"#", "//", ";"} {
		if index := strings.Index(text, marker); index >= 0 {
			text = text[:index]
		}
	}
	return text
}

var charQuote = regexp.MustCompile(`'\\?[^']'`)
var parenExpr = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine splits a line into words, expanding character constants,
// $() expressions, equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charQuote.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenExpr.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && asm.final {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// .lbl NAME
	if words[0] == ".lbl" {
		if len(words) != 2 || !isIdentifier(words[1]) {
			err = ErrLabelSyntax
			return
		}
		err = asm.defineLabel(words[1])
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(words[0][:len(words[0])-1])
		if err != nil {
			return
		}
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

func (asm *Assembler) defineLabel(label string) (err error) {
	_, ok := asm.Label[label]
	if ok {
		err = fmt.Errorf("%w: %v", ErrLabelDuplicate, label)
		return
	}
	asm.Label[label] = asm.currentPc()
	return
}

// currentPc gets the address of the next opcode.
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + len(last.Codes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var source []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		source = append(source, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	asm.known = map[string]int{}
	for pass := range 2 {
		asm.final = pass == 1
		err = asm.pass(source)
		if err != nil {
			return
		}
		asm.known = asm.Label
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Data:    maps.Clone(asm.Data),
	}

	return
}

// pass assembles the whole source once.
func (asm *Assembler) pass(source []string) (err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]int{}
	asm.Opcode = nil
	asm.Data = map[int]uint8{}
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for _, text := range source {
		lineno += 1

		if asm.Verbose && asm.final {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	lineno = 0
	line = ""
	if asm.currentPc() > PROGRAM_SIZE {
		err = fmt.Errorf("%w: %d words", ErrProgramSize, asm.currentPc())
		return
	}

	exit := []uint8{operations[MNEM_SYS].Encode(0), SYS_EXIT}
	if asm.final && !slices.ContainsFunc(asm.Opcode, func(op Opcode) bool {
		return slices.Equal(op.Codes, exit)
	}) {
		err = ErrExitMissing
		return
	}

	return
}

// parseWords handles directives and instructions.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	opcode := Opcode{
		LineNo: lineno,
		Pc:     asm.currentPc(),
		Words:  slices.Clone(words),
	}

	switch words[0] {
	case ".dat":
		err = asm.parseData(words[1:])
		return
	case ".align":
		if len(words) != 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		pad := (16 - opcode.Pc%16) % 16
		if pad == 0 {
			return
		}
		opcode.Codes = make([]uint8, pad)
	default:
		if strings.HasPrefix(words[0], ".") {
			err = fmt.Errorf("%w: %v", ErrDirectiveInvalid, words[0])
			return
		}
		form, ok := Forms[words[0]]
		if !ok {
			err = fmt.Errorf("%w: %v", ErrOpcodeInvalid, words[0])
			return
		}
		opcode.Codes, err = asm.encode(form, words[1:])
		if err != nil {
			return
		}
	}

	if asm.Verbose && asm.final {
		log.Printf("%03x: % 02x %v", opcode.Pc, opcode.Codes, words)
	}

	asm.Opcode = append(asm.Opcode, opcode)
	return
}

// parseData handles '.dat ADDR VALUE...'
func (asm *Assembler) parseData(args []string) (err error) {
	if len(args) < 2 {
		err = ErrDataSyntax
		return
	}
	addr, err := asm.immediate(args[0], 0, DATA_SIZE-1)
	if err != nil {
		return
	}
	for n, arg := range args[1:] {
		var value int64
		value, err = asm.immediate(arg, -0x80, 0xff)
		if err != nil {
			return
		}
		at := int(addr) + n
		if at >= DATA_SIZE {
			err = fmt.Errorf("%w: data address 0x%x", ErrImmediateRange, at)
			return
		}
		if _, ok := asm.Data[at]; ok {
			err = fmt.Errorf("%w: address 0x%x", ErrDataOverlap, at)
			return
		}
		asm.Data[at] = uint8(value)
	}
	return
}

// argCount is the operand count of each syntax.
var argCount = map[Syntax]int{
	SYNTAX_NONE:     0,
	SYNTAX_IMM16:    1,
	SYNTAX_VECTOR:   2,
	SYNTAX_TARGET:   1,
	SYNTAX_IMM8_REG: 2,
	SYNTAX_REG_REG:  2,
	SYNTAX_BIAS_REG: 2,
	SYNTAX_PTR_REG:  2,
	SYNTAX_REG_PTR:  2,
	SYNTAX_PAIR:     1,
	SYNTAX_IMM8:     1,
	SYNTAX_REG:      1,
}

// encode the program words of an instruction.
func (asm *Assembler) encode(form Form, args []string) (codes []uint8, err error) {
	op := &operations[form.Mnemonic]

	want := argCount[form.Syntax]
	if len(args) > want {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < want {
		err = ErrOpcodeValueMissing
		return
	}

	var increment uint8
	if form.Increment {
		increment = 0x8
	}

	var field, word uint8
	var v int64
	var r, s uint8
	switch form.Syntax {
	case SYNTAX_NONE:
	case SYNTAX_IMM16:
		v, err = asm.immediate(args[0], 0, 0xffff)
		field, word = uint8(v>>12), uint8(v>>4)
	case SYNTAX_VECTOR:
		v, err = asm.immediate(args[0], 0, PC_MAX)
		if err == nil {
			field, err = vector(args[1])
		}
		word = uint8(v >> 4)
	case SYNTAX_TARGET:
		v, err = asm.immediate(args[0], 0, PC_MAX)
		field, word = uint8(v>>8), uint8(v)
	case SYNTAX_IMM8_REG:
		v, err = asm.immediate(args[0], -0x80, 0xff)
		if err == nil {
			field, err = register(args[1])
		}
		word = uint8(v)
	case SYNTAX_REG_REG:
		r, err = register(args[0])
		if err == nil {
			s, err = register(args[1])
		}
		word = r<<4 | s
	case SYNTAX_BIAS_REG:
		v, err = asm.immediate(args[0], 1, 16)
		if err == nil {
			r, err = register(args[1])
		}
		word = uint8(v-1)<<4 | r
	case SYNTAX_PTR_REG:
		v, err = asm.immediate(args[0], 0, REGISTER_BANK-1)
		if err == nil {
			r, err = register(args[1])
		}
		word = (increment|uint8(v))<<4 | r
	case SYNTAX_REG_PTR:
		r, err = register(args[0])
		if err == nil {
			v, err = asm.immediate(args[1], 0, REGISTER_BANK-1)
		}
		word = r<<4 | increment | uint8(v)
	case SYNTAX_PAIR:
		v, err = asm.immediate(args[0], 0, REGISTER_BANK-1)
		word = uint8(v) << 4
	case SYNTAX_IMM8:
		v, err = asm.immediate(args[0], -0x80, 0xff)
		word = uint8(v)
	case SYNTAX_REG:
		field, err = register(args[0])
	}
	if err != nil {
		return
	}

	codes = []uint8{op.Encode(field)}
	if op.Words > 1 {
		codes = append(codes, word)
	}

	return
}
