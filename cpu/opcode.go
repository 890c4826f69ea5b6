package cpu

import (
	"fmt"
)

// Primary is the high nibble of an instruction's first word.
type Primary int

const (
	PRIMARY_MVS   = Primary(0x0)
	PRIMARY_MVV   = Primary(0x1)
	PRIMARY_JMP   = Primary(0x2)
	PRIMARY_JSR   = Primary(0x3)
	PRIMARY_BZI   = Primary(0x4)
	PRIMARY_BNI   = Primary(0x5)
	PRIMARY_BCI   = Primary(0x6)
	PRIMARY_BXI   = Primary(0x7)
	PRIMARY_MVI   = Primary(0x8)
	PRIMARY_ALU   = Primary(0x9)
	PRIMARY_ALUC1 = Primary(0xa)
	PRIMARY_ALUC2 = Primary(0xb)
	PRIMARY_GEN1  = Primary(0xc)
	PRIMARY_PSH   = Primary(0xd)
	PRIMARY_POP   = Primary(0xe)
)

// Kind is the shape of an instruction.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_FIXED       = Kind(0) // fixed
	KIND_TWO_LEVEL   = Kind(1) // two-level
	KIND_COPROCESSOR = Kind(2) // coprocessor
)

// Mnemonic identifies an instruction.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MNEM_MVS = Mnemonic(iota) // mvs
	MNEM_MVV                  // mvv
	MNEM_JMP                  // jmp
	MNEM_JSR                  // jsr
	MNEM_BZI                  // bzi
	MNEM_BNI                  // bni
	MNEM_BCI                  // bci
	MNEM_BXI                  // bxi
	MNEM_MVI                  // mvi
	MNEM_PSH                  // psh
	MNEM_POP                  // pop
	MNEM_ADD                  // add
	MNEM_SUB                  // sub
	MNEM_AND                  // and
	MNEM_LOR                  // lor
	MNEM_SLL                  // sll
	MNEM_ROL                  // rol
	MNEM_SLR                  // slr
	MNEM_ROR                  // ror
	MNEM_NOT                  // not
	MNEM_XOR                  // xor
	MNEM_ADC                  // adc
	MNEM_SBC                  // sbc
	MNEM_ADI                  // adi
	MNEM_SBI                  // sbi
	MNEM_ASB                  // asb
	MNEM_AMC                  // amc
	MNEM_SWD                  // swd
	MNEM_GSP                  // gsp
	MNEM_MOV                  // mov
	MNEM_LXB                  // lxb
	MNEM_SXB                  // sxb
	MNEM_RET                  // ret
	MNEM_STR                  // str
	MNEM_LSR                  // lsr
	MNEM_RIE                  // rie
	MNEM_SIE                  // sie
	MNEM_HLT                  // hlt
	MNEM_RTI                  // rti
	MNEM_SYS                  // sys
	MNEMONIC_COUNT            // -
)

// Handler runs one cycle of an instruction.
type Handler func(cpu *Cpu, arg Operand) (err error)

// Operation binds an instruction to its encoding and its per-cycle handlers.
//
// Handler[0] runs on the recognition cycle, Handler[n] on cycle n.
// A nil slot does nothing on that cycle.
type Operation struct {
	Mnemonic  Mnemonic
	Kind      Kind
	Primary   Primary
	Secondary uint8 // Secondary opcode, for two-level and coprocessor kinds.
	Cycles    int   // Declared cycles. Pipelines extend this by holding.
	Words     int   // Program words occupied.
	Handler   []Handler
	// Unit selects the pipeline driven by a coprocessor operation.
	Unit func(cpu *Cpu) Pipeline
}

// Encode the first word of the operation, with field as the low nibble
// of fixed operations.
func (op *Operation) Encode(field uint8) uint8 {
	if op.Kind == KIND_FIXED {
		return uint8(op.Primary)<<4 | field&0xf
	}
	return uint8(op.Primary)<<4 | op.Secondary
}

func (op *Operation) String() string {
	return fmt.Sprintf("%v(%v %d cycles)", op.Mnemonic, op.Kind, op.Cycles)
}

func fixed(mnem Mnemonic, primary Primary, cycles int, words int, handler ...Handler) Operation {
	return Operation{
		Mnemonic: mnem,
		Kind:     KIND_FIXED,
		Primary:  primary,
		Cycles:   cycles,
		Words:    words,
		Handler:  handler,
	}
}

func twoLevel(mnem Mnemonic, primary Primary, secondary uint8, cycles int, words int, handler ...Handler) Operation {
	return Operation{
		Mnemonic:  mnem,
		Kind:      KIND_TWO_LEVEL,
		Primary:   primary,
		Secondary: secondary,
		Cycles:    cycles,
		Words:     words,
		Handler:   handler,
	}
}

func coprocessor(mnem Mnemonic, secondary uint8, unit func(cpu *Cpu) Pipeline) Operation {
	return Operation{
		Mnemonic:  mnem,
		Kind:      KIND_COPROCESSOR,
		Primary:   PRIMARY_ALUC1,
		Secondary: secondary,
		Cycles:    2,
		Words:     2,
		Handler:   []Handler{nil, (*Cpu).opPipeline},
		Unit:      unit,
	}
}

var operations = [MNEMONIC_COUNT]Operation{
	MNEM_MVS: fixed(MNEM_MVS, PRIMARY_MVS, 2, 2, nil, (*Cpu).opMvs),
	MNEM_MVV: fixed(MNEM_MVV, PRIMARY_MVV, 2, 2, nil, (*Cpu).opMvv),
	MNEM_JMP: fixed(MNEM_JMP, PRIMARY_JMP, 2, 2, nil, (*Cpu).opJmp),
	MNEM_JSR: fixed(MNEM_JSR, PRIMARY_JSR, 2, 2, (*Cpu).opJsrHigh, (*Cpu).opJsr),
	MNEM_BZI: fixed(MNEM_BZI, PRIMARY_BZI, 2, 2, nil, (*Cpu).opBzi),
	MNEM_BNI: fixed(MNEM_BNI, PRIMARY_BNI, 2, 2, nil, (*Cpu).opBni),
	MNEM_BCI: fixed(MNEM_BCI, PRIMARY_BCI, 2, 2, nil, (*Cpu).opBci),
	MNEM_BXI: fixed(MNEM_BXI, PRIMARY_BXI, 2, 2, nil, (*Cpu).opBxi),
	MNEM_MVI: fixed(MNEM_MVI, PRIMARY_MVI, 2, 2, nil, (*Cpu).opMvi),
	MNEM_PSH: fixed(MNEM_PSH, PRIMARY_PSH, 1, 1, (*Cpu).opPsh),
	MNEM_POP: fixed(MNEM_POP, PRIMARY_POP, 1, 1, (*Cpu).opPop),

	MNEM_ADD: twoLevel(MNEM_ADD, PRIMARY_ALU, 0x0, 2, 2, nil, (*Cpu).opAdd),
	MNEM_SUB: twoLevel(MNEM_SUB, PRIMARY_ALU, 0x1, 2, 2, nil, (*Cpu).opSub),
	MNEM_AND: twoLevel(MNEM_AND, PRIMARY_ALU, 0x2, 2, 2, nil, (*Cpu).opAnd),
	MNEM_LOR: twoLevel(MNEM_LOR, PRIMARY_ALU, 0x3, 2, 2, nil, (*Cpu).opLor),
	MNEM_SLL: twoLevel(MNEM_SLL, PRIMARY_ALU, 0x4, 2, 2, nil, (*Cpu).opSll),
	MNEM_ROL: twoLevel(MNEM_ROL, PRIMARY_ALU, 0x5, 2, 2, nil, (*Cpu).opRol),
	MNEM_SLR: twoLevel(MNEM_SLR, PRIMARY_ALU, 0x6, 2, 2, nil, (*Cpu).opSlr),
	MNEM_ROR: twoLevel(MNEM_ROR, PRIMARY_ALU, 0x7, 2, 2, nil, (*Cpu).opRor),
	MNEM_NOT: twoLevel(MNEM_NOT, PRIMARY_ALU, 0xa, 2, 2, nil, (*Cpu).opNot),
	MNEM_XOR: twoLevel(MNEM_XOR, PRIMARY_ALU, 0xb, 2, 2, nil, (*Cpu).opXor),
	MNEM_ADC: twoLevel(MNEM_ADC, PRIMARY_ALU, 0xc, 2, 2, nil, (*Cpu).opAdc),
	MNEM_SBC: twoLevel(MNEM_SBC, PRIMARY_ALU, 0xd, 2, 2, nil, (*Cpu).opSbc),
	MNEM_ADI: twoLevel(MNEM_ADI, PRIMARY_ALU, 0xe, 2, 2, nil, (*Cpu).opAdi),
	MNEM_SBI: twoLevel(MNEM_SBI, PRIMARY_ALU, 0xf, 2, 2, nil, (*Cpu).opSbi),

	MNEM_ASB: twoLevel(MNEM_ASB, PRIMARY_ALUC1, 0x0, 2, 2, nil, (*Cpu).opAsb),
	MNEM_AMC: coprocessor(MNEM_AMC, 0x2, func(cpu *Cpu) Pipeline { return &cpu.Amc }),
	MNEM_SWD: coprocessor(MNEM_SWD, 0x4, func(cpu *Cpu) Pipeline { return &cpu.Swd }),
	MNEM_GSP: coprocessor(MNEM_GSP, 0x5, func(cpu *Cpu) Pipeline { return &cpu.Gsp }),

	MNEM_MOV: twoLevel(MNEM_MOV, PRIMARY_GEN1, 0x0, 2, 2, nil, (*Cpu).opMov),
	MNEM_LXB: twoLevel(MNEM_LXB, PRIMARY_GEN1, 0x1, 2, 2, nil, (*Cpu).opLxb),
	MNEM_SXB: twoLevel(MNEM_SXB, PRIMARY_GEN1, 0x2, 2, 2, nil, (*Cpu).opSxb),
	MNEM_RET: twoLevel(MNEM_RET, PRIMARY_GEN1, 0x3, 2, 1, (*Cpu).opRetLow, (*Cpu).opRet),
	MNEM_STR: twoLevel(MNEM_STR, PRIMARY_GEN1, 0x4, 1, 1, (*Cpu).opStr),
	MNEM_LSR: twoLevel(MNEM_LSR, PRIMARY_GEN1, 0x5, 1, 1, (*Cpu).opLsr),
	MNEM_RIE: twoLevel(MNEM_RIE, PRIMARY_GEN1, 0x6, 2, 2, nil, (*Cpu).opRie),
	MNEM_SIE: twoLevel(MNEM_SIE, PRIMARY_GEN1, 0x7, 2, 2, nil, (*Cpu).opSie),
	MNEM_HLT: twoLevel(MNEM_HLT, PRIMARY_GEN1, 0x8, 1, 1, (*Cpu).opHlt),
	MNEM_RTI: twoLevel(MNEM_RTI, PRIMARY_GEN1, 0x9, 1, 1, (*Cpu).opRti),
	MNEM_SYS: twoLevel(MNEM_SYS, PRIMARY_GEN1, 0xf, 2, 2, nil, (*Cpu).opSys),
}

func decodeAlu(secondary uint8) (mnem Mnemonic, ok bool) {
	ok = true
	switch secondary {
	case 0x0:
		mnem = MNEM_ADD
	case 0x1:
		mnem = MNEM_SUB
	case 0x2:
		mnem = MNEM_AND
	case 0x3:
		mnem = MNEM_LOR
	case 0x4:
		mnem = MNEM_SLL
	case 0x5:
		mnem = MNEM_ROL
	case 0x6:
		mnem = MNEM_SLR
	case 0x7:
		mnem = MNEM_ROR
	case 0xa:
		mnem = MNEM_NOT
	case 0xb:
		mnem = MNEM_XOR
	case 0xc:
		mnem = MNEM_ADC
	case 0xd:
		mnem = MNEM_SBC
	case 0xe:
		mnem = MNEM_ADI
	case 0xf:
		mnem = MNEM_SBI
	default:
		ok = false
	}
	return
}

func decodeCoprocessor(secondary uint8) (mnem Mnemonic, ok bool) {
	ok = true
	switch secondary {
	case 0x0:
		mnem = MNEM_ASB
	case 0x2:
		mnem = MNEM_AMC
	case 0x4:
		mnem = MNEM_SWD
	case 0x5:
		mnem = MNEM_GSP
	default:
		ok = false
	}
	return
}

func decodeGen1(secondary uint8) (mnem Mnemonic, ok bool) {
	ok = true
	switch secondary {
	case 0x0:
		mnem = MNEM_MOV
	case 0x1:
		mnem = MNEM_LXB
	case 0x2:
		mnem = MNEM_SXB
	case 0x3:
		mnem = MNEM_RET
	case 0x4:
		mnem = MNEM_STR
	case 0x5:
		mnem = MNEM_LSR
	case 0x6:
		mnem = MNEM_RIE
	case 0x7:
		mnem = MNEM_SIE
	case 0x8:
		mnem = MNEM_HLT
	case 0x9:
		mnem = MNEM_RTI
	case 0xf:
		mnem = MNEM_SYS
	default:
		ok = false
	}
	return
}

// Decode the first word of an instruction.
func Decode(word uint8) (op *Operation, err error) {
	secondary := word & 0xf

	var mnem Mnemonic
	ok := true
	switch Primary(word >> 4) {
	case PRIMARY_MVS:
		mnem = MNEM_MVS
	case PRIMARY_MVV:
		mnem = MNEM_MVV
	case PRIMARY_JMP:
		mnem = MNEM_JMP
	case PRIMARY_JSR:
		mnem = MNEM_JSR
	case PRIMARY_BZI:
		mnem = MNEM_BZI
	case PRIMARY_BNI:
		mnem = MNEM_BNI
	case PRIMARY_BCI:
		mnem = MNEM_BCI
	case PRIMARY_BXI:
		mnem = MNEM_BXI
	case PRIMARY_MVI:
		mnem = MNEM_MVI
	case PRIMARY_ALU:
		mnem, ok = decodeAlu(secondary)
	case PRIMARY_ALUC1, PRIMARY_ALUC2:
		mnem, ok = decodeCoprocessor(secondary)
	case PRIMARY_GEN1:
		mnem, ok = decodeGen1(secondary)
	case PRIMARY_PSH:
		mnem = MNEM_PSH
	case PRIMARY_POP:
		mnem = MNEM_POP
	default:
		ok = false
	}

	if !ok {
		err = ErrDecode
		return
	}

	op = &operations[mnem]
	return
}

// Lookup an operation by mnemonic.
func Lookup(mnem Mnemonic) (op *Operation, ok bool) {
	if mnem < 0 || mnem >= MNEMONIC_COUNT {
		return
	}
	op = &operations[mnem]
	ok = true
	return
}

// Operand holds the operand fields of the current instruction.
type Operand struct {
	Field uint8 // Low nibble of the first word.
	Word  uint8 // Second word, once fetched.
}

// Address is the 12-bit operand of the fixed operations.
func (arg Operand) Address() uint16 {
	return uint16(arg.Field&0xf)<<8 | uint16(arg.Word)
}

// Src is the high nibble of the second word.
func (arg Operand) Src() int {
	return int(arg.Word >> 4)
}

// Dst is the low nibble of the second word.
func (arg Operand) Dst() int {
	return int(arg.Word & 0xf)
}
