// Package cpu implements the cycle level model and assembler of the
// HOKSTER processor.
//
// The machine has sixteen 8-bit general registers (r0-r7, a0-a7) that
// pair up as 16-bit data pointers, sixteen interrupt vector registers, a
// 12-bit program counter over a 4096 word program memory, a 16-bit stack
// pointer into a 65536 word data memory, and three coprocessor pipelines
// (AES MixColumns, a 32-bit rotator, and the GIFT-128 S-box and bit
// permutation) driven byte pairs at a time from the register file.
//
// The assembler reads the HOKSTER assembly language, with labels,
// equates, data directives and compile-time $(...) expressions.
package cpu
