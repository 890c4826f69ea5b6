package cpu

import (
	"github.com/ezrec/hokster/bitvec"
)

func (cpu *Cpu) opMvs(arg Operand) (err error) {
	err = cpu.Sp.Write(bitvec.New(SP_WIDTH, uint64(arg.Address())<<4))
	return
}

func (cpu *Cpu) opMvv(arg Operand) (err error) {
	err = cpu.Vector.Write(int(arg.Field), byteVector(arg.Word))
	return
}

func (cpu *Cpu) opJmp(arg Operand) (err error) {
	err = cpu.Pc.Write(bitvec.New(PC_WIDTH, uint64(arg.Address())))
	return
}

// opJsrHigh pushes the high nibble of the return address.
func (cpu *Cpu) opJsrHigh(arg Operand) (err error) {
	ret := cpu.Pc.Read().Add(bitvec.New(PC_WIDTH, 2))
	err = cpu.Sp.Push(ret.Slice(PC_WIDTH-1, 8).Resize(8))
	return
}

// opJsr pushes the low byte of the return address, and jumps.
// The program counter is on the operand word here, one past the opcode.
func (cpu *Cpu) opJsr(arg Operand) (err error) {
	ret := cpu.Pc.Read().Add(bitvec.New(PC_WIDTH, 1))
	err = cpu.Sp.Push(ret.Slice(7, 0))
	if err != nil {
		return
	}
	err = cpu.Pc.Write(bitvec.New(PC_WIDTH, uint64(arg.Address())))
	return
}

func (cpu *Cpu) branch(flag Flag, arg Operand) (err error) {
	if cpu.Sr.Get(flag) {
		err = cpu.Pc.Write(bitvec.New(PC_WIDTH, uint64(arg.Address())))
	}
	return
}

func (cpu *Cpu) opBzi(arg Operand) error { return cpu.branch(FLAG_Z, arg) }
func (cpu *Cpu) opBni(arg Operand) error { return cpu.branch(FLAG_N, arg) }
func (cpu *Cpu) opBci(arg Operand) error { return cpu.branch(FLAG_C, arg) }
func (cpu *Cpu) opBxi(arg Operand) error { return cpu.branch(FLAG_X, arg) }

func (cpu *Cpu) opMvi(arg Operand) (err error) {
	err = cpu.Register.Write(int(arg.Field), byteVector(arg.Word))
	return
}

func (cpu *Cpu) opPsh(arg Operand) (err error) {
	value, err := cpu.Register.Read(int(arg.Field))
	if err != nil {
		return
	}
	err = cpu.Sp.Push(value)
	return
}

func (cpu *Cpu) opPop(arg Operand) (err error) {
	value, err := cpu.Sp.Pop()
	if err != nil {
		return
	}
	err = cpu.Register.Write(int(arg.Field), value)
	return
}

// operands reads the source and destination registers.
func (cpu *Cpu) operands(arg Operand) (a, b bitvec.Vector, err error) {
	a, err = cpu.Register.Read(arg.Src())
	if err != nil {
		return
	}
	b, err = cpu.Register.Read(arg.Dst())
	return
}

// arith writes an arithmetic result and its flags.
func (cpu *Cpu) arith(arg Operand, result bitvec.Vector, carry bool) (err error) {
	result = result.Resize(REGISTER_WIDTH)
	cpu.Sr.Set(FLAG_Z, result.IsZero())
	cpu.Sr.Set(FLAG_N, result.Msb())
	cpu.Sr.Set(FLAG_C, carry)
	err = cpu.Register.Write(arg.Dst(), result)
	return
}

// logic writes a result computed from both operands, leaving the flags.
func (cpu *Cpu) logic(arg Operand, fn func(a, b bitvec.Vector) bitvec.Vector) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	err = cpu.Register.Write(arg.Dst(), fn(a, b))
	return
}

func (cpu *Cpu) carry() bitvec.Vector {
	if cpu.Sr.Get(FLAG_C) {
		return bitvec.New(REGISTER_WIDTH+1, 1)
	}
	return bitvec.New(REGISTER_WIDTH+1, 0)
}

func (cpu *Cpu) opAdd(arg Operand) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	sum := a.Resize(REGISTER_WIDTH + 1).Add(b.Resize(REGISTER_WIDTH + 1))
	err = cpu.arith(arg, sum, sum.Msb())
	return
}

func (cpu *Cpu) opAdc(arg Operand) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	sum := a.Resize(REGISTER_WIDTH + 1).Add(b.Resize(REGISTER_WIDTH + 1)).Add(cpu.carry())
	err = cpu.arith(arg, sum, sum.Msb())
	return
}

func (cpu *Cpu) opSub(arg Operand) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	err = cpu.arith(arg, a.Sub(b), a.Less(b))
	return
}

func (cpu *Cpu) opSbc(arg Operand) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	wa := a.Resize(REGISTER_WIDTH + 1)
	wb := b.Resize(REGISTER_WIDTH + 1).Add(cpu.carry())
	err = cpu.arith(arg, wa.Sub(wb), wa.Less(wb))
	return
}

// immediate is the biased 1..16 immediate of adi and sbi.
func immediate(arg Operand) bitvec.Vector {
	return bitvec.New(REGISTER_WIDTH+1, uint64(arg.Src())+1)
}

func (cpu *Cpu) opAdi(arg Operand) (err error) {
	b, err := cpu.Register.Read(arg.Dst())
	if err != nil {
		return
	}
	sum := b.Resize(REGISTER_WIDTH + 1).Add(immediate(arg))
	err = cpu.arith(arg, sum, sum.Msb())
	return
}

func (cpu *Cpu) opSbi(arg Operand) (err error) {
	b, err := cpu.Register.Read(arg.Dst())
	if err != nil {
		return
	}
	wb := b.Resize(REGISTER_WIDTH + 1)
	imm := immediate(arg)
	err = cpu.arith(arg, wb.Sub(imm), wb.Less(imm))
	return
}

func (cpu *Cpu) opAnd(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return a.And(b) })
}

func (cpu *Cpu) opLor(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return a.Or(b) })
}

func (cpu *Cpu) opXor(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return a.Xor(b) })
}

func (cpu *Cpu) opNot(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return a.Not() })
}

// Shifts and rotates move the destination by the source amount.

func (cpu *Cpu) opSll(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return b.Shl(int(a.Uint())) })
}

func (cpu *Cpu) opSlr(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return b.Shr(int(a.Uint())) })
}

func (cpu *Cpu) opRol(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return b.RotateLeft(int(a.Uint())) })
}

func (cpu *Cpu) opRor(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return b.RotateRight(int(a.Uint())) })
}

func (cpu *Cpu) opAsb(arg Operand) error {
	return cpu.logic(arg, func(a, b bitvec.Vector) bitvec.Vector { return byteVector(aesSbox[vectorByte(a)]) })
}

// opPipeline advances the coprocessor pipeline of the current operation.
func (cpu *Cpu) opPipeline(arg Operand) (err error) {
	a, b, err := cpu.operands(arg)
	if err != nil {
		return
	}
	unit := cpu.op.Unit(cpu)
	state := unit.String()
	step := unit.Advance(a, b)
	if cpu.Verbose {
		cpu.logf("%v: %v a=%v b=%v %+v", cpu.op.Mnemonic, state, a, b, step)
	}
	if step.Write {
		err = cpu.Register.Write(arg.Dst(), step.Output)
		if err != nil {
			return
		}
	}
	cpu.hold = step.Hold
	return
}

func (cpu *Cpu) opMov(arg Operand) (err error) {
	value, err := cpu.Register.Read(arg.Src())
	if err != nil {
		return
	}
	err = cpu.Register.Write(arg.Dst(), value)
	return
}

// pointer decodes a byte pointer nibble: bit 3 requests a post-increment
// of the low register of the pair in bits 2..0.
func pointer(nibble int) (pair int, increment bool) {
	return nibble & 0x7, nibble&0x8 != 0
}

func (cpu *Cpu) postIncrement(pair int) (err error) {
	low, err := cpu.Register.Read(pair)
	if err != nil {
		return
	}
	err = cpu.Register.Write(pair, low.Add(byteVector(1)))
	return
}

func (cpu *Cpu) opLxb(arg Operand) (err error) {
	pair, increment := pointer(arg.Src())
	addr, err := cpu.Register.ReadPair(pair)
	if err != nil {
		return
	}
	value, err := cpu.Data.Read(int(addr.Uint()))
	if err != nil {
		return
	}
	err = cpu.Register.Write(arg.Dst(), value)
	if err != nil || !increment {
		return
	}
	err = cpu.postIncrement(pair)
	return
}

func (cpu *Cpu) opSxb(arg Operand) (err error) {
	pair, increment := pointer(arg.Dst())
	value, err := cpu.Register.Read(arg.Src())
	if err != nil {
		return
	}
	addr, err := cpu.Register.ReadPair(pair)
	if err != nil {
		return
	}
	err = cpu.Data.Write(int(addr.Uint()), value)
	if err != nil || !increment {
		return
	}
	err = cpu.postIncrement(pair)
	return
}

// opRetLow pops the low byte of the return address.
func (cpu *Cpu) opRetLow(arg Operand) (err error) {
	low, err := cpu.Sp.Pop()
	if err != nil {
		return
	}
	err = cpu.Pc.Write(cpu.Pc.Read().Slice(PC_WIDTH-1, 8).Concat(low))
	return
}

// opRet pops the high nibble of the return address.
func (cpu *Cpu) opRet(arg Operand) (err error) {
	high, err := cpu.Sp.Pop()
	if err != nil {
		return
	}
	err = cpu.Pc.Write(high.Slice(PC_WIDTH-9, 0).Concat(cpu.Pc.Read().Slice(7, 0)))
	return
}

func (cpu *Cpu) opStr(arg Operand) (err error) {
	err = cpu.Sp.Push(cpu.Sr.Read())
	return
}

func (cpu *Cpu) opLsr(arg Operand) (err error) {
	value, err := cpu.Sp.Pop()
	if err != nil {
		return
	}
	err = cpu.Sr.Write(value)
	return
}

func (cpu *Cpu) opRie(arg Operand) (err error) {
	pair := arg.Src() & 0x7
	hi, lo := cpu.Ie.Read()
	err = cpu.Register.WritePair(pair, hi.Concat(lo))
	return
}

func (cpu *Cpu) opSie(arg Operand) (err error) {
	value, err := cpu.Register.ReadPair(arg.Src() & 0x7)
	if err != nil {
		return
	}
	err = cpu.Ie.Write(value.Slice(15, 8), value.Slice(7, 0))
	return
}

func (cpu *Cpu) opHlt(arg Operand) (err error) {
	cpu.State = STATE_HALTED
	return
}

func (cpu *Cpu) opRti(arg Operand) (err error) {
	err = cpu.Register.Restore(cpu.Config.ShadowPairs)
	if err != nil {
		return
	}
	cpu.Sr.Restore()
	cpu.Pc.Restore()
	cpu.Interrupt = false
	return
}

func (cpu *Cpu) opSys(arg Operand) (err error) {
	err = cpu.Bus.Write(byteVector(arg.Word))
	return
}
