package cpu

import (
	"fmt"
)

// formName returns the assembler name of an operation, choosing the
// pointer increment variants of the byte load and store.
func formName(mnem Mnemonic, increment bool) (name string, form Form) {
	for key, candidate := range Forms {
		if candidate.Mnemonic != mnem || candidate.Syntax == SYNTAX_NONE && mnem == MNEM_MOV {
			continue
		}
		if candidate.Increment == increment {
			return key, candidate
		}
	}
	return mnem.String(), Form{Mnemonic: mnem}
}

// Disassemble the instruction whose first two program words are given.
// The count of program words the instruction occupies is returned.
func Disassemble(word0 uint8, word1 uint8) (text string, words int, err error) {
	op, err := Decode(word0)
	if err != nil {
		return
	}
	words = op.Words

	arg := Operand{Field: word0 & 0xf, Word: word1}
	src, dst := RegisterName(arg.Src()), RegisterName(arg.Dst())

	var increment bool
	switch op.Mnemonic {
	case MNEM_LXB:
		increment = arg.Src()&0x8 != 0
	case MNEM_SXB:
		increment = arg.Dst()&0x8 != 0
	case MNEM_MOV:
		if word1 == 0 {
			text = "nop"
			return
		}
	}

	name, form := formName(op.Mnemonic, increment)
	switch form.Syntax {
	case SYNTAX_NONE:
		text = name
	case SYNTAX_IMM16:
		text = fmt.Sprintf("%v 0x%04x", name, uint16(arg.Field)<<12|uint16(word1)<<4)
	case SYNTAX_VECTOR:
		text = fmt.Sprintf("%v 0x%03x, iv%d", name, uint16(word1)<<4, arg.Field)
	case SYNTAX_TARGET:
		text = fmt.Sprintf("%v 0x%03x", name, arg.Address())
	case SYNTAX_IMM8_REG:
		text = fmt.Sprintf("%v 0x%02x, %v", name, word1, RegisterName(int(arg.Field)))
	case SYNTAX_REG_REG:
		text = fmt.Sprintf("%v %v, %v", name, src, dst)
	case SYNTAX_BIAS_REG:
		text = fmt.Sprintf("%v %d, %v", name, arg.Src()+1, dst)
	case SYNTAX_PTR_REG:
		text = fmt.Sprintf("%v %d, %v", name, arg.Src()&0x7, dst)
	case SYNTAX_REG_PTR:
		text = fmt.Sprintf("%v %v, %d", name, src, arg.Dst()&0x7)
	case SYNTAX_PAIR:
		text = fmt.Sprintf("%v %d", name, arg.Src()&0x7)
	case SYNTAX_IMM8:
		text = fmt.Sprintf("%v 0x%02x", name, word1)
	case SYNTAX_REG:
		text = fmt.Sprintf("%v %v", name, RegisterName(int(arg.Field)))
	}

	return
}
