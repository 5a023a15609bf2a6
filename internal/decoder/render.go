package decoder

import (
	"fmt"

	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
)

// Render produces a human-readable assembly line for a decoded instruction,
// mirroring original_source/devkit/decoder.py's to_human_readable /
// to_human_readable_dat.
func Render(ins dcpu.Instruction) string {
	switch ins.Form {
	case dcpu.FormData:
		return fmt.Sprintf("DAT 0x%04x", ins.Raw)
	case dcpu.FormSpecial:
		return fmt.Sprintf("%s %s", ins.Mnemonic, renderOperand(ins.A, false))
	default:
		return fmt.Sprintf("%s %s, %s", ins.Mnemonic, renderOperand(ins.B, true), renderOperand(ins.A, false))
	}
}

// renderOperand renders one operand. isB distinguishes 0x18 as PUSH (when
// it is the destination operand) from POP (when it is the source operand),
// the one operand code whose text depends on which slot it occupies.
func renderOperand(op dcpu.Operand, isB bool) string {
	code := op.Code
	switch {
	case code >= dcpu.OperandRegDirectLo && code <= dcpu.OperandRegDirectHi:
		return dcpu.GeneralRegister(code).String()
	case code >= dcpu.OperandRegIndLo && code <= dcpu.OperandRegIndHi:
		return fmt.Sprintf("[%s]", dcpu.GeneralRegister(code-dcpu.OperandRegIndLo).String())
	case code >= dcpu.OperandRegOffsetLo && code <= dcpu.OperandRegOffsetHi:
		return fmt.Sprintf("[%s+0x%04x]", dcpu.GeneralRegister(code-dcpu.OperandRegOffsetLo).String(), op.NextWord)
	case code == dcpu.OperandPushPop:
		if isB {
			return "PUSH"
		}
		return "POP"
	case code == dcpu.OperandPeek:
		return "PEEK"
	case code == dcpu.OperandPick:
		return fmt.Sprintf("[SP+0x%04x]", op.NextWord)
	case code == dcpu.OperandSP:
		return "SP"
	case code == dcpu.OperandPCReg:
		return "PC"
	case code == dcpu.OperandEX:
		return "EX"
	case code == dcpu.OperandMemNextWord:
		return fmt.Sprintf("[0x%04x]", op.NextWord)
	case code == dcpu.OperandLiteralNext:
		return fmt.Sprintf("0x%04x", op.NextWord)
	case code == dcpu.OperandInlineNegOne:
		return "-1"
	case code >= dcpu.OperandInlineZero && code <= dcpu.OperandInlineHi:
		return fmt.Sprintf("0x%02x", code-dcpu.OperandInlineZero)
	default:
		return fmt.Sprintf("?0x%02x", code)
	}
}
