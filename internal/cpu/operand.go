package cpu

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// resolved is one operand's read value plus an optional write-back. Write
// is nil for operands that can't be stored to (literals); storing to one
// is always a silent no-op, never an error, per spec.
type resolved struct {
	value uint16
	write func(v uint16)
}

func (r resolved) set(v uint16) {
	if r.write != nil {
		r.write(v)
	}
}

// resolveOperand evaluates one decoded operand. isB distinguishes 0x18 as
// PUSH (decrement SP then address it) from POP (address SP then
// increment), the one operand code whose side effect depends on which
// slot it occupies. Operand a is always resolved before operand b so that
// a's side effect (POP, PEEK, PC read) happens first, matching
// decoder/assembler ordering.
func (c *CPU) resolveOperand(op dcpu.Operand, isB bool) resolved {
	code := op.Code
	switch {
	case code >= dcpu.OperandRegDirectLo && code <= dcpu.OperandRegDirectHi:
		reg := dcpu.GeneralRegister(code)
		return resolved{value: c.Regs.Get(reg), write: func(v uint16) { c.Regs.Set(reg, v) }}

	case code >= dcpu.OperandRegIndLo && code <= dcpu.OperandRegIndHi:
		reg := dcpu.GeneralRegister(code - dcpu.OperandRegIndLo)
		addr := c.Regs.Get(reg)
		return c.memOperand(addr)

	case code >= dcpu.OperandRegOffsetLo && code <= dcpu.OperandRegOffsetHi:
		reg := dcpu.GeneralRegister(code - dcpu.OperandRegOffsetLo)
		addr := c.Regs.Get(reg) + op.NextWord
		return c.memOperand(addr)

	case code == dcpu.OperandPushPop:
		var addr uint16
		if isB {
			addr = c.Regs.Get(dcpu.SP) - 1
			c.Regs.Set(dcpu.SP, addr)
		} else {
			addr = c.Regs.Get(dcpu.SP)
			c.Regs.Set(dcpu.SP, addr+1)
		}
		return c.memOperand(addr)

	case code == dcpu.OperandPeek:
		return c.memOperand(c.Regs.Get(dcpu.SP))

	case code == dcpu.OperandPick:
		return c.memOperand(c.Regs.Get(dcpu.SP) + op.NextWord)

	case code == dcpu.OperandSP:
		return resolved{value: c.Regs.Get(dcpu.SP), write: func(v uint16) { c.Regs.Set(dcpu.SP, v) }}

	case code == dcpu.OperandPCReg:
		return resolved{value: c.Regs.Get(dcpu.PC), write: func(v uint16) { c.Regs.Set(dcpu.PC, v) }}

	case code == dcpu.OperandEX:
		return resolved{value: c.Regs.Get(dcpu.EX), write: func(v uint16) { c.Regs.Set(dcpu.EX, v) }}

	case code == dcpu.OperandMemNextWord:
		return c.memOperand(op.NextWord)

	case code == dcpu.OperandLiteralNext:
		return resolved{value: op.NextWord}

	default: // 0x20-0x3f: inline literal, never writable
		return resolved{value: code - dcpu.OperandInlineZero}
	}
}

func (c *CPU) memOperand(addr uint16) resolved {
	return resolved{
		value: c.RAM.Read(addr),
		write: func(v uint16) { c.RAM.Write(addr, v) },
	}
}
