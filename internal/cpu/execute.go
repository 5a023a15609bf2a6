package cpu

import (
	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
	"github.com/brickbtv/CodeSpace-DevKit/internal/decoder"
)

// execBasic dispatches a two-operand instruction. a is resolved before b,
// so a's side effect (POP/PEEK/PC-read) happens first.
func (c *CPU) execBasic(ins dcpu.Instruction) error {
	a := c.resolveOperand(ins.A, false)
	b := c.resolveOperand(ins.B, true)

	switch ins.Opcode {
	case dcpu.OpSET:
		b.set(a.value)
	case dcpu.OpADD:
		sum := uint32(b.value) + uint32(a.value)
		b.set(uint16(sum))
		c.setEX(sum > 0xffff, 0x0001)
	case dcpu.OpSUB:
		diff := int32(b.value) - int32(a.value)
		b.set(uint16(diff))
		c.setEX(diff < 0, 0xffff)
	case dcpu.OpMUL:
		prod := uint32(b.value) * uint32(a.value)
		b.set(uint16(prod))
		c.Regs.Set(dcpu.EX, uint16(prod>>16))
	case dcpu.OpMLI:
		prod := int32(int16(b.value)) * int32(int16(a.value))
		b.set(uint16(prod))
		c.Regs.Set(dcpu.EX, uint16(uint32(prod)>>16))
	case dcpu.OpDIV:
		if a.value == 0 {
			b.set(0)
			c.Regs.Set(dcpu.EX, 0)
		} else {
			b.set(b.value / a.value)
			c.Regs.Set(dcpu.EX, uint16((uint32(b.value)<<16)/uint32(a.value)))
		}
	case dcpu.OpDVI:
		sa, sb := int16(a.value), int16(b.value)
		if sa == 0 {
			b.set(0)
			c.Regs.Set(dcpu.EX, 0)
		} else {
			b.set(uint16(sb / sa))
			c.Regs.Set(dcpu.EX, uint16((int32(sb)<<16)/int32(sa)))
		}
	case dcpu.OpMOD:
		if a.value == 0 {
			b.set(0)
		} else {
			b.set(b.value % a.value)
		}
	case dcpu.OpMDI:
		sa, sb := int16(a.value), int16(b.value)
		if sa == 0 {
			b.set(0)
		} else {
			b.set(uint16(sb % sa))
		}
	case dcpu.OpAND:
		b.set(b.value & a.value)
	case dcpu.OpBOR:
		b.set(b.value | a.value)
	case dcpu.OpXOR:
		b.set(b.value ^ a.value)
	case dcpu.OpSHR:
		b.set(b.value >> a.value)
		c.Regs.Set(dcpu.EX, uint16((uint32(b.value)<<16)>>a.value))
	case dcpu.OpASR:
		shifted := int32(int16(b.value)) >> a.value
		b.set(uint16(shifted))
		c.Regs.Set(dcpu.EX, uint16((uint32(b.value)<<16)>>a.value))
	case dcpu.OpSHL:
		wide := uint32(b.value) << a.value
		b.set(uint16(wide))
		c.Regs.Set(dcpu.EX, uint16(wide>>16))
	case dcpu.OpIFB:
		if b.value&a.value == 0 {
			c.skipChain()
		}
	case dcpu.OpIFC:
		if b.value&a.value != 0 {
			c.skipChain()
		}
	case dcpu.OpIFE:
		if b.value != a.value {
			c.skipChain()
		}
	case dcpu.OpIFN:
		if b.value == a.value {
			c.skipChain()
		}
	case dcpu.OpIFG:
		if b.value <= a.value {
			c.skipChain()
		}
	case dcpu.OpIFA:
		if int16(b.value) <= int16(a.value) {
			c.skipChain()
		}
	case dcpu.OpIFL:
		if b.value >= a.value {
			c.skipChain()
		}
	case dcpu.OpIFU:
		if int16(b.value) >= int16(a.value) {
			c.skipChain()
		}
	case dcpu.OpADX:
		sum := uint32(b.value) + uint32(a.value) + uint32(c.Regs.Get(dcpu.EX))
		b.set(uint16(sum))
		c.setEX(sum > 0xffff, 0x0001)
	case dcpu.OpSBX:
		diff := int64(b.value) - int64(a.value) + int64(int16(c.Regs.Get(dcpu.EX)))
		b.set(uint16(diff))
		switch {
		case diff < 0:
			c.Regs.Set(dcpu.EX, 0xffff)
		case diff > 0xffff:
			c.Regs.Set(dcpu.EX, 0x0001)
		default:
			c.Regs.Set(dcpu.EX, 0)
		}
	case dcpu.OpSTI:
		b.set(a.value)
		c.Regs.Set(dcpu.I, c.Regs.Get(dcpu.I)+1)
		c.Regs.Set(dcpu.J, c.Regs.Get(dcpu.J)+1)
	case dcpu.OpSDI:
		b.set(a.value)
		c.Regs.Set(dcpu.I, c.Regs.Get(dcpu.I)-1)
		c.Regs.Set(dcpu.J, c.Regs.Get(dcpu.J)-1)
	}
	return nil
}

// execSpecial dispatches a single-operand instruction.
func (c *CPU) execSpecial(ins dcpu.Instruction) error {
	a := c.resolveOperand(ins.A, false)

	switch ins.Opcode {
	case dcpu.OpJSR:
		c.push(c.Regs.Get(dcpu.PC))
		c.Regs.Set(dcpu.PC, a.value)
	case dcpu.OpBRK:
		c.BreakHit = true
	case dcpu.OpINT:
		ia := c.Regs.Get(dcpu.IA)
		if ia != 0 {
			c.push(c.Regs.Get(dcpu.PC))
			c.push(c.Regs.Get(dcpu.A))
			c.Regs.Set(dcpu.A, a.value)
			c.Regs.Set(dcpu.PC, ia)
			c.queueingIRQ = true
		}
	case dcpu.OpIAG:
		a.set(c.Regs.Get(dcpu.IA))
	case dcpu.OpIAS:
		c.Regs.Set(dcpu.IA, a.value)
	case dcpu.OpRFI:
		c.Regs.Set(dcpu.A, c.pop())
		c.Regs.Set(dcpu.PC, c.pop())
		c.queueingIRQ = false
	case dcpu.OpIAQ:
		c.queueingIRQ = a.value != 0
	case dcpu.OpHWN:
		a.set(uint16(len(c.Devices)))
	case dcpu.OpHWQ:
		c.hwq(int(a.value))
	case dcpu.OpHWI:
		c.hwi(int(a.value))
	}
	return nil
}

func (c *CPU) hwq(index int) {
	if index < 0 || index >= len(c.Devices) {
		c.Regs.Set(dcpu.A, 0)
		c.Regs.Set(dcpu.B, 0)
		c.Regs.Set(dcpu.C, 0)
		c.Regs.Set(dcpu.X, 0)
		c.Regs.Set(dcpu.Y, 0)
		return
	}
	d := c.Devices[index]
	id := d.ID()
	vendor := d.Manufacturer()
	c.Regs.Set(dcpu.A, uint16(id))
	c.Regs.Set(dcpu.B, uint16(id>>16))
	c.Regs.Set(dcpu.C, d.Version())
	c.Regs.Set(dcpu.X, uint16(vendor))
	c.Regs.Set(dcpu.Y, uint16(vendor>>16))
}

func (c *CPU) hwi(index int) {
	if index < 0 || index >= len(c.Devices) {
		return
	}
	c.Devices[index].HandleInterrupt(c)
}

// skipChain implements the IF*-chaining skip rule: decode and skip the
// next instruction; if that instruction is itself a basic conditional
// (IFB..IFU), its condition is never evaluated, but the chain keeps
// skipping through it too.
func (c *CPU) skipChain() {
	for {
		pc := c.Regs.Get(dcpu.PC)
		ins, next, err := decoder.Decode(&c.RAM, pc, decoder.ModeExecution)
		if err != nil {
			c.Regs.Set(dcpu.PC, pc+1)
			return
		}
		c.Regs.Set(dcpu.PC, next)
		if !isConditional(ins) {
			return
		}
	}
}

func isConditional(ins dcpu.Instruction) bool {
	return ins.Form == dcpu.FormBasic && ins.Opcode >= dcpu.OpIFB && ins.Opcode <= dcpu.OpIFU
}

func (c *CPU) setEX(cond bool, value uint16) {
	if cond {
		c.Regs.Set(dcpu.EX, value)
	} else {
		c.Regs.Set(dcpu.EX, 0)
	}
}
