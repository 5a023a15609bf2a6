// Package cpu implements the DCPU-16 execution core: register file, RAM,
// hardware bus, and the cycle-serial Step loop, grounded on the teacher's
// Clock()/Disassemble() shape (go/mgnes/mg6502.go) and
// original_source/devkit/emulator.py's gen_instructions loop.
package cpu

import (
	"fmt"

	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
	"github.com/brickbtv/CodeSpace-DevKit/internal/decoder"
	"github.com/brickbtv/CodeSpace-DevKit/internal/hardware"
)

// maxInterruptQueue is the standard DCPU-16 "catches fire" threshold.
const maxInterruptQueue = 256

// CPU is the emulator core: registers, RAM, an ordered hardware bus, and
// the pending-interrupt queue.
type CPU struct {
	Regs    dcpu.Registers
	RAM     dcpu.RAM
	Devices []hardware.Device

	queue       []uint16
	queueingIRQ bool

	// BreakHit is set by BRK and cleared at the start of the next Step,
	// letting a host driver single-step up to a breakpoint and stop.
	BreakHit bool
}

// New builds a CPU with the given device list attached to its bus.
func New(devices []hardware.Device) *CPU {
	return &CPU{Devices: devices}
}

// Reset zeroes registers, RAM and pending interrupts but keeps the
// attached device list.
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.RAM.Reset()
	c.queue = nil
	c.queueingIRQ = false
	c.BreakHit = false
}

// LoadProgram copies program into RAM starting at address 0.
func (c *CPU) LoadProgram(program []uint16) {
	c.RAM.Load(0, program)
}

// hardware.Host implementation --------------------------------------------

func (c *CPU) Reg(r dcpu.Reg) uint16        { return c.Regs.Get(r) }
func (c *CPU) SetReg(r dcpu.Reg, v uint16)  { c.Regs.Set(r, v) }
func (c *CPU) ReadMem(addr uint16) uint16   { return c.RAM.Read(addr) }
func (c *CPU) WriteMem(addr uint16, v uint16) { c.RAM.Write(addr, v) }

// QueueInterrupt enqueues a hardware-originated interrupt message, raised
// from a device's own adapter method (keypress, sensor update, ...).
func (c *CPU) QueueInterrupt(message uint16) {
	c.queue = append(c.queue, message)
}

// GetDeviceByType returns the first attached device whose dynamic type
// matches T, and whether one was found.
func GetDeviceByType[T hardware.Device](c *CPU) (T, bool) {
	var zero T
	for _, d := range c.Devices {
		if t, ok := d.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// GetAllByType returns every attached device whose dynamic type matches T.
func GetAllByType[T hardware.Device](c *CPU) []T {
	var out []T
	for _, d := range c.Devices {
		if t, ok := d.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Step performs one logical step. If a queued interrupt is dispatched, that
// is all the step does: it returns the handler address (IA) with breakHit
// false. Otherwise it executes exactly one instruction: fetch, decode,
// operand resolution (a's side effects before b's), dispatch, and
// (implicitly, via operand writes) PC advancement, returning the PC the
// fetched instruction started at and whether that instruction was BRK, so
// a host driver can implement breakpoint-stepping without inspecting CPU
// internals.
func (c *CPU) Step() (pc uint16, breakHit bool, err error) {
	c.BreakHit = false

	dispatched, err := c.dispatchPendingInterrupt()
	if err != nil {
		return 0, false, err
	}
	if dispatched {
		return c.Regs.Get(dcpu.PC), false, nil
	}

	pc = c.Regs.Get(dcpu.PC)
	ins, next, decErr := decoder.Decode(&c.RAM, pc, decoder.ModeExecution)
	if decErr != nil {
		de := decErr.(*decoder.DecodeError)
		return pc, false, &Fault{Kind: FaultDecode, Addr: de.Addr, Word: de.Word}
	}
	c.Regs.Set(dcpu.PC, next)

	if logEnabled {
		logger.Log(fmt.Sprintf("0x%04x: %s", pc, summarize(ins)))
	}

	switch ins.Form {
	case dcpu.FormSpecial:
		err = c.execSpecial(ins)
	default:
		err = c.execBasic(ins)
	}
	return pc, c.BreakHit, err
}

func summarize(ins dcpu.Instruction) string {
	return ins.Mnemonic
}

// dispatchPendingInterrupt pops one queued interrupt and, if the CPU isn't
// currently holding interrupts back (IAQ) and IA is set, dispatches it:
// push PC, push A, A=message, PC=IA, start queueing until RFI. It reports
// whether a dispatch happened, consuming this Step call on its own rather
// than also fetching an instruction in the same step.
func (c *CPU) dispatchPendingInterrupt() (bool, error) {
	if len(c.queue) == 0 || c.queueingIRQ {
		return false, nil
	}
	if len(c.queue) > maxInterruptQueue {
		return false, &Fault{Kind: FaultInterruptOverflow}
	}

	message := c.queue[0]
	c.queue = c.queue[1:]

	ia := c.Regs.Get(dcpu.IA)
	if ia == 0 {
		return false, nil
	}

	c.queueingIRQ = true
	c.push(c.Regs.Get(dcpu.PC))
	c.push(c.Regs.Get(dcpu.A))
	c.Regs.Set(dcpu.A, message)
	c.Regs.Set(dcpu.PC, ia)
	return true, nil
}

func (c *CPU) push(v uint16) {
	sp := c.Regs.Get(dcpu.SP) - 1
	c.Regs.Set(dcpu.SP, sp)
	c.RAM.Write(sp, v)
}

func (c *CPU) pop() uint16 {
	sp := c.Regs.Get(dcpu.SP)
	v := c.RAM.Read(sp)
	c.Regs.Set(dcpu.SP, sp+1)
	return v
}
