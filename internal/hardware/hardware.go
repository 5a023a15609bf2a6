// Package hardware implements the memory-mapped peripherals reachable from
// the DCPU-16 HWN/HWQ/HWI protocol, grounded on
// original_source/devkit/hardware/*.py.
package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Host is the slice of CPU surface a device needs to service an interrupt:
// reading the registers the calling convention hands it arguments in,
// writing results back, touching RAM directly for buffer transfers, and
// queuing a follow-up hardware interrupt when the device's own IRQ is
// enabled. cpu.CPU implements this; defining it here (instead of importing
// cpu) keeps hardware free of a cycle back to the package that holds the
// device list.
type Host interface {
	Reg(r dcpu.Reg) uint16
	SetReg(r dcpu.Reg, v uint16)
	ReadMem(addr uint16) uint16
	WriteMem(addr uint16, v uint16)
	QueueInterrupt(message uint16)
}

// Device is one peripheral on the hardware bus.
type Device interface {
	ID() uint32
	Version() uint16
	Manufacturer() uint32
	HandleInterrupt(h Host)
}

// base carries the three HWQ-reported identifiers every device shares.
type base struct {
	id      uint32
	version uint16
	vendor  uint32
}

func (b base) ID() uint32           { return b.id }
func (b base) Version() uint16      { return b.version }
func (b base) Manufacturer() uint32 { return b.vendor }
