package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Clock is grounded on original_source/devkit/hardware/clock.py, adapted
// from wall-clock timing to an explicit tick counter: Tick is called once
// per logical 1/60s frame by the host driver instead of comparing
// time.time(), since this kit doesn't pace real time (spec.md's Non-goals
// exclude timer pacing beyond the device's own counting).
type Clock struct {
	base
	ticksPerInterrupt uint16
	ticksSinceStart   uint16
	irqEnabled        bool
	irqMessage        uint16
}

// NewClock builds a generic clock device.
func NewClock() *Clock {
	return &Clock{base: base{id: 0x12d0b402, version: 0x0001, vendor: 0x54482B2B}}
}

func (c *Clock) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		c.ticksPerInterrupt = h.Reg(dcpu.B)
		c.ticksSinceStart = 0
	case 1:
		h.SetReg(dcpu.C, c.ticksSinceStart)
	case 2:
		msg := h.Reg(dcpu.B)
		c.irqMessage = msg
		c.irqEnabled = msg != 0
	}
}

// Tick advances the clock by one logical frame and queues an interrupt
// when a full interval has elapsed.
func (c *Clock) Tick(h Host) {
	if c.ticksPerInterrupt == 0 {
		return
	}
	c.ticksSinceStart++
	if c.ticksSinceStart%c.ticksPerInterrupt == 0 && c.irqEnabled {
		h.QueueInterrupt(c.irqMessage)
	}
}
