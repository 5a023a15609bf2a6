package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Antenna is grounded on original_source/devkit/hardware/anthenna.py: a
// 32-bit channel split across B (hi 16 bits) and C (lo 16 bits), a send
// buffer capped at 256 words per transmit, and a FIFO receive buffer of
// whole messages. The original combines channel halves with `&` instead of
// `|` (self.channel = (B << 16) & C), which can only ever produce 0 for any
// nonzero C — a transcription bug, corrected here to `|` (see DESIGN.md).
type Antenna struct {
	base
	channel    uint32
	sendBuffer []uint16
	recvBuffer [][]uint16
	irqEnabled bool
	irqMessage uint16
}

// NewAntenna builds an antenna device.
func NewAntenna() *Antenna {
	return &Antenna{base: base{id: 0x74CFC5A3, version: 0x0001, vendor: 0x54482b2b}}
}

func (a *Antenna) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		msg := h.Reg(dcpu.B)
		a.irqMessage = msg
		a.irqEnabled = msg != 0
	case 1:
		a.channel = uint32(h.Reg(dcpu.B))<<16 | uint32(h.Reg(dcpu.C))
	case 2:
		h.SetReg(dcpu.B, uint16(a.channel>>16))
		h.SetReg(dcpu.C, uint16(a.channel&0xffff))
	case 3:
		words := h.Reg(dcpu.I)
		if words > 256 {
			words = 256
		}
		base := h.Reg(dcpu.B)
		msg := make([]uint16, words)
		for i := uint16(0); i < words; i++ {
			msg[i] = h.ReadMem(base + i)
		}
		a.sendBuffer = msg
	case 4:
		if len(a.recvBuffer) == 0 {
			h.SetReg(dcpu.I, 0)
			h.SetReg(dcpu.X, 0)
			h.SetReg(dcpu.Y, 0)
			return
		}
		msg := a.recvBuffer[0]
		a.recvBuffer = a.recvBuffer[1:]
		h.SetReg(dcpu.I, uint16(len(msg)))
		h.SetReg(dcpu.X, 0x0001)
		h.SetReg(dcpu.Y, 0x0001)
		base := h.Reg(dcpu.B)
		for i, w := range msg {
			h.WriteMem(base+uint16(i), w)
		}
	case 5:
		a.recvBuffer = nil
	}
}

// ReceiveMessage queues an inbound message for a later A=4 read and fires
// the device's interrupt if armed (mirrors recv_message; the original takes
// no host/CPU reference, so it can't queue an interrupt itself — this
// build fixes that gap by taking a Host like every other queued device).
func (a *Antenna) ReceiveMessage(h Host, data []uint16) {
	a.recvBuffer = append(a.recvBuffer, data)
	if a.irqEnabled {
		h.QueueInterrupt(a.irqMessage)
	}
}

// SendBuffer returns the most recent outbound transmission, for a host
// driver or test to inspect what the guest program tried to send.
func (a *Antenna) SendBuffer() []uint16 { return a.sendBuffer }
