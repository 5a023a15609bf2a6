package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Keyboard is grounded on original_source/devkit/hardware/keyboard.py: a
// FIFO buffer of typed keys plus a set of currently-held keys, with its own
// queued interrupt message.
type Keyboard struct {
	base
	buffer      []uint16
	pressed     map[uint16]bool
	irqEnabled  bool
	irqMessage  uint16
	pendingIRQs int
}

// NewKeyboard builds a generic-compatible keyboard device.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		base:    base{id: 0x30cf7406, version: 0x1, vendor: 0x0},
		pressed: map[uint16]bool{},
	}
}

func (k *Keyboard) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		k.buffer = nil
	case 1:
		if len(k.buffer) > 0 {
			h.SetReg(dcpu.C, k.buffer[0])
			k.buffer = k.buffer[1:]
		} else {
			h.SetReg(dcpu.C, 0)
		}
	case 2:
		if k.pressed[h.Reg(dcpu.B)] {
			h.SetReg(dcpu.C, 1)
		} else {
			h.SetReg(dcpu.C, 0)
		}
	case 3:
		b := h.Reg(dcpu.B)
		if b == 0 {
			k.irqEnabled = false
			k.irqMessage = 0
		} else {
			k.irqEnabled = true
			k.irqMessage = b
		}
	}
}

// HandleKeyEvent records a key press/release and queues an interrupt if the
// keyboard's own IRQ is armed (mirrors handle_key_event).
func (k *Keyboard) HandleKeyEvent(h Host, key uint16, pressed bool) {
	if pressed {
		k.buffer = append(k.buffer, key)
		k.pressed[key] = true
	} else {
		delete(k.pressed, key)
	}
	if k.irqEnabled {
		h.QueueInterrupt(k.irqMessage)
	}
}
