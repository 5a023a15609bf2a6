package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// DoorMode is the operation mode of a single door.
type DoorMode uint8

const (
	DoorClosed DoorMode = iota
	DoorProximityInside
	DoorProximity
	DoorOpen
)

// DoorState is the reported state of a single door.
type DoorState uint8

const (
	DoorStateDefault                  DoorState = 0
	DoorStateProximityDetectedInside  DoorState = 1
	DoorStateProximityDetected        DoorState = 2
	DoorStateOpened                   DoorState = 4
)

// doorCount is the original's AMOUNT = 3, not the 8 slots its doc comment
// claims.
const doorCount = 3

// Door is grounded on original_source/devkit/hardware/door.py: three doors,
// each with an independent mode/state pair, sharing one interrupt message.
type Door struct {
	base
	mode       [doorCount]DoorMode
	state      [doorCount]DoorState
	irqEnabled bool
	irqMessage uint16
}

// NewDoor builds the three-door controller.
func NewDoor() *Door {
	d := &Door{base: base{id: 0x387890c7, version: 0x0001, vendor: 0x54482b2b}}
	for i := range d.mode {
		d.mode[i] = DoorProximity
	}
	return d
}

func (d *Door) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		i := h.Reg(dcpu.I)
		if int(i) >= doorCount {
			h.SetReg(dcpu.B, 0)
			return
		}
		h.SetReg(dcpu.B, uint16(d.mode[i])<<8|uint16(d.state[i]))
	case 1:
		i := h.Reg(dcpu.I)
		if int(i) >= doorCount {
			return
		}
		d.mode[i] = DoorMode(h.Reg(dcpu.B))
	case 2:
		msg := h.Reg(dcpu.B)
		d.irqMessage = msg
		d.irqEnabled = msg != 0
	}
}

// ChangeState updates one door's reported state and raises the shared
// interrupt if armed (mirrors change_state).
func (d *Door) ChangeState(h Host, door int, state DoorState) {
	if door >= doorCount {
		return
	}
	d.state[door] = state
	if d.irqEnabled {
		h.QueueInterrupt(d.irqMessage)
	}
}

// ChangeMode sets a door's mode externally (mirrors change_mode).
func (d *Door) ChangeMode(door int, mode DoorMode) {
	if door >= doorCount {
		return
	}
	d.mode[door] = mode
}
