package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Contact is one detected object from a sensor scan (sensor.py's dict
// shape: type/angle/range/size).
type Contact struct {
	Type  uint16
	Angle uint16
	Range uint16
	Size  uint16
}

// Sensor is grounded on original_source/devkit/hardware/sensor.py.
// Deliberately LIFO: handle_interruption pops via contacts.pop(), the
// Python list's last-appended-first operation, not a FIFO dequeue — kept
// literally rather than "fixed", since nothing in the spec calls it a bug
// (see DESIGN.md).
type Sensor struct {
	base
	contacts []Contact
	scanned  []Contact
}

// NewSensor builds the 2000m/120-degree-arc sensor described in sensor.py.
func NewSensor() *Sensor {
	return &Sensor{base: base{id: 0x1F12E306, version: 0x0001, vendor: 0x54482B2B}}
}

func (s *Sensor) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 1:
		s.contacts = append([]Contact(nil), s.scanned...)
	case 0:
		if len(s.contacts) == 0 {
			h.SetReg(dcpu.B, 0)
			h.SetReg(dcpu.X, 0)
			h.SetReg(dcpu.Y, 0)
			h.SetReg(dcpu.Z, 0)
			return
		}
		last := len(s.contacts) - 1
		c := s.contacts[last]
		s.contacts = s.contacts[:last]
		h.SetReg(dcpu.B, c.Type)
		h.SetReg(dcpu.X, c.Angle)
		h.SetReg(dcpu.Y, c.Range)
		h.SetReg(dcpu.Z, c.Size)
	}
}

// UpdateSensor replaces the scan data a subsequent A=1 scan will snapshot
// (mirrors update_sensor).
func (s *Sensor) UpdateSensor(contacts []Contact) {
	s.scanned = contacts
}
