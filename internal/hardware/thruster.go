package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Thruster is grounded on original_source/devkit/hardware/thruster.py: a
// single sub-function sets the low 8 bits of B as the current thrust power.
type Thruster struct {
	base
	Power uint8
}

// NewThruster builds a thruster with the ID the original devkit hardware
// package uses (spec.md §9 flags an alternate 0x6a8d146a from elsewhere in
// the digest; this build follows the original source — see DESIGN.md).
func NewThruster() *Thruster {
	return &Thruster{base: base{id: 0xa4748683, version: 0x0001, vendor: 0x54482b2b}}
}

func (t *Thruster) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		t.Power = uint8(h.Reg(dcpu.B) & 0xff)
	}
}
