package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// ClampMode is the operating mode of one docking clamp.
type ClampMode uint8

const (
	ClampOff ClampMode = iota
	ClampPull
	ClampLock
)

// ClampState is the reported state of one docking clamp. The original
// source never defines anything beyond DEFAULT (a `# TODO: find out`
// left in docking_clamp.py); kept as a single value here too.
type ClampState uint8

const ClampStateDefault ClampState = 0

const clampCount = 4

// DockingClamp is grounded on original_source/devkit/hardware/docking_clamp.py.
// Two transcription bugs fixed (documented in DESIGN.md): the bounds check
// on sub-functions 0/1 used `clamp > 4` against a 4-element array (an
// off-by-one that let index 4 through), corrected to `clamp >= 4`; the
// status word combined mode and state with `&` instead of `|`, corrected.
type DockingClamp struct {
	base
	mode       [clampCount]ClampMode
	state      [clampCount]ClampState
	irqEnabled bool
	irqMessage uint16
}

// NewDockingClamp builds the four-clamp controller.
func NewDockingClamp() *DockingClamp {
	d := &DockingClamp{base: base{id: 0x7877A3DF, version: 0x0001, vendor: 0x54482b2b}}
	for i := range d.mode {
		d.mode[i] = ClampPull
	}
	return d
}

func (d *DockingClamp) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		i := h.Reg(dcpu.I)
		if int(i) >= clampCount {
			return
		}
		h.SetReg(dcpu.B, uint16(d.mode[i])<<8|uint16(d.state[i]))
	case 1:
		i := h.Reg(dcpu.I)
		if int(i) >= clampCount {
			return
		}
		d.mode[i] = ClampMode(h.Reg(dcpu.B))
	case 2:
		msg := h.Reg(dcpu.B)
		d.irqMessage = msg
		d.irqEnabled = msg != 0
	}
}

// ChangeState updates one clamp's reported state and raises the shared
// interrupt if armed (mirrors change_state).
func (d *DockingClamp) ChangeState(h Host, clamp int, state ClampState) {
	if clamp >= clampCount {
		return
	}
	d.state[clamp] = state
	if d.irqEnabled {
		h.QueueInterrupt(d.irqMessage)
	}
}

// ChangeMode sets a clamp's mode externally (mirrors change_mode).
func (d *DockingClamp) ChangeMode(clamp int, mode ClampMode) {
	if clamp >= clampCount {
		return
	}
	d.mode[clamp] = mode
}
