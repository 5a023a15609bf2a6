package hardware

import (
	"testing"

	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
)

// fakeHost is a minimal in-memory Host for exercising devices in isolation.
type fakeHost struct {
	regs    dcpu.Registers
	mem     map[uint16]uint16
	queued  []uint16
}

func newFakeHost() *fakeHost {
	return &fakeHost{mem: map[uint16]uint16{}}
}

func (f *fakeHost) Reg(r dcpu.Reg) uint16         { return f.regs.Get(r) }
func (f *fakeHost) SetReg(r dcpu.Reg, v uint16)   { f.regs.Set(r, v) }
func (f *fakeHost) ReadMem(addr uint16) uint16    { return f.mem[addr] }
func (f *fakeHost) WriteMem(addr uint16, v uint16) { f.mem[addr] = v }
func (f *fakeHost) QueueInterrupt(msg uint16)     { f.queued = append(f.queued, msg) }

func TestThrusterSetsPowerFromLowByteOfB(t *testing.T) {
	th := NewThruster()
	h := newFakeHost()
	h.SetReg(dcpu.A, 0)
	h.SetReg(dcpu.B, 0x1234)
	th.HandleInterrupt(h)
	if th.Power != 0x34 {
		t.Fatalf("expected power 0x34, got 0x%02x", th.Power)
	}
}

func TestKeyboardBufferIsFIFO(t *testing.T) {
	kb := NewKeyboard()
	h := newFakeHost()
	kb.HandleKeyEvent(h, 'a', true)
	kb.HandleKeyEvent(h, 'b', true)

	h.SetReg(dcpu.A, 1)
	kb.HandleInterrupt(h)
	if h.Reg(dcpu.C) != 'a' {
		t.Fatalf("expected 'a' first out, got %q", h.Reg(dcpu.C))
	}
	kb.HandleInterrupt(h)
	if h.Reg(dcpu.C) != 'b' {
		t.Fatalf("expected 'b' second out, got %q", h.Reg(dcpu.C))
	}
}

func TestKeyboardQueuesInterruptWhenArmed(t *testing.T) {
	kb := NewKeyboard()
	h := newFakeHost()
	h.SetReg(dcpu.A, 3)
	h.SetReg(dcpu.B, 0x40)
	kb.HandleInterrupt(h)

	kb.HandleKeyEvent(h, 'x', true)
	if len(h.queued) != 1 || h.queued[0] != 0x40 {
		t.Fatalf("expected one queued interrupt with message 0x40, got %v", h.queued)
	}
}

func TestSensorPopsContactsLIFO(t *testing.T) {
	s := NewSensor()
	h := newFakeHost()
	s.UpdateSensor([]Contact{
		{Type: 1, Angle: 10, Range: 100, Size: 5},
		{Type: 2, Angle: 20, Range: 200, Size: 6},
	})
	h.SetReg(dcpu.A, 1)
	s.HandleInterrupt(h)

	h.SetReg(dcpu.A, 0)
	s.HandleInterrupt(h)
	if h.Reg(dcpu.B) != 2 {
		t.Fatalf("expected last-appended contact (type 2) to pop first, got type %d", h.Reg(dcpu.B))
	}
	s.HandleInterrupt(h)
	if h.Reg(dcpu.B) != 1 {
		t.Fatalf("expected first-appended contact (type 1) to pop second, got type %d", h.Reg(dcpu.B))
	}
}

func TestSensorEmptyContactsZeroesRegisters(t *testing.T) {
	s := NewSensor()
	h := newFakeHost()
	h.SetReg(dcpu.A, 0)
	s.HandleInterrupt(h)
	if h.Reg(dcpu.B) != 0 || h.Reg(dcpu.X) != 0 || h.Reg(dcpu.Y) != 0 || h.Reg(dcpu.Z) != 0 {
		t.Fatalf("expected all-zero registers on empty scan, got B=%d X=%d Y=%d Z=%d",
			h.Reg(dcpu.B), h.Reg(dcpu.X), h.Reg(dcpu.Y), h.Reg(dcpu.Z))
	}
}

func TestDoorBoundsCheckRejectsOutOfRangeIndex(t *testing.T) {
	d := NewDoor()
	h := newFakeHost()
	h.SetReg(dcpu.A, 0)
	h.SetReg(dcpu.I, 3) // only 0,1,2 are valid (doorCount == 3)
	d.HandleInterrupt(h)
	if h.Reg(dcpu.B) != 0 {
		t.Fatalf("expected 0 for out-of-range door, got %d", h.Reg(dcpu.B))
	}
}

func TestDoorChangeStateRaisesInterruptWhenArmed(t *testing.T) {
	d := NewDoor()
	h := newFakeHost()
	h.SetReg(dcpu.A, 2)
	h.SetReg(dcpu.B, 0x50)
	d.HandleInterrupt(h)

	d.ChangeState(h, 0, DoorStateOpened)
	if len(h.queued) != 1 || h.queued[0] != 0x50 {
		t.Fatalf("expected queued interrupt 0x50, got %v", h.queued)
	}
}

func TestAntennaChannelCombinesBAndCWithOr(t *testing.T) {
	a := NewAntenna()
	h := newFakeHost()
	h.SetReg(dcpu.A, 1)
	h.SetReg(dcpu.B, 0x0001)
	h.SetReg(dcpu.C, 0xbeef)
	a.HandleInterrupt(h)

	h.SetReg(dcpu.A, 2)
	a.HandleInterrupt(h)
	if h.Reg(dcpu.B) != 0x0001 || h.Reg(dcpu.C) != 0xbeef {
		t.Fatalf("expected channel roundtrip B=1 C=0xbeef, got B=%d C=0x%04x", h.Reg(dcpu.B), h.Reg(dcpu.C))
	}
}

func TestAntennaSendCapturesWordsFromMemory(t *testing.T) {
	a := NewAntenna()
	h := newFakeHost()
	h.WriteMem(0x100, 11)
	h.WriteMem(0x101, 22)
	h.SetReg(dcpu.A, 3)
	h.SetReg(dcpu.B, 0x100)
	h.SetReg(dcpu.I, 2)
	a.HandleInterrupt(h)

	got := a.SendBuffer()
	if len(got) != 2 || got[0] != 11 || got[1] != 22 {
		t.Fatalf("expected [11 22], got %v", got)
	}
}

func TestNewDefaultBusCanonicalOrder(t *testing.T) {
	bus := NewDefaultBus()
	for i := 0; i < 8; i++ {
		if _, ok := bus[i].(*Thruster); !ok {
			t.Fatalf("expected thruster at slot %d, got %T", i, bus[i])
		}
	}
	if _, ok := bus[9].(*Display); !ok {
		t.Fatalf("expected display at slot 9, got %T", bus[9])
	}
	if _, ok := bus[10].(*Keyboard); !ok {
		t.Fatalf("expected keyboard at slot 10, got %T", bus[10])
	}
}
