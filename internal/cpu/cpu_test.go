package cpu

import (
	"testing"

	"github.com/brickbtv/CodeSpace-DevKit/internal/assembler"
	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
	"github.com/brickbtv/CodeSpace-DevKit/internal/hardware"
)

func assembleProgram(t *testing.T, src string) []uint16 {
	t.Helper()
	lines := []string{}
	for _, l := range splitLines(src) {
		lines = append(lines, l)
	}
	program, err := assembler.New(assembler.MapSource{"main.dcpu16": lines}).Assemble("main.dcpu16")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return program
}

func splitLines(src string) []string {
	var out []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			out = append(out, src[start:i])
			start = i + 1
		}
	}
	if start < len(src) {
		out = append(out, src[start:])
	}
	return out
}

func newTestCPU(program []uint16) *CPU {
	c := New(hardware.NewDefaultBus())
	c.LoadProgram(program)
	return c
}

func runUntilBreak(t *testing.T, c *CPU, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		_, hit, err := c.Step()
		if err != nil {
			t.Fatalf("step error: %v", err)
		}
		if hit {
			return
		}
	}
	t.Fatalf("BRK not reached within %d steps", maxSteps)
}

func TestHelloWorldDisplayWrite(t *testing.T) {
	program := assembleProgram(t, "SET [0x8000], 0x9041\n")
	c := newTestCPU(program)
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := c.RAM.Read(0x8000); got != 0x9041 {
		t.Fatalf("expected 0x9041 at 0x8000, got 0x%04x", got)
	}
}

func TestSubroutineCallAndReturn(t *testing.T) {
	program := assembleProgram(t, "SET A, 1\nJSR twice\nBRK\n:twice\nSHL A, 1\nSET PC, POP\n")
	c := newTestCPU(program)
	runUntilBreak(t, c, 10)
	if c.Regs.Get(dcpu.A) != 2 {
		t.Fatalf("expected A=2 after doubling once, got %d", c.Regs.Get(dcpu.A))
	}
	if c.Regs.Get(dcpu.SP) != 0 {
		t.Fatalf("expected SP to return to 0, got 0x%04x", c.Regs.Get(dcpu.SP))
	}
}

// TestConditionalSkipNotTaken follows the instruction table's own
// semantics (IFE skips the next instruction when b != a) rather than
// spec.md's narrative walkthrough, which describes the opposite outcome
// for an equal comparison — see DESIGN.md.
func TestConditionalSkipNotTaken(t *testing.T) {
	program := assembleProgram(t, "SET A, 5\nIFE A, 5\nSET B, 1\nSET C, 1\nBRK\n")
	c := newTestCPU(program)
	runUntilBreak(t, c, 10)
	if c.Regs.Get(dcpu.A) != 5 || c.Regs.Get(dcpu.B) != 1 || c.Regs.Get(dcpu.C) != 1 {
		t.Fatalf("expected A=5 B=1 C=1, got A=%d B=%d C=%d",
			c.Regs.Get(dcpu.A), c.Regs.Get(dcpu.B), c.Regs.Get(dcpu.C))
	}
}

func TestConditionalSkipTaken(t *testing.T) {
	program := assembleProgram(t, "SET A, 5\nIFE A, 6\nSET B, 1\nSET C, 1\nBRK\n")
	c := newTestCPU(program)
	runUntilBreak(t, c, 10)
	if c.Regs.Get(dcpu.B) != 0 || c.Regs.Get(dcpu.C) != 1 {
		t.Fatalf("expected B skipped (0) and C=1, got B=%d C=%d", c.Regs.Get(dcpu.B), c.Regs.Get(dcpu.C))
	}
}

func TestConditionalSkipChainsThroughConsecutiveIf(t *testing.T) {
	// A(5) != 6 -> IFE is false, so its condition is never evaluated and
	// the chain blindly skips the following IFN too; only SET Y,1 runs.
	program := assembleProgram(t, "SET A, 5\nIFE A, 6\nIFN A, 5\nSET X, 9\nSET Y, 1\nBRK\n")
	c := newTestCPU(program)
	runUntilBreak(t, c, 10)
	if c.Regs.Get(dcpu.X) != 0 {
		t.Fatalf("expected X skipped via chain, got %d", c.Regs.Get(dcpu.X))
	}
	if c.Regs.Get(dcpu.Y) != 1 {
		t.Fatalf("expected Y=1 after chain ends, got %d", c.Regs.Get(dcpu.Y))
	}
}

func TestArithmeticOverflowSequence(t *testing.T) {
	program := assembleProgram(t, "SET A, 0xffff\nADD A, 1\nADX A, 0\n")
	c := newTestCPU(program)
	for i := 0; i < 3; i++ {
		if _, _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.Regs.Get(dcpu.A) != 1 {
		t.Fatalf("expected A=1, got %d", c.Regs.Get(dcpu.A))
	}
	if c.Regs.Get(dcpu.EX) != 0 {
		t.Fatalf("expected EX=0 (carry consumed by ADX), got 0x%04x", c.Regs.Get(dcpu.EX))
	}
}

func TestSubUnderflowWraps(t *testing.T) {
	program := assembleProgram(t, "SET A, 0\nSUB A, 1\n")
	c := newTestCPU(program)
	c.Step()
	c.Step()
	if c.Regs.Get(dcpu.A) != 0xffff {
		t.Fatalf("expected A=0xffff, got 0x%04x", c.Regs.Get(dcpu.A))
	}
	if c.Regs.Get(dcpu.EX) != 0xffff {
		t.Fatalf("expected EX=0xffff, got 0x%04x", c.Regs.Get(dcpu.EX))
	}
}

func TestDivByZeroLeavesZeroNoTrap(t *testing.T) {
	program := assembleProgram(t, "SET A, 10\nDIV A, 0\n")
	c := newTestCPU(program)
	c.Step()
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("DIV by zero should not trap: %v", err)
	}
	if c.Regs.Get(dcpu.A) != 0 {
		t.Fatalf("expected A=0, got %d", c.Regs.Get(dcpu.A))
	}
}

func TestIllegalStoreThroughLiteralIsSilentNoOp(t *testing.T) {
	// SET 5, A: destination b is a next-word literal (read-only).
	program := assembleProgram(t, "SET A, 7\nSET 5, A\nBRK\n")
	c := newTestCPU(program)
	runUntilBreak(t, c, 5)
	if c.Regs.Get(dcpu.A) != 7 {
		t.Fatalf("expected A unaffected at 7, got %d", c.Regs.Get(dcpu.A))
	}
}

func TestPushPopStackDiscipline(t *testing.T) {
	program := assembleProgram(t, "SET PUSH, 1\nSET PUSH, 2\nSET PUSH, 3\nSET A, POP\nSET B, POP\nSET C, POP\n")
	c := newTestCPU(program)
	for i := 0; i < 6; i++ {
		c.Step()
	}
	if c.Regs.Get(dcpu.A) != 3 || c.Regs.Get(dcpu.B) != 2 || c.Regs.Get(dcpu.C) != 1 {
		t.Fatalf("expected LIFO order A=3 B=2 C=1, got A=%d B=%d C=%d",
			c.Regs.Get(dcpu.A), c.Regs.Get(dcpu.B), c.Regs.Get(dcpu.C))
	}
	if c.Regs.Get(dcpu.SP) != 0 {
		t.Fatalf("expected SP back to 0, got 0x%04x", c.Regs.Get(dcpu.SP))
	}
}

func TestHWNReportsDeviceCount(t *testing.T) {
	program := assembleProgram(t, "HWN A\n")
	c := newTestCPU(program)
	c.Step()
	if int(c.Regs.Get(dcpu.A)) != len(c.Devices) {
		t.Fatalf("expected A=%d, got %d", len(c.Devices), c.Regs.Get(dcpu.A))
	}
}

func TestKeyboardInterruptDispatch(t *testing.T) {
	program := assembleProgram(t, "IAS 0x1000\nHWI 10\nBRK\n")
	c := newTestCPU(program)
	kb, ok := GetDeviceByType[*hardware.Keyboard](c)
	if !ok {
		t.Fatalf("expected a keyboard device on the default bus")
	}
	// Set IA, then arm the keyboard's own interrupt (HWI kbd, A=3, B=0x42)
	// by stepping IAS and HWI manually before the key event fires.
	c.Step() // IAS 0x1000
	c.Regs.Set(dcpu.A, 3)
	c.Regs.Set(dcpu.B, 0x42)
	c.hwi(indexOf(c.Devices, kb))

	kb.HandleKeyEvent(c, 'Z', true)

	beforePC := c.Regs.Get(dcpu.PC)
	beforeA := c.Regs.Get(dcpu.A)
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Regs.Get(dcpu.A) != 0x42 {
		t.Fatalf("expected A=0x42 in handler, got 0x%04x", c.Regs.Get(dcpu.A))
	}
	if c.Regs.Get(dcpu.PC) != 0x1000 {
		t.Fatalf("expected PC=0x1000, got 0x%04x", c.Regs.Get(dcpu.PC))
	}
	sp := c.Regs.Get(dcpu.SP)
	if c.RAM.Read(sp) != beforeA {
		t.Fatalf("expected previous A (%d) on stack top, got %d", beforeA, c.RAM.Read(sp))
	}
	if c.RAM.Read(sp+1) != beforePC {
		t.Fatalf("expected saved PC (0x%04x) below it, got 0x%04x", beforePC, c.RAM.Read(sp+1))
	}
}

func indexOf(devices []hardware.Device, target hardware.Device) int {
	for i, d := range devices {
		if d == target {
			return i
		}
	}
	return -1
}
