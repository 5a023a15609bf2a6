package decoder

import (
	"testing"

	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
)

func encodeBasic(op, b, a uint16) uint16 {
	return op | (b << 5) | (a << 10)
}

func encodeSpecial(op, a uint16) uint16 {
	return 0 | (op << 5) | (a << 10)
}

func TestDecodeSetRegisterToLiteral(t *testing.T) {
	// SET A, 5 -> inline literal 5 is operand code 0x21+5 = 0x26
	word := encodeBasic(dcpu.OpSET, 0x00, 0x26)
	src := Slice{word}
	ins, next, err := Decode(src, 0, ModeExecution)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ins.Mnemonic != "SET" || ins.B.Code != 0x00 || ins.A.Code != 0x26 {
		t.Fatalf("unexpected decode: %+v", ins)
	}
	if next != 1 {
		t.Fatalf("expected next=1, got %d", next)
	}
	if ins.A.HasNext {
		t.Fatalf("inline literal must not consume a next-word")
	}
}

func TestDecodeNextWordOrderingAThenB(t *testing.T) {
	// SET [0x1000], [0x2000] — both B and A need next-words.
	word := encodeBasic(dcpu.OpSET, 0x1e, 0x1e)
	src := Slice{word, 0x2000, 0x1000}
	ins, next, err := Decode(src, 0, ModeExecution)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ins.A.NextWord != 0x2000 {
		t.Fatalf("expected A's next-word to be read first (addr 1), got 0x%04x", ins.A.NextWord)
	}
	if ins.B.NextWord != 0x1000 {
		t.Fatalf("expected B's next-word to be read second (addr 2), got 0x%04x", ins.B.NextWord)
	}
	if next != 3 {
		t.Fatalf("expected next=3, got %d", next)
	}
}

func TestDecodeSpecialJSR(t *testing.T) {
	word := encodeSpecial(dcpu.OpJSR, 0x00)
	src := Slice{word}
	ins, _, err := Decode(src, 0, ModeExecution)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ins.Form != dcpu.FormSpecial || ins.Mnemonic != "JSR" {
		t.Fatalf("unexpected decode: %+v", ins)
	}
}

func TestDecodeReservedSpecialIsErrorInExecutionMode(t *testing.T) {
	word := encodeSpecial(0x00, 0x00) // special opcode 0 is reserved
	src := Slice{word}
	_, _, err := Decode(src, 0, ModeExecution)
	if err == nil {
		t.Fatalf("expected decode error for reserved special opcode 0")
	}
}

func TestDecodeReservedBecomesDataInDisassemblyMode(t *testing.T) {
	word := encodeSpecial(0x00, 0x00)
	src := Slice{word}
	ins, next, err := Decode(src, 0, ModeDisassembly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ins.Form != dcpu.FormData {
		t.Fatalf("expected FormData, got %+v", ins)
	}
	if next != 1 {
		t.Fatalf("expected next=1, got %d", next)
	}
}

func TestRenderBasicInstruction(t *testing.T) {
	word := encodeBasic(dcpu.OpSET, 0x00, 0x26)
	ins, _, _ := Decode(Slice{word}, 0, ModeExecution)
	got := Render(ins)
	want := "SET A, 0x05"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestWalkerAdvancesPastMultiWordInstructions(t *testing.T) {
	words := []uint16{
		encodeBasic(dcpu.OpSET, 0x1e, 0x1e), 0x2000, 0x1000,
		encodeSpecial(dcpu.OpJSR, 0x00),
	}
	w := NewWalker(Slice(words), 0, ModeExecution)
	addr1, ins1, err := w.Next()
	if err != nil || addr1 != 0 || ins1.Mnemonic != "SET" {
		t.Fatalf("first step: addr=%d ins=%+v err=%v", addr1, ins1, err)
	}
	addr2, ins2, err := w.Next()
	if err != nil || addr2 != 3 || ins2.Mnemonic != "JSR" {
		t.Fatalf("second step: addr=%d ins=%+v err=%v", addr2, ins2, err)
	}
}
