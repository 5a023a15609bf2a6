package assembler

import (
	"testing"

	"github.com/brickbtv/CodeSpace-DevKit/internal/decoder"
)

func assemble(t *testing.T, src MapSource, entry string) []uint16 {
	t.Helper()
	program, err := New(src).Assemble(entry)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return program
}

func TestAssembleSetRegisterLiteral(t *testing.T) {
	src := MapSource{"main.dcpu16": {"SET A, 5"}}
	program := assemble(t, src, "main.dcpu16")
	if len(program) != 1 {
		t.Fatalf("expected 1 word, got %d: %v", len(program), program)
	}
	ins, _, err := decoder.Decode(decoder.Slice(program), 0, decoder.ModeExecution)
	if err != nil {
		t.Fatalf("decode roundtrip: %v", err)
	}
	if ins.Mnemonic != "SET" || ins.A.Code != 0x26 {
		t.Fatalf("unexpected roundtrip decode: %+v", ins)
	}
}

func TestAssembleLabelForwardReference(t *testing.T) {
	src := MapSource{"main.dcpu16": {
		"SET PC, start",
		":start",
		"SET A, 1",
	}}
	program := assemble(t, src, "main.dcpu16")
	// word0 opcode, word1 label next-word (=2, the address of :start), then SET A,1
	if len(program) != 3 {
		t.Fatalf("expected 3 words, got %d: %v", len(program), program)
	}
	if program[1] != 2 {
		t.Fatalf("expected label address 2, got %d", program[1])
	}
}

func TestAssembleInclude(t *testing.T) {
	src := MapSource{
		"main.dcpu16": {
			`.include "lib.dcpu16"`,
			"SET A, 1",
		},
		"lib.dcpu16": {
			"SET B, 2",
		},
	}
	program := assemble(t, src, "main.dcpu16")
	if len(program) != 2 {
		t.Fatalf("expected 2 words (one per SET), got %d: %v", len(program), program)
	}
}

func TestAssembleDATStringAndNumbers(t *testing.T) {
	src := MapSource{"main.dcpu16": {`DAT "hi", 0x2a`}}
	program := assemble(t, src, "main.dcpu16")
	want := []uint16{'h', 'i', 0x2a}
	if len(program) != len(want) {
		t.Fatalf("expected %v, got %v", want, program)
	}
	for i := range want {
		if program[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, program)
		}
	}
}

func TestAssembleUnknownMnemonicFails(t *testing.T) {
	src := MapSource{"main.dcpu16": {"ZZZ A, B"}}
	_, err := New(src).Assemble("main.dcpu16")
	if err == nil {
		t.Fatalf("expected error for unknown mnemonic")
	}
	if _, ok := err.(*AssembleError); !ok {
		t.Fatalf("expected *AssembleError, got %T", err)
	}
}

func TestAssembleNextWordOrderingMatchesDecoder(t *testing.T) {
	src := MapSource{"main.dcpu16": {"SET [0x1000], [0x2000]"}}
	program := assemble(t, src, "main.dcpu16")
	if len(program) != 3 {
		t.Fatalf("expected 3 words, got %d: %v", len(program), program)
	}
	// a's next-word (source, [0x2000]) must precede b's (dest, [0x1000]).
	if program[1] != 0x2000 || program[2] != 0x1000 {
		t.Fatalf("expected a-then-b ordering, got %v", program)
	}
}
