// Package decoder turns a stream of 16-bit words into dcpu.Instruction
// records, one word-group at a time, the way the teacher's disassembler
// walks a bus address range (go/mgnes/mg6502.go's Disassemble).
package decoder

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// Mode selects whether the decoder may fall back to the DAT heuristic.
type Mode int

const (
	// ModeExecution decodes strictly: a word that encodes neither a known
	// basic nor a known special opcode is a hard decode error.
	ModeExecution Mode = iota
	// ModeDisassembly additionally treats an unrecognized word as a single
	// raw DAT word, the way a disassembler must keep making forward
	// progress through a binary that embeds data tables.
	ModeDisassembly
)

// WordSource is anything addressable a word at a time; *dcpu.RAM and
// Slice both satisfy it.
type WordSource interface {
	Read(addr uint16) uint16
}

// Slice adapts a plain []uint16 (e.g. a freshly-loaded binary file) into a
// WordSource, wrapping out-of-range reads to 0 the way RAM wraps by index.
type Slice []uint16

func (s Slice) Read(addr uint16) uint16 {
	if int(addr) >= len(s) {
		return 0
	}
	return s[addr]
}

// DecodeError reports that a word could not be interpreted as a valid
// instruction under the active Mode.
type DecodeError struct {
	Addr uint16
	Word uint16
}

func (e *DecodeError) Error() string {
	return "decoder: invalid instruction word at address"
}

// Decode reads one instruction starting at pc and returns it along with the
// address of the next instruction. Operand next-words are fetched in the
// order a, then b (see SPEC_FULL.md §4.2/DESIGN.md).
func Decode(src WordSource, pc uint16, mode Mode) (dcpu.Instruction, uint16, error) {
	word := src.Read(pc)
	basicOp := word & 0x1f
	bCode := (word >> 5) & 0x1f
	aCode := (word >> 10) & 0x3f

	if basicOp != dcpu.OpSpecial {
		mnem, ok := dcpu.BasicMnemonic(basicOp)
		if !ok {
			return dataOrError(src, pc, word, mode)
		}
		next := pc + 1
		a, next := readOperand(src, next, aCode)
		b, next := readOperand(src, next, bCode)
		ins := dcpu.Instruction{
			Form:     dcpu.FormBasic,
			Opcode:   basicOp,
			Mnemonic: mnem,
			A:        a,
			B:        b,
			Raw:      word,
		}
		ins.Words = ins.WordCount()
		return ins, next, nil
	}

	specialOp := bCode
	mnem, ok := dcpu.SpecialMnemonic(specialOp)
	if !ok {
		return dataOrError(src, pc, word, mode)
	}
	next := pc + 1
	a, next := readOperand(src, next, aCode)
	ins := dcpu.Instruction{
		Form:     dcpu.FormSpecial,
		Opcode:   specialOp,
		Mnemonic: mnem,
		A:        a,
		Raw:      word,
	}
	ins.Words = ins.WordCount()
	return ins, next, nil
}

func dataOrError(src WordSource, pc uint16, word uint16, mode Mode) (dcpu.Instruction, uint16, error) {
	if mode == ModeDisassembly {
		return dcpu.Instruction{Form: dcpu.FormData, Raw: word, Words: 1}, pc + 1, nil
	}
	return dcpu.Instruction{}, pc, &DecodeError{Addr: pc, Word: word}
}

func readOperand(src WordSource, next uint16, code uint16) (dcpu.Operand, uint16) {
	op := dcpu.Operand{Code: code}
	if dcpu.NeedsNextWord(code) {
		op.NextWord = src.Read(next)
		op.HasNext = true
		next++
	}
	return op, next
}

// Walker yields successive instructions from a WordSource starting at a
// given address, the way the teacher's Disassemble loop walks the bus.
type Walker struct {
	src  WordSource
	pc   uint16
	mode Mode
}

// NewWalker creates a Walker positioned at start.
func NewWalker(src WordSource, start uint16, mode Mode) *Walker {
	return &Walker{src: src, pc: start, mode: mode}
}

// Next decodes the instruction at the walker's current position, advances
// past it, and returns (address-it-started-at, instruction, error).
func (w *Walker) Next() (uint16, dcpu.Instruction, error) {
	addr := w.pc
	ins, next, err := Decode(w.src, w.pc, w.mode)
	if err != nil {
		w.pc++
		return addr, ins, err
	}
	w.pc = next
	return addr, ins, nil
}

// Addr returns the walker's current position.
func (w *Walker) Addr() uint16 { return w.pc }
