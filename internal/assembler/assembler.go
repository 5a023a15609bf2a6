// Package assembler turns .dcpu16 source text into a flat word program,
// grounded on original_source/devkit/translator.py's two-walk design: one
// pass over the source (plus any .include files) to learn label addresses,
// a second pass to emit final words against that table.
package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
)

// maxIncludeDepth bounds recursive .include expansion (spec.md §9).
const maxIncludeDepth = 16

// AssembleError reports a source-level problem, carrying the file and line
// it was found on (mirrors TranslationError in translator.py).
type AssembleError struct {
	File    string
	Line    int
	Message string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// SourceReader loads named source files, so included files can be resolved
// relative to a workdir without the assembler touching the filesystem
// directly (tests supply an in-memory map).
type SourceReader interface {
	ReadSource(name string) ([]string, error)
}

var registerNames = map[string]dcpu.Reg{
	"A": dcpu.A, "B": dcpu.B, "C": dcpu.C, "X": dcpu.X, "Y": dcpu.Y, "Z": dcpu.Z,
	"I": dcpu.I, "J": dcpu.J, "SP": dcpu.SP, "PC": dcpu.PC, "EX": dcpu.EX,
}

// Assembler holds no state of its own; each Assemble call is independent.
type Assembler struct {
	src SourceReader
}

// New builds an Assembler that loads files through src.
func New(src SourceReader) *Assembler {
	return &Assembler{src: src}
}

// line is one parsed source line, expanded through .include.
type line struct {
	file    string
	lineNum int
	text    string
	cmd     string
	param1  string
	param2  string
	params  []string // set instead of param1/param2 when a DAT line lists more than two values
	isLabel bool
	label   string
}

// Assemble compiles entry and everything it .includes into a flat word
// program.
func (a *Assembler) Assemble(entry string) ([]uint16, error) {
	labels, err := a.extractLabels(entry, map[string]bool{}, 0)
	if err != nil {
		return nil, err
	}
	lines, err := a.genLines(entry, map[string]bool{}, 0)
	if err != nil {
		return nil, err
	}
	labelAddr, _, err := a.translate(lines, labels)
	if err != nil {
		return nil, err
	}
	_, program, err := a.translate(lines, labelAddr)
	if err != nil {
		return nil, err
	}
	return program, nil
}

// extractLabels walks entry (and its .include tree) once, recording every
// :label line's name with a placeholder address; real addresses are filled
// in by translate's own walk.
func (a *Assembler) extractLabels(filename string, visited map[string]bool, depth int) (map[string]int, error) {
	if depth > maxIncludeDepth {
		return nil, &AssembleError{File: filename, Line: 0, Message: "include depth exceeded"}
	}
	if visited[filename] {
		return map[string]int{}, nil
	}
	visited[filename] = true

	raw, err := a.src.ReadSource(filename)
	if err != nil {
		return nil, &AssembleError{File: filename, Line: 0, Message: err.Error()}
	}

	labels := map[string]int{}
	for _, text := range raw {
		t := strings.TrimSpace(text)
		if strings.HasPrefix(t, ":") {
			if idx := strings.IndexByte(t, ' '); idx != -1 {
				labels[t[1:idx]] = 0
			} else {
				labels[t[1:]] = 0
			}
		}
		if strings.HasPrefix(t, ".include ") {
			inc := includeTarget(t)
			sub, err := a.extractLabels(inc, visited, depth+1)
			if err != nil {
				return nil, err
			}
			for k, v := range sub {
				labels[k] = v
			}
		}
	}
	return labels, nil
}

func includeTarget(t string) string {
	rest := strings.TrimSpace(t[len(".include "):])
	if i := strings.IndexByte(rest, ';'); i != -1 {
		rest = strings.TrimSpace(rest[:i])
	}
	if len(rest) >= 2 {
		rest = rest[1 : len(rest)-1]
	}
	return rest
}

// genLines flattens filename and every .include'd file into one ordered
// slice of parsed lines, dropping comments and blank lines.
func (a *Assembler) genLines(filename string, visited map[string]bool, depth int) ([]line, error) {
	if depth > maxIncludeDepth {
		return nil, &AssembleError{File: filename, Line: 0, Message: "include depth exceeded"}
	}
	raw, err := a.src.ReadSource(filename)
	if err != nil {
		return nil, &AssembleError{File: filename, Line: 0, Message: err.Error()}
	}

	var out []line
	for i, text := range raw {
		t := strings.TrimSpace(text)
		if pos := strings.IndexByte(t, ';'); pos >= 0 {
			t = strings.TrimSpace(t[:pos])
		}
		if t == "" {
			continue
		}

		if strings.HasPrefix(t, ".include ") {
			inc := includeTarget(t)
			sub, err := a.genLines(inc, visited, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}

		if strings.HasPrefix(t, ":") {
			other := strings.IndexByte(t, ' ')
			if other == -1 {
				out = append(out, line{file: filename, lineNum: i, text: t, cmd: "__LABEL", label: t[1:], isLabel: true})
				continue
			}
			out = append(out, line{file: filename, lineNum: i, text: t, cmd: "__LABEL", label: t[1:other], isLabel: true})
			t = strings.TrimSpace(t[other:])
		}

		cmd, p1, p2, params := parseLine(t)
		out = append(out, line{file: filename, lineNum: i, text: t, cmd: cmd, param1: p1, param2: p2, params: params})
	}
	return out, nil
}

// parseLine splits "CMD arg1, arg2" the way translator.py's parse_line
// does: a fixed 3-character mnemonic prefix, then a comma-split argument
// list. More than two comma-separated values only ever appears on a DAT
// line, so they're surfaced separately as params.
func parseLine(t string) (cmd, param1, param2 string, params []string) {
	if len(t) < 3 {
		return strings.ToUpper(t), "", "", nil
	}
	cmd = strings.ToUpper(strings.TrimSpace(t[:3]))
	rest := t[3:]
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 2 {
		return cmd, "", "", parts
	}
	if len(parts) >= 1 && parts[0] != "" {
		param1 = parts[0]
	} else {
		param1 = ""
	}
	if len(parts) == 2 {
		param2 = parts[1]
	}
	return cmd, param1, param2, nil
}

// translate is the single emission walk: it builds labelAddr as it goes
// (keyed by program-counter position, in words) and, given relocations
// (label -> address) resolved by a prior call, emits final instruction
// words. Assemble calls it twice: first with extractLabels' placeholder
// table (every label at 0) to gather label addresses, then with those
// addresses to emit the final words — matching asm2bin's two calls to
// translate in the original.
func (a *Assembler) translate(lines []line, relocations map[string]int) (map[string]int, []uint16, error) {
	labelAddr := map[string]int{}
	var program []uint16
	pc := 0

	for _, ln := range lines {
		if ln.cmd == "__LABEL" {
			labelAddr[ln.label] = pc
			continue
		}

		if ln.cmd == "DAT" {
			words, err := assembleDAT(ln)
			if err != nil {
				return nil, nil, &AssembleError{File: ln.file, Line: ln.lineNum, Message: err.Error()}
			}
			program = append(program, words...)
			pc += len(words)
			continue
		}

		words, err := a.assembleInstruction(ln, relocations)
		if err != nil {
			return nil, nil, &AssembleError{File: ln.file, Line: ln.lineNum, Message: err.Error()}
		}
		program = append(program, words...)
		pc += len(words)
	}

	return labelAddr, program, nil
}

func assembleDAT(ln line) ([]uint16, error) {
	params := ln.params
	if params == nil {
		params = []string{ln.param1}
		if ln.param2 != "" {
			params = append(params, ln.param2)
		}
	}

	var words []uint16
	for _, p := range params {
		if p == "" {
			continue
		}
		switch operandKind(p, nil) {
		case kindDecimal:
			v, err := strconv.Atoi(p)
			if err != nil {
				return nil, err
			}
			words = append(words, uint16(v))
		case kindHex:
			v, err := strconv.ParseUint(p[2:], 16, 16)
			if err != nil {
				return nil, err
			}
			words = append(words, uint16(v))
		case kindString:
			for _, c := range p[1 : len(p)-1] {
				words = append(words, uint16(c))
			}
		}
	}
	return words, nil
}

func (a *Assembler) assembleInstruction(ln line, relocations map[string]int) ([]uint16, error) {
	if basicCode, ok := dcpu.BasicOpcode(ln.cmd); ok {
		bCode, bNW, hasB := operandToBinary(ln.param1, relocations)
		aCode, aNW, hasA := operandToBinary(ln.param2, relocations)
		if bCode >= dcpu.OperandInlineLo {
			// b has only 5 bits: inline literals become next-word literals.
			bCode, bNW, hasB = dcpu.OperandLiteralNext, bCode-dcpu.OperandInlineZero, true
		}
		word := basicCode | (bCode << 5) | (aCode << 10)
		words := []uint16{word}
		if hasA {
			words = append(words, aNW)
		}
		if hasB {
			words = append(words, bNW)
		}
		return words, nil
	}

	if specialCode, ok := dcpu.SpecialOpcode(ln.cmd); ok {
		aCode, aNW, hasA := operandToBinary(ln.param1, relocations)
		word := (specialCode << 5) | (aCode << 10)
		words := []uint16{word}
		if hasA {
			words = append(words, aNW)
		}
		return words, nil
	}

	return nil, fmt.Errorf("unknown mnemonic %q", ln.cmd)
}

type operandClass int

const (
	kindNone operandClass = iota
	kindRegister
	kindDecimal
	kindHex
	kindBinary
	kindRegisterPointer
	kindRegisterPlusNextWord
	kindLabel
	kindLabelPointer
	kindMemAddress
	kindString
	kindUnknown
)

// operandKind classifies an operand string in the exact recognition order
// OperandType.determine uses: register name, decimal, 0x-hex, 0b-binary,
// "[reg+label]", bare label, "[reg]", "[label]", "[0x...]", string literal,
// else unknown.
func operandKind(operand string, labels map[string]int) operandClass {
	if operand == "" {
		return kindNone
	}
	if _, ok := registerNames[strings.ToUpper(operand)]; ok {
		return kindRegister
	}
	if isAllDigits(operand) {
		return kindDecimal
	}
	if strings.HasPrefix(operand, "0x") {
		return kindHex
	}
	if strings.HasPrefix(operand, "0b") {
		return kindBinary
	}
	if strings.HasPrefix(operand, "[") && strings.HasSuffix(operand, "]") && strings.Contains(operand, "+") {
		return kindRegisterPlusNextWord
	}
	if labels != nil {
		if _, ok := labels[operand]; ok {
			return kindLabel
		}
	}
	if strings.HasPrefix(operand, "[") && strings.HasSuffix(operand, "]") {
		inner := operand[1 : len(operand)-1]
		if _, ok := registerNames[strings.ToUpper(inner)]; ok {
			return kindRegisterPointer
		}
		if labels != nil {
			if _, ok := labels[inner]; ok {
				return kindLabelPointer
			}
		}
		return kindMemAddress
	}
	if len(operand) >= 2 && (operand[0] == '"' || operand[0] == '\'') {
		return kindString
	}
	return kindUnknown
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// operandToBinary mirrors operand2bin: returns the operand's 6-bit code,
// its next-word if any, and whether a next-word was produced.
func operandToBinary(operand string, labels map[string]int) (code uint16, nextWord uint16, hasNext bool) {
	switch strings.ToUpper(operand) {
	case "PUSH", "POP":
		return dcpu.OperandPushPop, 0, false
	case "PEEK":
		return dcpu.OperandPeek, 0, false
	}
	switch operandKind(operand, labels) {
	case kindNone:
		return 0, 0, false
	case kindRegister:
		reg := registerNames[strings.ToUpper(operand)]
		return regOperandCode(reg), 0, false
	case kindDecimal:
		v, _ := strconv.Atoi(operand)
		return inlineOrLiteral(uint16(v))
	case kindHex:
		v, _ := strconv.ParseUint(operand[2:], 16, 32)
		return inlineOrLiteral(uint16(v))
	case kindBinary:
		v, _ := strconv.ParseUint(operand[2:], 2, 32)
		return inlineOrLiteral(uint16(v))
	case kindRegisterPointer:
		inner := operand[1 : len(operand)-1]
		reg := registerNames[strings.ToUpper(inner)]
		return dcpu.OperandRegIndLo + uint16(reg), 0, false
	case kindRegisterPlusNextWord:
		inner := operand[1 : len(operand)-1]
		parts := strings.SplitN(inner, "+", 2)
		reg := registerNames[strings.ToUpper(strings.TrimSpace(parts[0]))]
		label := strings.TrimSpace(parts[1])
		addr := uint16(labels[label])
		return dcpu.OperandRegOffsetLo + uint16(reg), addr, true
	case kindLabel:
		return dcpu.OperandLiteralNext, uint16(labels[operand]), true
	case kindLabelPointer:
		inner := operand[1 : len(operand)-1]
		return dcpu.OperandMemNextWord, uint16(labels[inner]), true
	case kindMemAddress:
		inner := operand[1 : len(operand)-1]
		v, _ := strconv.ParseUint(inner[2:], 16, 32)
		return dcpu.OperandMemNextWord, uint16(v), true
	default:
		return dcpu.OperandLiteralNext, 0, true
	}
}

// regOperandCode maps A..EX to their direct-register operand codes; SP, PC
// and EX fall outside the 0-7 general-register block.
func regOperandCode(reg dcpu.Reg) uint16 {
	switch reg {
	case dcpu.SP:
		return dcpu.OperandSP
	case dcpu.PC:
		return dcpu.OperandPCReg
	case dcpu.EX:
		return dcpu.OperandEX
	default:
		return uint16(reg)
	}
}

// inlineOrLiteral picks the compact inline-literal encoding for -1..30 and
// falls back to a full next-word literal otherwise.
func inlineOrLiteral(v uint16) (uint16, uint16, bool) {
	sv := int16(v)
	if sv >= -1 && sv <= 30 {
		return dcpu.OperandInlineZero + uint16(sv), 0, false
	}
	return dcpu.OperandLiteralNext, v, true
}
