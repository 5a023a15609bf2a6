package dcpu

// Basic opcode values occupy the low 5 bits of an instruction word. 0x00 is
// reserved to mean "this word is a special-form instruction instead".
const (
	OpSpecial = 0x00
	OpSET     = 0x01
	OpADD     = 0x02
	OpSUB     = 0x03
	OpMUL     = 0x04
	OpMLI     = 0x05
	OpDIV     = 0x06
	OpDVI     = 0x07
	OpMOD     = 0x08
	OpMDI     = 0x09
	OpAND     = 0x0a
	OpBOR     = 0x0b
	OpXOR     = 0x0c
	OpSHR     = 0x0d
	OpASR     = 0x0e
	OpSHL     = 0x0f
	OpIFB     = 0x10
	OpIFC     = 0x11
	OpIFE     = 0x12
	OpIFN     = 0x13
	OpIFG     = 0x14
	OpIFA     = 0x15
	OpIFL     = 0x16
	OpIFU     = 0x17
	OpADX     = 0x1a
	OpSBX     = 0x1b
	OpSTI     = 0x1e
	OpSDI     = 0x1f
)

// Special opcode values occupy bits [9:5] of an instruction word whose low 5
// bits are zero. 0x00 stays reserved/invalid (spec.md §7's canonical decode
// error example); 0x02 is this kit's non-standard slot for BRK, since the
// spec names BRK as a recognized mnemonic but the DCPU-16 wire format never
// allocated one (see DESIGN.md).
const (
	SpecialReserved0 = 0x00
	OpJSR            = 0x01
	OpBRK            = 0x02
	OpINT            = 0x08
	OpIAG            = 0x09
	OpIAS            = 0x0a
	OpRFI            = 0x0b
	OpIAQ            = 0x0c
	OpHWN            = 0x10
	OpHWQ            = 0x11
	OpHWI            = 0x12
)

var basicMnemonics = map[uint16]string{
	OpSET: "SET", OpADD: "ADD", OpSUB: "SUB", OpMUL: "MUL", OpMLI: "MLI",
	OpDIV: "DIV", OpDVI: "DVI", OpMOD: "MOD", OpMDI: "MDI", OpAND: "AND",
	OpBOR: "BOR", OpXOR: "XOR", OpSHR: "SHR", OpASR: "ASR", OpSHL: "SHL",
	OpIFB: "IFB", OpIFC: "IFC", OpIFE: "IFE", OpIFN: "IFN", OpIFG: "IFG",
	OpIFA: "IFA", OpIFL: "IFL", OpIFU: "IFU", OpADX: "ADX", OpSBX: "SBX",
	OpSTI: "STI", OpSDI: "SDI",
}

var specialMnemonics = map[uint16]string{
	OpJSR: "JSR", OpBRK: "BRK", OpINT: "INT", OpIAG: "IAG", OpIAS: "IAS",
	OpRFI: "RFI", OpIAQ: "IAQ", OpHWN: "HWN", OpHWQ: "HWQ", OpHWI: "HWI",
}

var mnemonicToBasic map[string]uint16
var mnemonicToSpecial map[string]uint16

func init() {
	mnemonicToBasic = make(map[string]uint16, len(basicMnemonics))
	for code, name := range basicMnemonics {
		mnemonicToBasic[name] = code
	}
	mnemonicToSpecial = make(map[string]uint16, len(specialMnemonics))
	for code, name := range specialMnemonics {
		mnemonicToSpecial[name] = code
	}
}

// BasicMnemonic returns the mnemonic for a basic opcode and whether it is
// recognized.
func BasicMnemonic(op uint16) (string, bool) {
	m, ok := basicMnemonics[op]
	return m, ok
}

// SpecialMnemonic returns the mnemonic for a special opcode and whether it
// is recognized.
func SpecialMnemonic(op uint16) (string, bool) {
	m, ok := specialMnemonics[op]
	return m, ok
}

// BasicOpcode returns the basic opcode for a mnemonic and whether it exists.
func BasicOpcode(mnemonic string) (uint16, bool) {
	v, ok := mnemonicToBasic[mnemonic]
	return v, ok
}

// SpecialOpcode returns the special opcode for a mnemonic and whether it
// exists.
func SpecialOpcode(mnemonic string) (uint16, bool) {
	v, ok := mnemonicToSpecial[mnemonic]
	return v, ok
}

// Operand code ranges (spec.md §3).
const (
	OperandRegDirectLo   = 0x00
	OperandRegDirectHi   = 0x07
	OperandRegIndLo      = 0x08
	OperandRegIndHi      = 0x0f
	OperandRegOffsetLo   = 0x10
	OperandRegOffsetHi   = 0x17
	OperandPushPop       = 0x18
	OperandPeek          = 0x19
	OperandPick          = 0x1a
	OperandSP            = 0x1b
	OperandPCReg         = 0x1c
	OperandEX            = 0x1d
	OperandMemNextWord   = 0x1e
	OperandLiteralNext   = 0x1f
	OperandInlineLo      = 0x20
	OperandInlineHi      = 0x3f
	OperandInlineNegOne  = 0x20
	OperandInlineZero    = 0x21
)

// NeedsNextWord reports whether an operand code consumes an extra word from
// the instruction stream (spec.md §3).
func NeedsNextWord(code uint16) bool {
	switch {
	case code >= OperandRegOffsetLo && code <= OperandRegOffsetHi:
		return true
	case code == OperandPick, code == OperandMemNextWord, code == OperandLiteralNext:
		return true
	default:
		return false
	}
}

// generalRegisters maps operand codes 0x00-0x07 and their [reg]/[reg+nw]
// counterparts to the underlying register.
var generalRegisters = [8]Reg{A, B, C, X, Y, Z, I, J}

// GeneralRegister returns the register named by a 0-7 index into {A..J}.
func GeneralRegister(index uint16) Reg {
	return generalRegisters[index&0x7]
}
