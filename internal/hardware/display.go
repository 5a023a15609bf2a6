package hardware

import "github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"

// defaultPalette is the LEM1802's built-in 16-color palette, each entry
// packed as 0x0RGB (4 bits per channel), matching the shape
// display.py reads out of LEM1802_PALETTE.
var defaultPalette = [16]uint16{
	0x000, 0x00a, 0x0a0, 0x0aa, 0xa00, 0xa0a, 0xa50, 0xaaa,
	0x555, 0x55f, 0x5f5, 0x5ff, 0xf55, 0xf5f, 0xff5, 0xfff,
}

// defaultFontWords is an all-zero placeholder font (2 words per character,
// the LEM1802's cell-encoding shape); it holds no glyph data, since the
// characters original_source/constants.py defined are not available — this
// kit never rendered pixels to a real screen, so only the shape of
// font-RAM addressing matters, not pixel-exact glyphs (see DESIGN.md).
var defaultFontWords = [512]uint16{}

// Display is grounded on original_source/devkit/hardware/display.py — the
// LEM1802. It tracks the RAM bases the guest program points it at and
// reports raw pixel words through GetChar/LoadPalette rather than drawing
// anything itself; a host UI decides how to render those words.
type Display struct {
	base
	VideoRAM    uint16
	FontRAM     uint16
	PaletteRAM  uint16
	BorderColor uint8
}

// NewDisplay builds an LEM1802 device.
func NewDisplay() *Display {
	return &Display{base: base{id: 0x7349f615, version: 0x1802, vendor: 0x1c6c8b36}}
}

func (d *Display) HandleInterrupt(h Host) {
	switch h.Reg(dcpu.A) {
	case 0:
		d.VideoRAM = h.Reg(dcpu.B)
	case 1:
		d.FontRAM = h.Reg(dcpu.B)
	case 2:
		d.PaletteRAM = h.Reg(dcpu.B)
	case 3:
		d.BorderColor = uint8(h.Reg(dcpu.B) & 0xf)
	case 4:
		base := h.Reg(dcpu.B)
		for i, w := range defaultFontWords {
			h.WriteMem(base+uint16(i), w)
		}
	case 5:
		base := h.Reg(dcpu.B)
		for i, w := range defaultPalette {
			h.WriteMem(base+uint16(i), w)
		}
	}
}

// GetChar returns the two words describing one glyph cell, reading from
// font RAM when the guest relocated it (mirrors get_char).
func (d *Display) GetChar(h Host, char int) (hi, lo uint16) {
	idx := char * 2
	if d.FontRAM == 0 {
		if idx+1 < len(defaultFontWords) {
			return defaultFontWords[idx], defaultFontWords[idx+1]
		}
		return 0, 0
	}
	base := d.FontRAM + uint16(idx)
	return h.ReadMem(base), h.ReadMem(base + 1)
}

// RGB is one resolved palette color.
type RGB struct{ R, G, B uint8 }

// LoadPalette resolves the 16-entry active palette to RGB triples, reading
// from palette RAM when the guest relocated it (mirrors load_palette, minus
// its lru_cache — nothing here is expensive enough to need memoizing).
func (d *Display) LoadPalette(h Host) [16]RGB {
	var data [16]uint16
	if d.PaletteRAM > 0 {
		for i := range data {
			data[i] = h.ReadMem(d.PaletteRAM + uint16(i))
		}
	} else {
		data = defaultPalette
	}

	var out [16]RGB
	for i, val := range data {
		out[i] = RGB{
			R: uint8((val&0x0f00)>>8) * 16,
			G: uint8((val&0x00f0)>>4) * 16,
			B: uint8(val&0x000f) * 16,
		}
	}
	return out
}
