package hardware

import "log"

// Boot, Laser and Floppy are unimplemented in the original source too
// (original_source/devkit/hardware/{boot,laser,floppy}.py each just log
// and return); kept as stubs here rather than invented, since nothing in
// spec.md describes their sub-function protocol.

type Boot struct{ base }

func NewBoot() *Boot {
	return &Boot{base: base{id: 0xEC418001, version: 0x0001, vendor: 0x54482B2B}}
}

func (b *Boot) HandleInterrupt(h Host) {
	log.Print("boot device not implemented")
}

type Laser struct{ base }

func NewLaser() *Laser {
	return &Laser{base: base{id: 0xEA635459, version: 0x0001, vendor: 0x54482B2B}}
}

func (l *Laser) HandleInterrupt(h Host) {
	log.Print("laser device not implemented")
}

type Floppy struct{ base }

func NewFloppy() *Floppy {
	return &Floppy{base: base{id: 0x4FD524C5, version: 0x0001, vendor: 0x54482B2B}}
}

func (f *Floppy) HandleInterrupt(h Host) {
	log.Print("floppy device not implemented")
}
