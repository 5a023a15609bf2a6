// dcpudbg is a termui terminal debugger: registers, two RAM pages, a
// disassembly window following PC, and a tips line, modeled directly on the
// teacher's pure6502 debugger (go/mgnes/cmd/pure6502/main.go). SPACE runs
// until the next BRK, R resets, and ordinary letter
// keys are fanned into the attached keyboard device.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/brickbtv/CodeSpace-DevKit/internal/assembler"
	"github.com/brickbtv/CodeSpace-DevKit/internal/cpu"
	"github.com/brickbtv/CodeSpace-DevKit/internal/dcpu"
	"github.com/brickbtv/CodeSpace-DevKit/internal/decoder"
	"github.com/brickbtv/CodeSpace-DevKit/internal/hardware"
)

var (
	machine       *cpu.CPU
	keyboard      *hardware.Keyboard
	disasmIndex   []uint16
	disasmText    map[uint16]string
	paragraphCPU  *widgets.Paragraph
	paragraphCode *widgets.Paragraph
	paragraphRam0 *widgets.Paragraph
	paragraphRam1 *widgets.Paragraph
	paragraphTips *widgets.Paragraph
)

func renderCpu(p *widgets.Paragraph) {
	sb := &strings.Builder{}
	sb.WriteString(fmt.Sprintf("PC: 0x%04x  SP: 0x%04x  EX: 0x%04x  IA: 0x%04x\n",
		machine.Regs.Get(dcpu.PC), machine.Regs.Get(dcpu.SP), machine.Regs.Get(dcpu.EX), machine.Regs.Get(dcpu.IA)))
	sb.WriteString(fmt.Sprintf("A: 0x%04x  B: 0x%04x  C: 0x%04x\n",
		machine.Regs.Get(dcpu.A), machine.Regs.Get(dcpu.B), machine.Regs.Get(dcpu.C)))
	sb.WriteString(fmt.Sprintf("X: 0x%04x  Y: 0x%04x  Z: 0x%04x\n",
		machine.Regs.Get(dcpu.X), machine.Regs.Get(dcpu.Y), machine.Regs.Get(dcpu.Z)))
	sb.WriteString(fmt.Sprintf("I: 0x%04x  J: 0x%04x\n",
		machine.Regs.Get(dcpu.I), machine.Regs.Get(dcpu.J)))
	if machine.BreakHit {
		sb.WriteString("[BRK](fg:red)")
	}
	p.Text = sb.String()
}

func renderRam(p *widgets.Paragraph, addr uint16, numRow, numCol int) {
	sb := &strings.Builder{}
	words := machine.RAM.Slice(addr, numRow*numCol)
	for row := 0; row < numRow; row++ {
		sb.WriteString(fmt.Sprintf("0x%04x:", addr))
		for col := 0; col < numCol; col++ {
			sb.WriteRune(' ')
			sb.WriteString(fmt.Sprintf("%04x", words[row*numCol+col]))
		}
		sb.WriteRune('\n')
		addr += uint16(numCol)
	}
	p.Text = sb.String()
}

func renderCode(p *widgets.Paragraph) {
	sb := &strings.Builder{}
	pc := machine.Regs.Get(dcpu.PC)
	for _, addr := range disasmIndex {
		if addr+12 < pc || addr > pc+30 {
			continue
		}
		line := disasmText[addr]
		if addr == pc {
			sb.WriteString(fmt.Sprintf("[%s](fg:cyan)", line))
		} else {
			sb.WriteString(line)
		}
		sb.WriteRune('\n')
	}
	p.Text = sb.String()
}

func renderTips(p *widgets.Paragraph) {
	p.Text = "SPACE = Step to next BRK    R = Reset    other keys = keyboard input    Q = Quit"
}

func draw() {
	renderRam(paragraphRam0, 0x0000, 16, 16)
	renderRam(paragraphRam1, 0x8000, 16, 16)
	renderCpu(paragraphCPU)
	renderCode(paragraphCode)
	renderTips(paragraphTips)

	ui.Render(paragraphRam0, paragraphRam1, paragraphCPU, paragraphCode, paragraphTips)
}

func disassemble() {
	disasmIndex = disasmIndex[:0]
	disasmText = map[uint16]string{}
	w := decoder.NewWalker(&machine.RAM, 0, decoder.ModeDisassembly)
	for w.Addr() < 0xffff {
		addr, ins, err := w.Next()
		if err != nil {
			break
		}
		disasmIndex = append(disasmIndex, addr)
		disasmText[addr] = fmt.Sprintf("0x%04x: %s", addr, decoder.Render(ins))
		if w.Addr() < addr {
			break // wrapped around top of memory
		}
	}
}

func loadMachine(path string) {
	machine = cpu.New(hardware.NewDefaultBus())
	kb, ok := cpu.GetDeviceByType[*hardware.Keyboard](machine)
	if !ok {
		log.Fatal("default bus has no keyboard device")
	}
	keyboard = kb

	dir, name := splitPath(path)
	asm := assembler.New(assembler.FileSource{Dir: dir})
	program, err := asm.Assemble(name)
	if err != nil {
		log.Fatalf("assemble %s: %v", path, err)
	}
	machine.LoadProgram(program)

	disassemble()
	machine.Reset()
	machine.LoadProgram(program)
}

func splitPath(path string) (dir, name string) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i], path[i+1:]
		}
	}
	return ".", path
}

func initLayout() {
	paragraphRam0 = widgets.NewParagraph()
	paragraphRam0.Title = "RAM 0x0000"
	paragraphRam0.SetRect(0, 0, 56, 18)

	paragraphRam1 = widgets.NewParagraph()
	paragraphRam1.Title = "RAM 0x8000 (video)"
	paragraphRam1.SetRect(0, 18, 56, 36)

	paragraphCPU = widgets.NewParagraph()
	paragraphCPU.Title = "CPU"
	paragraphCPU.SetRect(56, 0, 56+40, 7)

	paragraphCode = widgets.NewParagraph()
	paragraphCode.Title = "Disassembly"
	paragraphCode.SetRect(56, 7, 56+40, 7+29)

	paragraphTips = widgets.NewParagraph()
	paragraphTips.Title = "Tips"
	paragraphTips.SetRect(0, 36, 56+40, 39)
}

func stepToBreak() {
	for i := 0; i < 1_000_000; i++ {
		_, hit, err := machine.Step()
		if err != nil {
			return
		}
		if hit {
			return
		}
	}
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dcpudbg <source.dcpu16>")
		os.Exit(1)
	}

	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	initLayout()
	loadMachine(os.Args[1])
	draw()

	for e := range ui.PollEvents() {
		if e.Type != ui.KeyboardEvent {
			continue
		}
		switch e.ID {
		case "q", "Q", "<C-c>":
			return
		case "<Space>":
			stepToBreak()
		case "r", "R":
			machine.Reset()
			loadMachine(os.Args[1])
		default:
			if len(e.ID) == 1 {
				keyboard.HandleKeyEvent(machine, uint16(e.ID[0]), true)
			}
		}
		draw()
	}
}
