// dcpudisasm reads a word binary produced by dcpuasm and prints one
// disassembled line per instruction, DAT heuristic enabled so data tables
// embedded in the binary still render instead of aborting.
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/brickbtv/CodeSpace-DevKit/internal/decoder"
)

func main() {
	app := &cli.App{
		Name:    "dcpudisasm",
		Usage:   "disassemble a DCPU-16 word binary",
		Version: "v0.1.0",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				cli.ShowAppHelp(c)
				return cli.Exit("exactly one binary file is required", 86)
			}
			return disassemble(c.Args().First())
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func disassemble(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(raw[i*2:])
	}

	w := decoder.NewWalker(decoder.Slice(words), 0, decoder.ModeDisassembly)
	for w.Addr() < uint16(len(words)) {
		addr, ins, err := w.Next()
		if err != nil {
			fmt.Printf("0x%04x: <error: %v>\n", addr, err)
			continue
		}
		fmt.Printf("0x%04x: %s\n", addr, decoder.Render(ins))
	}
	return nil
}
