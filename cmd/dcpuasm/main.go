// dcpuasm assembles a .dcpu16 source file (following .include directives)
// into a flat big-endian word binary, in the style of the teacher's
// chr2png command-line tool (go/chr2png/main.go).
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/brickbtv/CodeSpace-DevKit/internal/assembler"
)

func main() {
	app := &cli.App{
		Name:    "dcpuasm",
		Usage:   "assemble a DCPU-16 source file into a word binary",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output binary path",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				cli.ShowAppHelp(c)
				return cli.Exit("exactly one source file is required", 86)
			}
			in := c.Args().First()
			out := c.String("out")
			if out == "" {
				out = trimExt(in) + ".bin"
			}
			return assemble(in, out)
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

func assemble(in, out string) error {
	dir := filepath.Dir(in)
	name := filepath.Base(in)

	asm := assembler.New(assembler.FileSource{Dir: dir})
	program, err := asm.Assemble(name)
	if err != nil {
		return fmt.Errorf("assemble %s: %w", in, err)
	}

	words := make([]byte, len(program)*2)
	for i, w := range program {
		binary.BigEndian.PutUint16(words[i*2:], w)
	}

	if err := os.WriteFile(out, words, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("%s -> %s (%d words)\n", in, out, len(program))
	return nil
}
