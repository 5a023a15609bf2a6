package assembler

import (
	"bufio"
	"os"
	"path/filepath"
)

// FileSource resolves .dcpu16 source files relative to a working directory,
// the way extract_labels/gen_lines read files by name in translator.py.
type FileSource struct {
	Dir string
}

func (f FileSource) ReadSource(name string) ([]string, error) {
	file, err := os.Open(filepath.Join(f.Dir, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// MapSource resolves source files from an in-memory map, one string per
// line, for tests that assemble small programs without touching disk.
type MapSource map[string][]string

func (m MapSource) ReadSource(name string) ([]string, error) {
	lines, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return lines, nil
}
