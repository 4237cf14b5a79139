// Package disasm defines the line shape of a bytecode disassembly listing as
// printed by `forc parse-bytecode`.
package disasm

import "regexp"

// Inst is one disassembly line whose prefix carries two numeric fields.
type Inst struct {
	Index  string // opcode (half-word) index, the symbol table join key
	Offset string // second numeric field (byte offset)
	Text   string // full original line
}

// Stream is a linear sequence of instructions.
type Stream []Inst

var instPrefixRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+`)

// Parse extracts the numeric prefix of a disassembly line. Lines without the
// two-field prefix (headers, separators) report false.
func Parse(line string) (Inst, bool) {
	m := instPrefixRe.FindStringSubmatch(line)
	if m == nil {
		return Inst{Text: line}, false
	}
	return Inst{Index: m[1], Offset: m[2], Text: line}, true
}

// ParseAll parses every line that has the numeric prefix and skips the rest.
func ParseAll(lines []string) Stream {
	var s Stream
	for _, l := range lines {
		if inst, ok := Parse(l); ok {
			s = append(s, inst)
		}
	}
	return s
}
