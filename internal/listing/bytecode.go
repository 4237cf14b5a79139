package listing

import (
	"strings"

	"asmview/internal/disasm"
)

// MapBytecode converts a bytecode disassembly into output lines, attaching
// source locations resolved through table. Blank lines are dropped; lines
// without the numeric prefix are kept unmapped. A nil table maps nothing.
func MapBytecode(text string, table *SymbolTable) []OutputLine {
	lines := splitLines(text)
	out := make([]OutputLine, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ol := OutputLine{Text: line}
		if inst, ok := disasm.Parse(line); ok {
			ol.Source = table.Resolve(inst.Index)
		}
		out = append(out, ol)
	}
	return out
}

// BytecodeExtractor maps bytecode disassembly through a symbol table.
type BytecodeExtractor struct {
	Symbols *SymbolTable
	// LoadErr records why Symbols is nil, if loading was attempted.
	LoadErr error
}

// NewBytecodeExtractor loads the symbol document (if any). A document that
// fails to load leaves the extractor without symbols rather than failing.
func NewBytecodeExtractor(symbols []byte, primary int) *BytecodeExtractor {
	if len(symbols) == 0 {
		return &BytecodeExtractor{}
	}
	table, err := LoadSymbolTable(symbols, primary)
	if err != nil {
		return &BytecodeExtractor{LoadErr: err}
	}
	return &BytecodeExtractor{Symbols: table}
}

func (e *BytecodeExtractor) Extract(raw string) (Extraction, error) {
	ex := Extraction{Lines: MapBytecode(raw, e.Symbols)}
	switch {
	case len(disasm.ParseAll(splitLines(raw))) == 0:
		ex.Degraded = "no instruction lines"
	case e.LoadErr != nil:
		ex.Degraded = "symbol table unusable: " + e.LoadErr.Error()
	case e.Symbols == nil:
		ex.Degraded = "no symbol table"
	}
	return ex, nil
}
