package listing

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line" jsonschema:"title=Line,description=1-based source line"`
	Column int `json:"column" jsonschema:"title=Column,description=1-based source column"`
}

// Range spans a source region.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SymbolEntry maps one opcode index to a region of one of the table's paths.
type SymbolEntry struct {
	PathIndex int   `json:"pathIndex" jsonschema:"title=Path Index,description=Index into paths"`
	Range     Range `json:"range"`
}

// SymbolPayload is the canonical shape of a symbol table document.
type SymbolPayload struct {
	Paths   []string               `json:"paths" jsonschema:"title=Paths,description=Source paths referenced by entries"`
	Entries map[string]SymbolEntry `json:"entries" jsonschema:"title=Entries,description=Opcode index to source range"`
}

// forc writes symbols.json with shorter key names ("map", "path", "col").
// Both spellings are accepted and normalized once, here.
type rawPosition struct {
	Line   *int `json:"line"`
	Col    *int `json:"col"`
	Column *int `json:"column"`
}

type rawEntry struct {
	Path      *int `json:"path"`
	PathIndex *int `json:"pathIndex"`
	Range     *struct {
		Start rawPosition `json:"start"`
		End   rawPosition `json:"end"`
	} `json:"range"`
}

type rawSymbolTable struct {
	Paths   []string            `json:"paths"`
	Map     map[string]rawEntry `json:"map"`
	Entries map[string]rawEntry `json:"entries"`
}

// SymbolTable resolves opcode indices to source locations. It is immutable
// once loaded. A nil *SymbolTable is valid and resolves nothing.
type SymbolTable struct {
	paths   []string
	entries map[string]SymbolEntry
	primary int
}

// LoadSymbolTable decodes a symbol table document. Only entries whose path
// index equals primary are ever resolved.
func LoadSymbolTable(data []byte, primary int) (*SymbolTable, error) {
	var raw rawSymbolTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSymbolTable, err)
	}
	if raw.Paths == nil || (raw.Map == nil && raw.Entries == nil) {
		return nil, fmt.Errorf("%w: missing paths or entries", ErrMalformedSymbolTable)
	}

	payload := SymbolPayload{
		Paths:   raw.Paths,
		Entries: make(map[string]SymbolEntry, len(raw.Map)+len(raw.Entries)),
	}
	for _, src := range []map[string]rawEntry{raw.Map, raw.Entries} {
		for key, re := range src {
			entry, err := normalizeEntry(key, re)
			if err != nil {
				return nil, err
			}
			payload.Entries[key] = entry
		}
	}
	return NewSymbolTable(payload, primary)
}

// NewSymbolTable builds a table from an already decoded payload.
func NewSymbolTable(p SymbolPayload, primary int) (*SymbolTable, error) {
	entries := make(map[string]SymbolEntry, len(p.Entries))
	for key, e := range p.Entries {
		if _, err := strconv.ParseUint(key, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: opcode index %q is not decimal", ErrMalformedSymbolTable, key)
		}
		if e.PathIndex < 0 || e.PathIndex >= len(p.Paths) {
			return nil, fmt.Errorf("%w: entry %s: path index %d out of range", ErrMalformedSymbolTable, key, e.PathIndex)
		}
		entries[key] = e
	}
	return &SymbolTable{paths: p.Paths, entries: entries, primary: primary}, nil
}

func normalizeEntry(key string, re rawEntry) (SymbolEntry, error) {
	idx := re.PathIndex
	if idx == nil {
		idx = re.Path
	}
	if idx == nil || re.Range == nil {
		return SymbolEntry{}, fmt.Errorf("%w: entry %s: missing path index or range", ErrMalformedSymbolTable, key)
	}
	return SymbolEntry{
		PathIndex: *idx,
		Range: Range{
			Start: normalizePosition(re.Range.Start),
			End:   normalizePosition(re.Range.End),
		},
	}, nil
}

func normalizePosition(p rawPosition) Position {
	var pos Position
	if p.Line != nil {
		pos.Line = *p.Line
	}
	switch {
	case p.Column != nil:
		pos.Column = *p.Column
	case p.Col != nil:
		pos.Column = *p.Col
	}
	return pos
}

// Resolve returns the source location of an opcode index, or nil when the
// index is unknown or belongs to a path other than the primary source.
func (t *SymbolTable) Resolve(opcodeIndex string) *SourceLocation {
	if t == nil {
		return nil
	}
	e, ok := t.entries[opcodeIndex]
	if !ok || e.PathIndex != t.primary {
		return nil
	}
	return &SourceLocation{
		File:   t.paths[e.PathIndex],
		Line:   e.Range.Start.Line,
		Column: e.Range.Start.Column,
	}
}

// Len returns the number of entries, resolvable or not.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// PrimaryPath returns the path of the primary source, if the table has one.
func (t *SymbolTable) PrimaryPath() string {
	if t == nil || t.primary < 0 || t.primary >= len(t.paths) {
		return ""
	}
	return t.paths[t.primary]
}
