package listing

import (
	"errors"
	"testing"
)

const forcSymbols = `{
  "paths": ["/std/src/lib.sw", "/tmp/proj/src/main.sw"],
  "map": {
    "0": {"path": 0, "range": {"start": {"line": 3, "col": 1}, "end": {"line": 3, "col": 9}}},
    "4": {"path": 1, "range": {"start": {"line": 7, "col": 5}, "end": {"line": 7, "col": 20}}},
    "5": {"path": 1, "range": {"start": {"line": 8, "col": 2}, "end": {"line": 8, "col": 4}}}
  }
}`

func TestLoadSymbolTable(t *testing.T) {
	table, err := LoadSymbolTable([]byte(forcSymbols), DefaultPrimarySourceIndex)
	if err != nil {
		t.Fatalf("LoadSymbolTable: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}
	if got := table.PrimaryPath(); got != "/tmp/proj/src/main.sw" {
		t.Errorf("PrimaryPath = %q", got)
	}

	tests := []struct {
		index string
		want  *SourceLocation
	}{
		{"4", &SourceLocation{File: "/tmp/proj/src/main.sw", Line: 7, Column: 5}},
		{"5", &SourceLocation{File: "/tmp/proj/src/main.sw", Line: 8, Column: 2}},
		{"0", nil}, // exists, but belongs to the standard library
		{"9", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run("index "+tt.index, func(t *testing.T) {
			got := table.Resolve(tt.index)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Resolve(%q) = %v, want nil", tt.index, got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("Resolve(%q) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestLoadSymbolTableCanonicalShape(t *testing.T) {
	doc := `{"paths":["a.sw","b.sw"],"entries":{"12":{"pathIndex":0,"range":{"start":{"line":2,"column":6},"end":{"line":2,"column":9}}}}}`
	table, err := LoadSymbolTable([]byte(doc), 0)
	if err != nil {
		t.Fatalf("LoadSymbolTable: %v", err)
	}
	loc := table.Resolve("12")
	if loc == nil || *loc != (SourceLocation{File: "a.sw", Line: 2, Column: 6}) {
		t.Errorf("Resolve = %v", loc)
	}
}

func TestNonPrimaryNeverResolves(t *testing.T) {
	payload := SymbolPayload{Paths: []string{"std.sw", "main.sw", "dep.sw"}, Entries: map[string]SymbolEntry{}}
	for i, p := range []int{0, 2, 0, 2, 1} {
		payload.Entries[string(rune('0'+i))] = SymbolEntry{PathIndex: p, Range: Range{Start: Position{Line: i + 1, Column: 1}}}
	}
	table, err := NewSymbolTable(payload, 1)
	if err != nil {
		t.Fatal(err)
	}
	for key, e := range payload.Entries {
		got := table.Resolve(key)
		if e.PathIndex != 1 && got != nil {
			t.Errorf("entry %s with path %d resolved to %v", key, e.PathIndex, got)
		}
		if e.PathIndex == 1 && got == nil {
			t.Errorf("primary entry %s did not resolve", key)
		}
	}
}

func TestLoadSymbolTableMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `symbols`},
		{"wrong type", `{"paths": "main.sw", "map": {}}`},
		{"missing map", `{"paths": ["main.sw"]}`},
		{"missing paths", `{"map": {}}`},
		{"path out of range", `{"paths": ["a"], "map": {"1": {"path": 3, "range": {"start": {"line": 1, "col": 1}}}}}`},
		{"non decimal key", `{"paths": ["a"], "map": {"x1": {"path": 0, "range": {"start": {"line": 1, "col": 1}}}}}`},
		{"missing range", `{"paths": ["a"], "map": {"1": {"path": 0}}}`},
		{"missing path", `{"paths": ["a"], "map": {"1": {"range": {"start": {"line": 1}}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadSymbolTable([]byte(tt.doc), 1)
			if !errors.Is(err, ErrMalformedSymbolTable) {
				t.Fatalf("err = %v, want ErrMalformedSymbolTable", err)
			}
			if table.Resolve("1") != nil {
				t.Error("failed table resolved a location")
			}
		})
	}
}

func TestNilSymbolTable(t *testing.T) {
	var table *SymbolTable
	if table.Resolve("0") != nil || table.Len() != 0 || table.PrimaryPath() != "" {
		t.Fatal("nil table should resolve nothing")
	}
}
