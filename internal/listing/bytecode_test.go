package listing

import (
	"testing"
)

const parseBytecodeOutput = `  half-word   byte   op                                    raw           notes

          0   0      JI { imm: 4 }                         [144, 0, 0, 4] jump to byte 16
          1   4      NOOP                                  [71, 0, 0, 0]

          4   16     MOVI { ra: 16, imm: 42 }              [114, 64, 0, 42]
          5   20     RET { ra: 16 }                        [36, 64, 0, 0]
`

func TestMapBytecode(t *testing.T) {
	table, err := LoadSymbolTable([]byte(forcSymbols), DefaultPrimarySourceIndex)
	if err != nil {
		t.Fatal(err)
	}

	out := MapBytecode(parseBytecodeOutput, table)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5 (blank lines dropped)", len(out))
	}
	if out[0].Source != nil {
		t.Errorf("header mapped to %v", out[0].Source)
	}
	if out[1].Source != nil {
		t.Errorf("stdlib instruction mapped to %v", out[1].Source)
	}
	if out[2].Source != nil {
		t.Errorf("unknown instruction mapped to %v", out[2].Source)
	}
	if out[3].Source == nil || out[3].Source.Line != 7 || out[3].Source.Column != 5 {
		t.Errorf("MOVI mapped to %v, want line 7 col 5", out[3].Source)
	}
	if out[4].Source == nil || out[4].Source.Line != 8 {
		t.Errorf("RET mapped to %v, want line 8", out[4].Source)
	}
	if out[3].Text != "          4   16     MOVI { ra: 16, imm: 42 }              [114, 64, 0, 42]" {
		t.Errorf("text altered: %q", out[3].Text)
	}
}

func TestMapBytecodeWithoutSymbols(t *testing.T) {
	out := MapBytecode(parseBytecodeOutput, nil)
	for _, l := range out {
		if l.Source != nil {
			t.Fatalf("line %q mapped without a symbol table", l.Text)
		}
	}
}

func TestBytecodeExtractorDegrades(t *testing.T) {
	tests := []struct {
		name     string
		symbols  []byte
		degraded bool
		mapped   bool
	}{
		{"valid symbols", []byte(forcSymbols), false, true},
		{"no symbols", nil, true, false},
		{"malformed symbols", []byte("{broken"), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := NewBytecodeExtractor(tt.symbols, DefaultPrimarySourceIndex).Extract(parseBytecodeOutput)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if (ex.Degraded != "") != tt.degraded {
				t.Errorf("Degraded = %q", ex.Degraded)
			}
			if got := (Result{Lines: ex.Lines}).Mapped() > 0; got != tt.mapped {
				t.Errorf("mapped = %v, want %v", got, tt.mapped)
			}
			if len(ex.Lines) != 5 {
				t.Errorf("len = %d, want 5", len(ex.Lines))
			}
		})
	}
}

func TestBytecodeExtractorNoInstructions(t *testing.T) {
	ex, err := NewBytecodeExtractor([]byte(forcSymbols), DefaultPrimarySourceIndex).Extract("error: no such file\n")
	if err != nil {
		t.Fatal(err)
	}
	if ex.Degraded != "no instruction lines" {
		t.Errorf("Degraded = %q", ex.Degraded)
	}
	if len(ex.Lines) != 1 || ex.Lines[0].Source != nil {
		t.Errorf("lines = %+v", ex.Lines)
	}
}
